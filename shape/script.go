package shape

import (
	"unicode"

	"github.com/go-text/typesetting/language"

	"github.com/gogpu/typeset/segment"
)

// detectScripts returns the script of every rune with Inherited and Common
// runes resolved from their neighbours.
func detectScripts(runes []rune) []language.Script {
	scripts := make([]language.Script, len(runes))
	for i, r := range runes {
		scripts[i] = language.LookupScript(r)
	}
	return resolveScripts(scripts)
}

// resolveScripts gives Inherited runes the preceding concrete script, then
// resolves Common runes from the concrete scripts around them.
func resolveScripts(scripts []language.Script) []language.Script {
	last := language.Common
	for i, s := range scripts {
		switch s {
		case language.Inherited:
			scripts[i] = last
		case language.Common:
		default:
			last = s
		}
	}

	last = language.Common
	for i, s := range scripts {
		if s != language.Common && s != language.Inherited {
			last = s
			continue
		}
		scripts[i] = resolveCommonScript(last, nextConcreteScript(scripts, i+1))
	}
	return scripts
}

func nextConcreteScript(scripts []language.Script, start int) language.Script {
	for _, s := range scripts[start:] {
		if s != language.Common && s != language.Inherited {
			return s
		}
	}
	return language.Common
}

func resolveCommonScript(prev, next language.Script) language.Script {
	switch {
	case prev != language.Common:
		return prev
	case next != language.Common:
		return next
	default:
		return language.Common
	}
}

// sticksToPrevious reports whether r must use the face of the rune before
// it: combining marks, joiners and variation selectors.
func sticksToPrevious(r rune) bool {
	switch {
	case r == zwj, r == zwnj:
		return true
	case r >= 0xFE00 && r <= 0xFE0F, r >= 0xE0100 && r <= 0xE01EF:
		return true
	case unicode.In(r, unicode.Mn, unicode.Me):
		return true
	}
	return language.LookupScript(r) == language.Inherited
}

const (
	zwsp = '\u200b'
	zwnj = '\u200c'
	zwj  = '\u200d'
	wj   = '\u2060'
	bom  = '\ufeff'
	shy  = '\u00ad'
)

// isIgnorable reports whether r is rendered with zero advance.
func isIgnorable(r rune) bool {
	switch r {
	case zwsp, zwnj, zwj, wj, bom, shy:
		return true
	}
	return segment.IsBidiControl(r)
}
