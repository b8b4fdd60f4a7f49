package segment

import "golang.org/x/text/unicode/bidi"

// numberLevels raises European and Arabic numbers to their implicit level
// (rules W1 to W7, I1 and I2). bidi.Ordering groups runs by direction
// only, so numbers at level 2 come back folded into level 0 text.
//
// Paragraphs with explicit embeddings, overrides or isolates keep the
// levels they were given.
func numberLevels(runes []rune, levels []uint8, base Direction) {
	classes := make([]bidi.Class, len(runes))
	for i, r := range runes {
		if isExplicit(r) {
			return
		}
		props, _ := bidi.LookupRune(r)
		classes[i] = props.Class()
	}
	sos := bidi.L
	if base == RTL {
		sos = bidi.R
	}

	// W1
	prev := sos
	for i, c := range classes {
		if c == bidi.NSM {
			classes[i] = prev
		} else {
			prev = c
		}
	}

	// W2, W3
	strong := sos
	for i, c := range classes {
		switch c {
		case bidi.L, bidi.R:
			strong = c
		case bidi.AL:
			strong = bidi.AL
			classes[i] = bidi.R
		case bidi.EN:
			if strong == bidi.AL {
				classes[i] = bidi.AN
			}
		}
	}

	// W4
	for i := 1; i+1 < len(classes); i++ {
		a, c, b := classes[i-1], classes[i], classes[i+1]
		switch {
		case c == bidi.ES && a == bidi.EN && b == bidi.EN:
			classes[i] = bidi.EN
		case c == bidi.CS && a == b && (a == bidi.EN || a == bidi.AN):
			classes[i] = a
		}
	}

	// W5
	for i := 0; i < len(classes); {
		if classes[i] != bidi.ET {
			i++
			continue
		}
		j := i
		for j < len(classes) && classes[j] == bidi.ET {
			j++
		}
		if (i > 0 && classes[i-1] == bidi.EN) || (j < len(classes) && classes[j] == bidi.EN) {
			for k := i; k < j; k++ {
				classes[k] = bidi.EN
			}
		}
		i = j
	}

	// W7
	strong = sos
	for i, c := range classes {
		switch c {
		case bidi.L, bidi.R:
			strong = c
		case bidi.EN:
			if strong == bidi.L {
				classes[i] = bidi.L
			}
		}
	}

	// I1, I2
	lvl := base.Level() + 1
	if base == LTR {
		lvl = base.Level() + 2
	}
	for i, c := range classes {
		if c == bidi.EN || c == bidi.AN {
			levels[i] = lvl
		}
	}
}

// isExplicit reports whether r opens or closes an embedding, override or
// isolate.
func isExplicit(r rune) bool {
	return (r >= '\u202a' && r <= '\u202e') || (r >= '\u2066' && r <= '\u2069')
}
