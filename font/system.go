package font

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flopp/go-findfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/typeset/internal/logging"
)

// AddFile loads every face of the .ttf, .otf or .ttc file at path.
func (c *Collection) AddFile(path string, opts ...FaceOption) ([]FaceID, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided
	if err != nil {
		return nil, fmt.Errorf("font: read %s: %w", path, err)
	}
	ids, err := c.AddCollection(data, opts...)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return ids, nil
}

// LoadSystemFonts registers every font file found in the platform font
// directories. Unreadable files are logged and skipped. It returns the
// number of faces added.
func (c *Collection) LoadSystemFonts() int {
	n := 0
	for _, path := range findfont.List() {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".ttf", ".otf", ".ttc", ".otc":
		default:
			continue
		}
		ids, err := c.AddFile(path)
		if err != nil {
			logging.L().Warn("font: skipping system font", "path", path, "err", err)
			continue
		}
		n += len(ids)
	}
	logging.L().Debug("font: system fonts loaded", "faces", n)
	return n
}

// LoadSystemFont finds a font file by name, such as "DejaVuSans.ttf" or
// "arial", and registers its faces.
func (c *Collection) LoadSystemFont(name string, opts ...FaceOption) ([]FaceID, error) {
	path, err := findfont.Find(name)
	if err != nil {
		return nil, fmt.Errorf("font: find %q: %w", name, err)
	}
	return c.AddFile(path, opts...)
}

// AddGoFonts registers the Go font family bundled with x/image: regular,
// bold, italic and bold italic proportional faces, plus mono regular and
// bold. Unset generic aliases are pointed at them.
func (c *Collection) AddGoFonts() error {
	fonts := []struct {
		data []byte
		opts []FaceOption
	}{
		{goregular.TTF, []FaceOption{WithFamily("Go"), WithWeight(WeightNormal), WithStyle(StyleNormal)}},
		{gobold.TTF, []FaceOption{WithFamily("Go"), WithWeight(WeightBold), WithStyle(StyleNormal)}},
		{goitalic.TTF, []FaceOption{WithFamily("Go"), WithWeight(WeightNormal), WithStyle(StyleItalic)}},
		{gobolditalic.TTF, []FaceOption{WithFamily("Go"), WithWeight(WeightBold), WithStyle(StyleItalic)}},
		{gomono.TTF, []FaceOption{WithFamily("Go Mono"), WithWeight(WeightNormal), WithMonospace(true)}},
		{gomonobold.TTF, []FaceOption{WithFamily("Go Mono"), WithWeight(WeightBold), WithMonospace(true)}},
	}
	for _, f := range fonts {
		if _, err := c.AddFace(f.data, f.opts...); err != nil {
			return err
		}
	}

	c.mu.Lock()
	for generic, family := range map[string]string{SansSerif: "go", Serif: "go", Monospace: "go mono"} {
		if _, ok := c.aliases[generic]; !ok {
			c.aliases[generic] = family
		}
	}
	if c.defaultFamily == "" {
		c.defaultFamily = "go"
	}
	c.mu.Unlock()
	c.gen.Add(1)
	return nil
}

// systemLocale derives a BCP 47 tag from LC_ALL or LANG, such as
// "en_US.UTF-8" -> "en-US". It falls back to "en-US".
func systemLocale() string {
	for _, env := range []string{"LC_ALL", "LANG"} {
		v := os.Getenv(env)
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return "en-US"
}
