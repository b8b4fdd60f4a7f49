package font

// CollectionOption configures a Collection.
type CollectionOption func(*collectionConfig)

type collectionConfig struct {
	locale         string
	matchCacheSize int
	defaultFamily  string
}

func defaultCollectionConfig() collectionConfig {
	return collectionConfig{
		locale:         systemLocale(),
		matchCacheSize: 256,
	}
}

// WithLocale sets the BCP 47 locale used as the default shaping language.
func WithLocale(locale string) CollectionOption {
	return func(c *collectionConfig) {
		c.locale = locale
	}
}

// WithMatchCacheSize bounds the number of memoized style queries.
// A value of 0 disables the bound.
func WithMatchCacheSize(n int) CollectionOption {
	return func(c *collectionConfig) {
		c.matchCacheSize = n
	}
}

// WithDefaultFamily sets the family used when a query names an unknown one.
func WithDefaultFamily(family string) CollectionOption {
	return func(c *collectionConfig) {
		c.defaultFamily = family
	}
}

// FaceOption overrides metadata read from a font file.
type FaceOption func(*Description)

// WithFamily overrides the family name.
func WithFamily(family string) FaceOption {
	return func(d *Description) {
		d.Family = family
	}
}

// WithWeight overrides the weight.
func WithWeight(w Weight) FaceOption {
	return func(d *Description) {
		d.Weight = w
	}
}

// WithStyle overrides the style.
func WithStyle(s Style) FaceOption {
	return func(d *Description) {
		d.Style = s
	}
}

// WithMonospace marks the face as monospaced or not.
func WithMonospace(mono bool) FaceOption {
	return func(d *Description) {
		d.Monospace = mono
	}
}
