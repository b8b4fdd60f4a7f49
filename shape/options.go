package shape

// DefaultTabWidth is the default tab width in spaces.
const DefaultTabWidth = 8

// Option configures a Shaper.
type Option func(*config)

type config struct {
	oracle   Oracle
	tabWidth int
	cache    *RunCache
}

func defaultConfig() config {
	return config{tabWidth: DefaultTabWidth}
}

// WithOracle sets the Oracle used by the Advanced strategy. By default a
// HarfBuzz oracle is used when the catalog implements font.GoTextSource.
func WithOracle(o Oracle) Option {
	return func(c *config) {
		c.oracle = o
	}
}

// WithTabWidth sets the advance of a tab in spaces.
func WithTabWidth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.tabWidth = n
		}
	}
}

// WithRunCache enables memoization of shaped runs.
func WithRunCache(rc *RunCache) Option {
	return func(c *config) {
		c.cache = rc
	}
}
