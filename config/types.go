package config

// Config represents the complete configuration structure
type Config struct {
	DscGG   DscGGConfig   `mapstructure:"dscgg"`
	Search  SearchConfig  `mapstructure:"search"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// DscGGConfig holds dsc.gg API connection details
type DscGGConfig struct {
	Token   string `mapstructure:"token"`
	BaseURL string `mapstructure:"base_url"`
	// Timeout is the total request timeout in seconds.
	Timeout int `mapstructure:"timeout"`
	// StrictErrors surfaces every non-2xx read response instead of
	// collapsing them into absent results.
	StrictErrors bool `mapstructure:"strict_errors"`
}

// SearchConfig contains defaults for the search and top commands
type SearchConfig struct {
	DefaultLimit  int    `mapstructure:"default_limit"`
	DefaultFilter string `mapstructure:"default_filter"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
