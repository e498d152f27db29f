package config

import (
	"testing"
)

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DscGG: DscGGConfig{
				Token:   "a-real-token",
				BaseURL: "https://api.dsc.gg/v2",
				Timeout: 30,
			},
			Logging: LoggingConfig{
				Level:  "info",
				Format: "console",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(cfg *Config) {},
			wantErr: false,
		},
		{
			name:    "missing token",
			mutate:  func(cfg *Config) { cfg.DscGG.Token = "" },
			wantErr: true,
		},
		{
			name:    "placeholder token",
			mutate:  func(cfg *Config) { cfg.DscGG.Token = "your-api-token-here" },
			wantErr: true,
		},
		{
			name:    "non-positive timeout",
			mutate:  func(cfg *Config) { cfg.DscGG.Timeout = 0 },
			wantErr: true,
		},
		{
			name:    "invalid logging level",
			mutate:  func(cfg *Config) { cfg.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "trace level allowed",
			mutate:  func(cfg *Config) { cfg.Logging.Level = "trace" },
			wantErr: false,
		},
		{
			name:    "invalid logging format",
			mutate:  func(cfg *Config) { cfg.Logging.Format = "xml" },
			wantErr: true,
		},
		{
			name:    "json format allowed",
			mutate:  func(cfg *Config) { cfg.Logging.Format = "json" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
