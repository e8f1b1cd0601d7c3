package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:            "8080",
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		StoreBackend:    "memory",
		TPSRate:         0.05,
		TVQRate:         0.09975,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid memory backend config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "valid sqlite backend config",
			modify:  func(c *Config) { c.StoreBackend = "sqlite" },
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			modify:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range high",
			modify:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid store backend",
			modify:      func(c *Config) { c.StoreBackend = "postgres" },
			wantErr:     true,
			errorString: "invalid store backend 'postgres': must be one of [memory sqlite]",
		},
		{
			name:        "invalid log level",
			modify:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
		{
			name:        "negative TPS rate",
			modify:      func(c *Config) { c.TPSRate = -0.05 },
			wantErr:     true,
			errorString: "invalid TPS rate -0.05: must be in [0, 1)",
		},
		{
			name:        "TVQ rate given as a percentage",
			modify:      func(c *Config) { c.TVQRate = 9.975 },
			wantErr:     true,
			errorString: "invalid TVQ rate 9.975: must be in [0, 1)",
		},
		{
			name:        "shutdown timeout too short",
			modify:      func(c *Config) { c.ShutdownTimeout = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid shutdown timeout 100ms: must be at least 1 second",
		},
		{
			name: "multiple errors are combined",
			modify: func(c *Config) {
				c.Port = "0"
				c.StoreBackend = ""
			},
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535\n- invalid store backend ''",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{"PORT", "LOG_LEVEL", "STORE_BACKEND", "TPS_RATE", "TVQ_RATE", "SHUTDOWN_TIMEOUT", "METRICS_ENABLED"} {
			t.Setenv(key, "")
		}

		cfg := Load()
		if cfg.Port != "8080" {
			t.Errorf("Load() Port = %v, want 8080", cfg.Port)
		}
		if cfg.StoreBackend != "memory" {
			t.Errorf("Load() StoreBackend = %v, want memory", cfg.StoreBackend)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("Load() LogLevel = %v, want info", cfg.LogLevel)
		}
		if cfg.TPSRate != 0.05 || cfg.TVQRate != 0.09975 {
			t.Errorf("Load() rates = %v/%v, want 0.05/0.09975", cfg.TPSRate, cfg.TVQRate)
		}
		if cfg.ShutdownTimeout != 10*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
		}
		if !cfg.MetricsEnabled {
			t.Errorf("Load() MetricsEnabled = false, want true")
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("default config does not validate: %v", err)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("LOG_LEVEL", "DEBUG")
		t.Setenv("STORE_BACKEND", "sqlite")
		t.Setenv("TPS_RATE", "0.06")
		t.Setenv("SHUTDOWN_TIMEOUT", "30s")
		t.Setenv("METRICS_ENABLED", "false")
		t.Setenv("TVQ_RATE", "not-a-number")

		cfg := Load()
		if cfg.Addr() != ":9090" {
			t.Errorf("Load() Addr = %v, want :9090", cfg.Addr())
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("Load() LogLevel = %v, want debug", cfg.LogLevel)
		}
		if cfg.StoreBackend != "sqlite" {
			t.Errorf("Load() StoreBackend = %v, want sqlite", cfg.StoreBackend)
		}
		if cfg.TPSRate != 0.06 {
			t.Errorf("Load() TPSRate = %v, want 0.06", cfg.TPSRate)
		}
		if cfg.TVQRate != 0.09975 {
			t.Errorf("Load() TVQRate = %v, want fallback 0.09975", cfg.TVQRate)
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 30s", cfg.ShutdownTimeout)
		}
		if cfg.MetricsEnabled {
			t.Errorf("Load() MetricsEnabled = true, want false")
		}
	})
}
