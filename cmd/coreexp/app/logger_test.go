package app

import (
	"testing"
)

// TestDetermineLogLevel tests the log level precedence logic.
func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name: "default level when no flags set",
			config: &Config{
				LogLevel: "",
				Verbose:  false,
				Quiet:    false,
			},
			expected: "info",
		},
		{
			name: "verbose flag sets debug",
			config: &Config{
				LogLevel: "",
				Verbose:  true,
				Quiet:    false,
			},
			expected: "debug",
		},
		{
			name: "quiet flag sets warn",
			config: &Config{
				LogLevel: "",
				Verbose:  false,
				Quiet:    true,
			},
			expected: "warn",
		},
		{
			name: "explicit log-level overrides verbose",
			config: &Config{
				LogLevel: "error",
				Verbose:  true,
				Quiet:    false,
			},
			expected: "error",
		},
		{
			name: "explicit log-level overrides quiet",
			config: &Config{
				LogLevel: "trace",
				Verbose:  false,
				Quiet:    true,
			},
			expected: "trace",
		},
		{
			name: "both verbose and quiet prefers quiet",
			config: &Config{
				LogLevel: "",
				Verbose:  true,
				Quiet:    true,
			},
			expected: "warn",
		},
		{
			name: "env var LOG_LEVEL read from config",
			config: &Config{
				LogLevel: "debug",
				Verbose:  false,
				Quiet:    false,
			},
			expected: "debug",
		},
		{
			name: "invalid log level falls back to info",
			config: &Config{
				LogLevel: "invalid",
				Verbose:  false,
				Quiet:    false,
			},
			expected: "info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := determineLogLevel(tt.config)
			if result != tt.expected {
				t.Errorf("determineLogLevel() = %q, expected %q", result, tt.expected)
			}
		})
	}
}

// TestValidateLogLevel tests log level validation.
func TestValidateLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected string
	}{
		{name: "trace is valid", level: "trace", expected: "trace"},
		{name: "debug is valid", level: "debug", expected: "debug"},
		{name: "info is valid", level: "info", expected: "info"},
		{name: "warn is valid", level: "warn", expected: "warn"},
		{name: "error is valid", level: "error", expected: "error"},
		{name: "unknown falls back to info", level: "loud", expected: "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateLogLevel(tt.level)
			if result != tt.expected {
				t.Errorf("validateLogLevel(%q) = %q, expected %q", tt.level, result, tt.expected)
			}
		})
	}
}

// TestNewLogger verifies logger construction from config.
func TestNewLogger(t *testing.T) {
	logger := NewLogger(&Config{
		LogLevel:  "debug",
		LogFormat: "json",
		LogOutput: "stderr",
	})

	if logger.GetLevel().String() != "debug" {
		t.Errorf("logger level = %s, want debug", logger.GetLevel())
	}
}
