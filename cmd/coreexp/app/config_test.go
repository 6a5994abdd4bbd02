package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/audiolab/coreexp/pkg/constants"
)

// TestLoadConfig verifies basic config loading.
func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config == nil {
		t.Fatal("LoadConfig() returned nil config")
	}

	// Verify defaults are set
	if config.IndexURL != constants.DefaultReleaseIndexURL {
		t.Errorf("IndexURL = %s, want %s", config.IndexURL, constants.DefaultReleaseIndexURL)
	}
	if config.CoreVersion != DefaultCoreVersion {
		t.Errorf("CoreVersion = %s, want %s", config.CoreVersion, DefaultCoreVersion)
	}
	if config.HomeDir == "" {
		t.Error("HomeDir not set to default")
	}
	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
}

// TestConfig_EnvironmentVariables verifies environment variable loading.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv("COREEXP_INDEX_URL", "https://example.com/index.0.json")
	t.Setenv("COREEXP_CORE_VERSION", "3.6.0")
	t.Setenv("COREEXP_JAVA_PATH", "/opt/java/bin/java")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.IndexURL != "https://example.com/index.0.json" {
		t.Errorf("IndexURL = %s, want https://example.com/index.0.json", config.IndexURL)
	}
	if config.CoreVersion != "3.6.0" {
		t.Errorf("CoreVersion = %s, want 3.6.0", config.CoreVersion)
	}
	if config.JavaPath != "/opt/java/bin/java" {
		t.Errorf("JavaPath = %s, want /opt/java/bin/java", config.JavaPath)
	}
}

// TestConfig_LogLevelEnv verifies the LOG_LEVEL environment variable.
func TestConfig_LogLevelEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", config.LogLevel)
	}
}

// TestConfig_Paths verifies derived path helpers.
func TestConfig_Paths(t *testing.T) {
	config := &Config{HomeDir: filepath.Join(string(os.PathSeparator), "srv", "coreexp")}

	wantNode := filepath.Join(config.HomeDir, constants.NodeDirName)
	if got := config.NodeDir(); got != wantNode {
		t.Errorf("NodeDir() = %s, want %s", got, wantNode)
	}

	wantPin := filepath.Join(config.HomeDir, constants.ReleasePinFileName)
	if got := config.PinPath(); got != wantPin {
		t.Errorf("PinPath() = %s, want %s", got, wantPin)
	}
}

// TestConfig_UpdateFromFlags verifies flag values take precedence.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{LogLevel: "info"}

	config.UpdateFromFlags(true, false, true, "error")

	if !config.Verbose {
		t.Error("Verbose flag not applied")
	}
	if config.Quiet {
		t.Error("Quiet flag applied unexpectedly")
	}
	if !config.NoColor {
		t.Error("NoColor flag not applied")
	}
	if config.LogLevel != "error" {
		t.Errorf("LogLevel = %s, want error", config.LogLevel)
	}

	// Empty log level leaves the configured one in place
	config.UpdateFromFlags(false, false, false, "")
	if config.LogLevel != "error" {
		t.Errorf("LogLevel = %s, want error after empty flag", config.LogLevel)
	}
}
