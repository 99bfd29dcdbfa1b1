package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.Conversion.XMLVersion != 3 {
		t.Errorf("Default xml version = %d, want 3", cfg.Conversion.XMLVersion)
	}
	if cfg.Catalogs.Timeout != 30*time.Second {
		t.Errorf("Default timeout = %v, want 30s", cfg.Catalogs.Timeout)
	}
	if len(cfg.Catalogs.Bibliography) != 5 {
		t.Errorf("Default bibliography sources = %d, want 5", len(cfg.Catalogs.Bibliography))
	}
	if len(cfg.Catalogs.WorkingGroups) != 2 {
		t.Errorf("Default working group sources = %d, want 2", len(cfg.Catalogs.WorkingGroups))
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
conversion:
  xml_version: 2
  normative: [RFC2119, RFC8174]
catalogs:
  cache_dir: ` + tmpDir + `/cache/
  timeout: 5s
  bibliography:
    - http://localhost/bibxml/
logging:
  console:
    level: debug
  file:
    level: none
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Conversion.XMLVersion != 2 {
		t.Errorf("XMLVersion = %d, want 2", cfg.Conversion.XMLVersion)
	}
	if len(cfg.Conversion.Normative) != 2 {
		t.Errorf("Normative length = %d, want 2", len(cfg.Conversion.Normative))
	}
	if cfg.Catalogs.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Catalogs.Timeout)
	}
	if cfg.Catalogs.CacheDir != filepath.Join(tmpDir, "cache") {
		t.Errorf("CacheDir = %q, want cleaned path", cfg.Catalogs.CacheDir)
	}
	if len(cfg.Catalogs.Bibliography) != 1 {
		t.Errorf("Bibliography sources = %d, want 1", len(cfg.Catalogs.Bibliography))
	}
	// untouched values keep their defaults
	if len(cfg.Catalogs.WorkingGroups) != 2 {
		t.Errorf("WorkingGroups sources = %d, want 2", len(cfg.Catalogs.WorkingGroups))
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	_, err := LoadConfiguration("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "version: 1\nconversion:\n  xml_version: 3\n  invalid indent\n"},
		{"unknown field", "version: 1\nconversion:\n  unknown_field: true\n"},
		{"bad version", "version: 2\n"},
		{"bad xml version", "version: 1\nconversion:\n  xml_version: 4\n"},
		{"bad timeout", "version: 1\ncatalogs:\n  timeout: 0s\n"},
		{"bad log level", "version: 1\nlogging:\n  console:\n    level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestPrepareAndDump(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if !strings.Contains(string(data), "xml_version: 3") {
		t.Errorf("Prepare() output misses defaults:\n%s", data)
	}
	if strings.Contains(string(data), "{{") {
		t.Errorf("Prepare() left template actions unexpanded:\n%s", data)
	}

	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	data, err = Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	for _, want := range []string{"conversion:", "catalogs:", "timeout: 30s", "logging:"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Dump() output misses %q:\n%s", want, data)
		}
	}
}

func TestLoggingPrepare(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "rfcmark.log")
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "debug", Destination: dest, Mode: "overwrite"},
	}
	log, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("hello file")
	_ = log.Sync()

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "hello file") {
		t.Errorf("log file content = %q, want the message", data)
	}
}
