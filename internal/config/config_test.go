package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYAML = `
server:
  host: 127.0.0.1
  port: 9090
  mode: debug
log:
  level: debug
  format: text
llm:
  base_url: http://127.0.0.1:1234
  model: vocalis
data:
  dir: ./testdata
database:
  path: ":memory:"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Server.Mode != "debug" {
		t.Errorf("server config not applied: %+v", cfg.Server)
	}
	if cfg.LLM.Model != "vocalis" {
		t.Errorf("llm config not applied: %+v", cfg.LLM)
	}
	if got := cfg.GetServerAddr(); got != "127.0.0.1:9090" {
		t.Errorf("addr = %q", got)
	}
	// Defaults fill what the file omits.
	if cfg.LLM.MaxTokens != 2048 {
		t.Errorf("max_tokens default not applied: %d", cfg.LLM.MaxTokens)
	}
	if !cfg.Data.ImportOnStart {
		t.Error("import_on_start should default to true")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  string
		errPart string
	}{
		{"bad port", "port: 9090", "port: 0"},
		{"bad mode", "mode: debug", "mode: production"},
		{"bad level", "level: debug", "level: verbose"},
		{"bad format", "format: text", "format: xml"},
		{"missing llm url", "base_url: http://127.0.0.1:1234", "base_url: \"\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yaml := strings.Replace(validYAML, tt.mutate, tt.errPart, 1)
			if _, err := Load(writeConfig(t, yaml)); err == nil {
				t.Errorf("expected validation error for %s", tt.name)
			}
		})
	}
}
