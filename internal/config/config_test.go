package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if cfg.Analysis.NominalCapacity != 50 {
		t.Errorf("expected capacity 50, got %v", cfg.Analysis.NominalCapacity)
	}
	if cfg.Analysis.RiskRanking != "recent" {
		t.Errorf("expected risk ranking 'recent', got %q", cfg.Analysis.RiskRanking)
	}
	if cfg.Reports.Schedule != "0 6 1 * *" {
		t.Errorf("expected monthly schedule, got %q", cfg.Reports.Schedule)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
analysis:
  risk_ranking: score
server:
  port: 9000
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Analysis.RiskRanking != "score" {
		t.Errorf("expected ranking 'score', got %q", cfg.Analysis.RiskRanking)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	// Defaults should still be set for unspecified fields
	if cfg.Analysis.ClusterMinSize != 3 || cfg.Analysis.RiskLimit != 10 {
		t.Errorf("expected default cluster size and risk limit, got %+v", cfg.Analysis)
	}
	if cfg.Reports.Schedule != "" {
		t.Errorf("expected no schedule, got %q", cfg.Reports.Schedule)
	}
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"ranking", "analysis:\n  risk_ranking: random\n", "risk_ranking"},
		{"capacity", "analysis:\n  nominal_capacity: 0\n", "nominal_capacity"},
		{"cluster size", "analysis:\n  cluster_min_size: 1\n", "cluster_min_size"},
		{"port", "server:\n  port: 70000\n", "port"},
		{"level", "logging:\n  level: LOUD\n", "level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected error to mention %s, got %v", tt.field, err)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Analysis.NominalCapacity != 50 {
		t.Error("expected analysis section to be populated from file")
	}
}

func TestResolveConfigPathExplicit(t *testing.T) {
	if _, err := ResolveConfigPath(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, DefaultConfigYAML, 0o644)
	got, err := ResolveConfigPath(path)
	if err != nil || got != path {
		t.Errorf("expected %s, got %s (%v)", path, got, err)
	}
}

func TestDefault(t *testing.T) {
	if Default().Logging.Level != "INFO" {
		t.Error("expected INFO logging in default config")
	}
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	defaultDir := cfg.GetDataDir()
	if defaultDir == "" {
		t.Error("expected non-empty default data dir")
	}

	cfg.Output.DataDir = "/custom/path"
	if cfg.GetDataDir() != "/custom/path" {
		t.Errorf("expected '/custom/path', got %q", cfg.GetDataDir())
	}
}
