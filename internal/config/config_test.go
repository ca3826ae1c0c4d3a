package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sample = `
base_url: http://mirror.example/deliver
timeout: 45s
probe_timeout: 5s
ranges:
  - {min: 0, max: 499, label: "000_499"}
  - {min: 500, max: 999, label: "500_999"}
templates:
  - "{type}_{spec}v{version}p.pdf"
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.BaseURL != "http://mirror.example/deliver" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if time.Duration(cfg.Timeout) != 45*time.Second {
		t.Errorf("Timeout = %v", time.Duration(cfg.Timeout))
	}
	if time.Duration(cfg.ProbeTimeout) != 5*time.Second {
		t.Errorf("ProbeTimeout = %v", time.Duration(cfg.ProbeTimeout))
	}
	if len(cfg.Ranges) != 2 || cfg.Ranges[1].Label != "500_999" || cfg.Ranges[1].Min != 500 {
		t.Errorf("Ranges = %+v", cfg.Ranges)
	}
	if len(cfg.Templates) != 1 {
		t.Errorf("Templates = %v", cfg.Templates)
	}
	// base_url, timeout, probe_timeout, ranges, templates
	if got := len(cfg.Options()); got != 5 {
		t.Errorf("Options() = %d entries, want 5", got)
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cfg.Options()) != 0 {
		t.Errorf("Options() = %d entries, want none", len(cfg.Options()))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "overlapping ranges",
			yaml: `ranges:
  - {min: 0, max: 150, label: a}
  - {min: 100, max: 199, label: b}`,
			wantErr: "overlap",
		},
		{
			name:    "reversed range",
			yaml:    `ranges: [{min: 300, max: 200, label: x}]`,
			wantErr: "reversed",
		},
		{
			name:    "missing label",
			yaml:    `ranges: [{min: 0, max: 99}]`,
			wantErr: "no label",
		},
		{
			name:    "template without version",
			yaml:    `templates: ["{type}_{spec}.pdf"]`,
			wantErr: "{version}",
		},
		{
			name:    "bad duration",
			yaml:    `timeout: soon`,
			wantErr: "invalid duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Ranges) != 2 {
		t.Errorf("Ranges = %+v", cfg.Ranges)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}
