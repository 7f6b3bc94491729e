package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tumorarea/internal/models"
	"tumorarea/pkg/morphology"
	"tumorarea/pkg/roi"
	"tumorarea/pkg/threshold"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected default config to be valid, got %v", err)
	}

	p, err := cfg.Params()
	if err != nil {
		t.Fatalf("Params failed: %v", err)
	}
	if p.Method != threshold.Manual || p.Threshold != 160 {
		t.Errorf("Expected manual threshold 160, got %v/%d", p.Method, p.Threshold)
	}
	if p.MorphOp != morphology.None || p.KernelSize != 3 {
		t.Errorf("Expected no morphology with kernel 3, got %v/%d", p.MorphOp, p.KernelSize)
	}
	if p.ROI.Policy != roi.Band || p.ROI.Low != 100 || p.ROI.High != 255 {
		t.Errorf("Expected band [100,255], got %v [%d,%d]", p.ROI.Policy, p.ROI.Low, p.ROI.High)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Expected defaults for a missing file, got %v", err)
	}
	if cfg.Segmentation.Threshold != 160 {
		t.Errorf("Expected default threshold 160, got %d", cfg.Segmentation.Threshold)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `segmentation:
  method: otsu
  morphOp: Closing
  kernelSize: 5
roi:
  policy: adaptive
  blockSize: 15
  offset: 3.5
output:
  workers: 4
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	p, err := cfg.Params()
	if err != nil {
		t.Fatalf("Params failed: %v", err)
	}

	if p.Method != threshold.Automatic {
		t.Errorf("Expected automatic method, got %v", p.Method)
	}
	if p.MorphOp != morphology.Closing || p.KernelSize != 5 {
		t.Errorf("Expected closing with kernel 5, got %v/%d", p.MorphOp, p.KernelSize)
	}
	if p.ROI.Policy != roi.Adaptive || p.ROI.BlockSize != 15 || p.ROI.Offset != 3.5 {
		t.Errorf("Unexpected ROI params: %+v", p.ROI)
	}
	// untouched keys keep their defaults
	if p.Threshold != 160 || p.ROI.Low != 100 {
		t.Errorf("Expected defaults to survive, got threshold %d low %d", p.Threshold, p.ROI.Low)
	}
	if cfg.Output.Workers != 4 {
		t.Errorf("Expected 4 workers, got %d", cfg.Output.Workers)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("segmentation: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("CreateDefaultConfigFile failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Expected reloaded config to equal defaults, got %+v", cfg)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"even kernel", func(c *Config) { c.Segmentation.KernelSize = 2 }},
		{"kernel too large", func(c *Config) { c.Segmentation.KernelSize = 21 }},
		{"threshold out of range", func(c *Config) { c.Segmentation.Threshold = 300 }},
		{"unknown method", func(c *Config) { c.Segmentation.Method = "watershed" }},
		{"unknown operator", func(c *Config) { c.Segmentation.MorphOp = "skeleton" }},
		{"unknown policy", func(c *Config) { c.ROI.Policy = "circle" }},
		{"bad band", func(c *Config) { c.ROI.Low = 300 }},
		{"even block", func(c *Config) { c.ROI.Policy = "adaptive"; c.ROI.BlockSize = 8 }},
		{"no workers", func(c *Config) { c.Output.Workers = 0 }},
		{"missing intermediary dir", func(c *Config) {
			c.Output.SaveIntermediaryResults = true
			c.Output.IntermediaryDir = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, models.ErrInvalidParameter) {
				t.Errorf("Expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}
