// Package config provides configuration loading and management for tumorarea.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"tumorarea/internal/models"
	"tumorarea/pkg/morphology"
	"tumorarea/pkg/roi"
	"tumorarea/pkg/segmentation"
	"tumorarea/pkg/threshold"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Segmentation parameters
	Segmentation struct {
		// Method is "manual" or "automatic" ("otsu" is accepted as an alias)
		Method string `yaml:"method"`

		// Threshold is the manual cut value in [0, 255]
		Threshold int `yaml:"threshold"`

		// MorphOp is one of none, opening, closing, erosion, dilation
		MorphOp string `yaml:"morphOp"`

		// KernelSize is the odd side of the structuring element, 1 to 15
		KernelSize int `yaml:"kernelSize"`
	} `yaml:"segmentation"`

	// Region of interest parameters
	ROI struct {
		// Policy is "band" or "adaptive"
		Policy string `yaml:"policy"`

		Low  int `yaml:"low"`
		High int `yaml:"high"`

		BlockSize int     `yaml:"blockSize"`
		Offset    float64 `yaml:"offset"`
	} `yaml:"roi"`

	// Output parameters
	Output struct {
		// SaveIntermediaryResults writes every stage image of each run
		SaveIntermediaryResults bool `yaml:"saveIntermediaryResults"`

		// IntermediaryDir is where stage images are written
		IntermediaryDir string `yaml:"intermediaryDir"`

		// ReportFile is the YAML report path; empty disables the report
		ReportFile string `yaml:"reportFile"`

		// IncludeHistograms adds the raw 256-bin histograms to the report
		IncludeHistograms bool `yaml:"includeHistograms"`

		// Workers is the number of images processed concurrently
		Workers int `yaml:"workers"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}
	defaults := segmentation.DefaultParams()

	cfg.Segmentation.Method = defaults.Method.String()
	cfg.Segmentation.Threshold = defaults.Threshold
	cfg.Segmentation.MorphOp = defaults.MorphOp.String()
	cfg.Segmentation.KernelSize = defaults.KernelSize

	cfg.ROI.Policy = defaults.ROI.Policy.String()
	cfg.ROI.Low = defaults.ROI.Low
	cfg.ROI.High = defaults.ROI.High
	cfg.ROI.BlockSize = defaults.ROI.BlockSize
	cfg.ROI.Offset = defaults.ROI.Offset

	cfg.Output.SaveIntermediaryResults = false
	cfg.Output.IntermediaryDir = "intermediary_results"
	cfg.Output.ReportFile = ""
	cfg.Output.IncludeHistograms = false
	cfg.Output.Workers = 1
	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

// Params converts the configuration into validated pipeline parameters.
// Every rejection wraps models.ErrInvalidParameter.
func (c *Config) Params() (segmentation.Params, error) {
	var p segmentation.Params
	var err error

	if p.Method, err = threshold.ParseMethod(c.Segmentation.Method); err != nil {
		return p, err
	}
	if p.MorphOp, err = morphology.ParseOperator(c.Segmentation.MorphOp); err != nil {
		return p, err
	}
	if p.ROI.Policy, err = roi.ParsePolicy(c.ROI.Policy); err != nil {
		return p, err
	}

	p.Threshold = c.Segmentation.Threshold
	p.KernelSize = c.Segmentation.KernelSize
	p.ROI.Low = c.ROI.Low
	p.ROI.High = c.ROI.High
	p.ROI.BlockSize = c.ROI.BlockSize
	p.ROI.Offset = c.ROI.Offset

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// Validate checks the whole configuration without running anything.
func (c *Config) Validate() error {
	if _, err := c.Params(); err != nil {
		return err
	}
	if c.Output.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d: %w", c.Output.Workers, models.ErrInvalidParameter)
	}
	if c.Output.SaveIntermediaryResults && c.Output.IntermediaryDir == "" {
		return fmt.Errorf("intermediaryDir is required when saving intermediary results: %w", models.ErrInvalidParameter)
	}
	return nil
}
