package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kinetic-data/motion.report/internal/aggregate"
	"github.com/kinetic-data/motion.report/internal/mocap"
)

// DefaultConfigPath is the path to the canonical pipeline defaults file.
const DefaultConfigPath = "config/pipeline.defaults.json"

// Run mode constants. The mode only selects which dataset directory is read
// and where results go; the core pipeline receives resolved paths and is
// agnostic to it.
const (
	ModeTest = "test"
	ModeRaw  = "raw"
)

// PipelineConfig represents the root configuration for a pipeline run.
// Fields omitted from the JSON file retain their default values, so partial
// configs are safe.
type PipelineConfig struct {
	// Dataset roots per run mode
	DataDirTest *string `json:"data_dir_test,omitempty"`
	DataDirRaw  *string `json:"data_dir_raw,omitempty"`
	ResultsDir  *string `json:"results_dir,omitempty"`

	// Marker tokens. Tracked markers get a QdM series each; the shoulder
	// pair defines the normalization width.
	Markers       []string `json:"markers,omitempty"`
	LeftShoulder  *string  `json:"left_shoulder,omitempty"`
	RightShoulder *string  `json:"right_shoulder,omitempty"`

	// Design params
	Conditions      []string `json:"conditions,omitempty"`
	ExcludeSubjects []string `json:"exclude_subjects,omitempty"`
	SummaryStat     *string  `json:"summary_stat,omitempty"` // "mean" or "median"

	// SampleRateHz overrides the sampling frequency declared in the trial
	// files. Leave unset to trust the file headers.
	SampleRateHz *float64 `json:"sample_rate_hz,omitempty"`

	// Output params
	WritePlots *bool `json:"write_plots,omitempty"`
}

// EmptyPipelineConfig returns a PipelineConfig with all fields unset.
// Use LoadPipelineConfig to load actual values from a file.
func EmptyPipelineConfig() *PipelineConfig {
	return &PipelineConfig{}
}

// LoadPipelineConfig loads a PipelineConfig from a JSON file. The file is
// validated to ensure it has a .json extension and is under the max file
// size.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyPipelineConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *PipelineConfig) Validate() error {
	if c.SummaryStat != nil {
		if _, err := aggregate.ParseStat(*c.SummaryStat); err != nil {
			return err
		}
	}
	for _, cond := range c.Conditions {
		if _, err := mocap.ParseCondition(cond); err != nil {
			return err
		}
	}
	if c.LeftShoulder != nil && *c.LeftShoulder == "" {
		return fmt.Errorf("left_shoulder must not be empty")
	}
	if c.RightShoulder != nil && *c.RightShoulder == "" {
		return fmt.Errorf("right_shoulder must not be empty")
	}
	for _, m := range c.Markers {
		if m == "" {
			return fmt.Errorf("markers must not contain empty tokens")
		}
	}
	if c.SampleRateHz != nil && *c.SampleRateHz <= 0 {
		return fmt.Errorf("sample_rate_hz must be positive, got %g", *c.SampleRateHz)
	}
	return nil
}

// DataDir resolves the dataset directory for a run mode.
func (c *PipelineConfig) DataDir(mode string) (string, error) {
	switch mode {
	case ModeTest:
		return c.GetDataDirTest(), nil
	case ModeRaw:
		return c.GetDataDirRaw(), nil
	default:
		return "", fmt.Errorf("unknown run mode %q (valid: test, raw)", mode)
	}
}

// GetDataDirTest returns the test dataset directory or the default.
func (c *PipelineConfig) GetDataDirTest() string {
	if c.DataDirTest == nil {
		return "data/test"
	}
	return *c.DataDirTest
}

// GetDataDirRaw returns the raw dataset directory or the default.
func (c *PipelineConfig) GetDataDirRaw() string {
	if c.DataDirRaw == nil {
		return "data/raw"
	}
	return *c.DataDirRaw
}

// GetResultsDir returns the results directory or the default.
func (c *PipelineConfig) GetResultsDir() string {
	if c.ResultsDir == nil {
		return "results"
	}
	return *c.ResultsDir
}

// GetMarkers returns the tracked marker tokens or the defaults: both wrists
// and the head.
func (c *PipelineConfig) GetMarkers() []string {
	if len(c.Markers) == 0 {
		return []string{"poignet_D", "poignet_G", "tete"}
	}
	return c.Markers
}

// GetLeftShoulder returns the left shoulder marker token or the default.
func (c *PipelineConfig) GetLeftShoulder() string {
	if c.LeftShoulder == nil {
		return "2epaule_G"
	}
	return *c.LeftShoulder
}

// GetRightShoulder returns the right shoulder marker token or the default.
func (c *PipelineConfig) GetRightShoulder() string {
	if c.RightShoulder == nil {
		return "2epaule_D"
	}
	return *c.RightShoulder
}

// GetConditions returns the required conditions in design order, defaulting
// to all three postures.
func (c *PipelineConfig) GetConditions() []mocap.Condition {
	if len(c.Conditions) == 0 {
		return mocap.Conditions
	}
	conds := make([]mocap.Condition, len(c.Conditions))
	for i, s := range c.Conditions {
		conds[i] = mocap.Condition(s)
	}
	return conds
}

// GetSummaryStat returns the summary statistic or the default (mean).
func (c *PipelineConfig) GetSummaryStat() aggregate.Stat {
	if c.SummaryStat == nil {
		return aggregate.StatMean
	}
	return aggregate.Stat(*c.SummaryStat)
}

// GetSampleRateHz returns the configured sample-rate override, or 0 when the
// rate declared in each trial file should be used.
func (c *PipelineConfig) GetSampleRateHz() float64 {
	if c.SampleRateHz == nil {
		return 0
	}
	return *c.SampleRateHz
}

// GetWritePlots returns the write_plots value or the default.
func (c *PipelineConfig) GetWritePlots() bool {
	if c.WritePlots == nil {
		return true
	}
	return *c.WritePlots
}

// IsExcluded reports whether a subject is on the explicit exclusion list.
func (c *PipelineConfig) IsExcluded(subject string) bool {
	for _, s := range c.ExcludeSubjects {
		if s == subject {
			return true
		}
	}
	return false
}
