package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"bibsnet/internal/models"
)

// RunConfig holds everything needed to assemble one segmentation job.
// Precedence: defaults, then an optional YAML config file, then explicit
// command-line flags.
type RunConfig struct {
	InputDir     string `yaml:"input"`
	OutputDir    string `yaml:"output"`
	EnginePath   string `yaml:"nnunet"`
	ManifestPath string `yaml:"models"`
	Task         int    `yaml:"task"`
	Variant      string `yaml:"model"`
	Reference    string `yaml:"reference"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
}

// DefaultRunConfig returns a RunConfig with default values. EnginePath
// and ManifestPath default to siblings of the executable; that is
// resolved by the CLI layer, which knows the executable's location.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Task:      512,
		Variant:   "3d_fullres",
		Reference: "t1",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// LoadRunConfig overlays a YAML config file onto the given config.
func LoadRunConfig(path string, cfg RunConfig) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, models.Wrapf(models.ErrConfig, err, "reading run config")
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, models.Wrapf(models.ErrConfig, err, "parsing run config %s", path)
	}

	return cfg, nil
}

// Validate checks the merged configuration.
func (c RunConfig) Validate() error {
	if c.InputDir == "" {
		return models.Errf(models.ErrConfig, "input directory is required")
	}
	if c.OutputDir == "" {
		return models.Errf(models.ErrConfig, "output directory is required")
	}
	if c.Task <= 0 {
		return models.Errf(models.ErrConfig, "task must be a positive integer, got %d", c.Task)
	}
	if c.Variant == "" {
		return models.Errf(models.ErrConfig, "model variant must not be empty")
	}
	if _, err := c.ReferenceModality(); err != nil {
		return err
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return models.Errf(models.ErrConfig, "invalid log_level %q: must be debug, info, warn or error", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return models.Errf(models.ErrConfig, "invalid log_format %q: must be text or json", c.LogFormat)
	}
	return nil
}

// ReferenceModality maps the configured reference space to a modality.
func (c RunConfig) ReferenceModality() (models.Modality, error) {
	switch c.Reference {
	case "t1", "T1", "T1w":
		return models.ModalityT1, nil
	case "t2", "T2", "T2w":
		return models.ModalityT2, nil
	}
	return "", models.Errf(models.ErrConfig, "invalid reference %q: must be t1 or t2", c.Reference)
}
