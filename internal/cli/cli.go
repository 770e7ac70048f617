// Package cli parses and validates command-line arguments, translating
// them into the run configuration and handling process-level concerns
// like usage text and exit codes for bad invocations.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bibsnet/internal/config"
	"bibsnet/internal/models"
)

// ExitError is a parse or validation failure with a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments into a RunConfig. The boolean
// result is true when the program should exit cleanly (help requested).
// Precedence: built-in defaults, then the optional --config YAML file,
// then explicitly set flags.
func Parse(args []string, output io.Writer) (*config.RunConfig, bool, error) {
	flagSet := flag.NewFlagSet("bibsnet", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
bibsnet - run one nnU-Net_predict segmentation job on an infant brain MRI pair.

Usage:
  bibsnet [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	defaults := config.DefaultRunConfig()

	var (
		inputFlag     string
		outputFlag    string
		engineFlag    string
		manifestFlag  string
		taskFlag      int
		variantFlag   string
		referenceFlag string
		configFlag    string
		logLevelFlag  string
		logFormatFlag string
	)

	// Long and short spellings share one variable; flag.Visit tells us
	// whether either was set explicitly.
	flagSet.StringVar(&inputFlag, "input", "", "Directory with one file per required modality, T1w ending _0000.nii.gz and T2w ending _0001.nii.gz.")
	flagSet.StringVar(&inputFlag, "i", "", "Shorthand for -input.")
	flagSet.StringVar(&outputFlag, "output", "", "Destination directory for the segmentation; created if absent.")
	flagSet.StringVar(&outputFlag, "o", "", "Shorthand for -output.")
	flagSet.StringVar(&engineFlag, "nnUNet", "", "Path to the nnU-Net_predict executable. Defaults to nnUNet_predict next to this binary.")
	flagSet.StringVar(&engineFlag, "n", "", "Shorthand for -nnUNet.")
	flagSet.IntVar(&taskFlag, "task", defaults.Task, "3-digit task ID starting with 5, selecting the trained model.")
	flagSet.IntVar(&taskFlag, "t", defaults.Task, "Shorthand for -task.")
	flagSet.StringVar(&variantFlag, "model", defaults.Variant, "Inference configuration variant to request from the engine.")
	flagSet.StringVar(&variantFlag, "m", defaults.Variant, "Shorthand for -model.")
	flagSet.StringVar(&manifestFlag, "models", "", "Path or URL of the model manifest. Defaults to models.toml next to this binary.")
	flagSet.StringVar(&referenceFlag, "reference", defaults.Reference, "Reference space when both modalities are supplied: 't1' or 't2'.")
	flagSet.StringVar(&configFlag, "config", "", "Optional YAML file with run configuration; flags override it.")
	flagSet.StringVar(&logLevelFlag, "log-level", defaults.LogLevel, "Logging level: 'debug', 'info', 'warn' or 'error'.")
	flagSet.StringVar(&logFormatFlag, "log-format", defaults.LogFormat, "Log output format: 'text' or 'json'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: models.ExitUsage, Message: err.Error()}
	}

	cfg := defaults
	if configFlag != "" {
		loaded, err := config.LoadRunConfig(configFlag, cfg)
		if err != nil {
			return nil, false, &ExitError{Code: models.ExitUsage, Message: err.Error()}
		}
		cfg = loaded
	}

	set := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["input"] || set["i"] {
		cfg.InputDir = inputFlag
	}
	if set["output"] || set["o"] {
		cfg.OutputDir = outputFlag
	}
	if set["nnUNet"] || set["n"] {
		cfg.EnginePath = engineFlag
	}
	if set["task"] || set["t"] {
		cfg.Task = taskFlag
	}
	if set["model"] || set["m"] {
		cfg.Variant = variantFlag
	}
	if set["models"] {
		cfg.ManifestPath = manifestFlag
	}
	if set["reference"] {
		cfg.Reference = referenceFlag
	}
	if set["log-level"] {
		cfg.LogLevel = logLevelFlag
	}
	if set["log-format"] {
		cfg.LogFormat = logFormatFlag
	}

	if cfg.EnginePath == "" {
		cfg.EnginePath = siblingPath("nnUNet_predict")
	}
	if cfg.ManifestPath == "" {
		cfg.ManifestPath = siblingPath("models.toml")
	}

	if err := cfg.Validate(); err != nil {
		return nil, false, &ExitError{Code: models.ExitUsage, Message: err.Error()}
	}

	return &cfg, false, nil
}

// siblingPath resolves a filename next to the running executable,
// falling back to the working directory when the executable path is
// unknown.
func siblingPath(name string) string {
	exe, err := os.Executable()
	if err != nil {
		return name
	}
	return filepath.Join(filepath.Dir(exe), name)
}
