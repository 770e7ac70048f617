package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// EngineEnv is the environment forwarded to the prediction process. The
// engine locates trained models and its working folders through these
// variables; they are read from the wrapper's own environment so a
// containerized install can pin them once.
type EngineEnv struct {
	ResultsFolder string
	RawDataBase   string
	Preprocessed  string
	NumThreads    int
}

// LoadEngineEnv resolves the engine environment from process env vars
// with defaults matching a standard container layout.
func LoadEngineEnv() EngineEnv {
	v := viper.New()

	v.SetDefault("results_folder", "/opt/nnUNet/nnUNet_raw_data_base/nnUNet_trained_models")
	v.SetDefault("raw_data_base", "")
	v.SetDefault("preprocessed", "")
	v.SetDefault("num_threads", 1)

	// The engine's variable names are fixed, mixed case included.
	v.BindEnv("results_folder", "RESULTS_FOLDER")
	v.BindEnv("raw_data_base", "nnUNet_raw_data_base")
	v.BindEnv("preprocessed", "nnUNet_preprocessed")
	v.BindEnv("num_threads", "nnUNet_def_n_proc")

	return EngineEnv{
		ResultsFolder: v.GetString("results_folder"),
		RawDataBase:   v.GetString("raw_data_base"),
		Preprocessed:  v.GetString("preprocessed"),
		NumThreads:    v.GetInt("num_threads"),
	}
}

// Environ renders the variables in the engine's expected names, skipping
// unset ones. Appended to the subprocess environment.
func (e EngineEnv) Environ() []string {
	var env []string
	if e.ResultsFolder != "" {
		env = append(env, "RESULTS_FOLDER="+e.ResultsFolder)
	}
	if e.RawDataBase != "" {
		env = append(env, "nnUNet_raw_data_base="+e.RawDataBase)
	}
	if e.Preprocessed != "" {
		env = append(env, "nnUNet_preprocessed="+e.Preprocessed)
	}
	if e.NumThreads > 0 {
		env = append(env, fmt.Sprintf("nnUNet_def_n_proc=%d", e.NumThreads))
	}
	return env
}
