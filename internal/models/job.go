package models

import "time"

// JobSpec describes one resolved, validated unit of work. Constructed
// exactly once by the orchestrator after validation succeeds; never
// mutated afterwards.
type JobSpec struct {
	Input      InputSet
	OutputDir  string
	Model      ModelEntry
	EnginePath string

	// Variant is the inference configuration the engine is asked for,
	// e.g. "3d_fullres".
	Variant string

	// Reference is the modality the upstream alignment step used as the
	// fixed frame. Only meaningful when both modalities are supplied; a
	// caller-asserted precondition, not verified here.
	Reference Modality
}

// NewJobSpec builds a JobSpec, enforcing that the validated input covers
// every modality the model requires. The validator makes a violation
// unreachable in practice, so one here is an orchestrator defect.
func NewJobSpec(in InputSet, outputDir string, model ModelEntry, enginePath, variant string, reference Modality) (JobSpec, error) {
	for _, m := range model.Required() {
		if !in.Has(m) {
			return JobSpec{}, Errf(ErrInconsistentState,
				"input set is missing %s required by task %d", m, model.Task)
		}
	}
	return JobSpec{
		Input:      in,
		OutputDir:  outputDir,
		Model:      model,
		EnginePath: enginePath,
		Variant:    variant,
		Reference:  reference,
	}, nil
}

// InvocationResult is the classified outcome of one prediction-engine
// run. Produced by the invoker, consumed once by the output resolver.
type InvocationResult struct {
	Success bool

	// ArtifactPath is the produced segmentation volume. Set only on
	// success.
	ArtifactPath string

	// Diagnostics is the engine's captured standard error, verbatim.
	Diagnostics string
}

// OutputRecord is the terminal artifact of a job, written once into the
// output directory and read by downstream post-processing stages.
type OutputRecord struct {
	JobID            string     `json:"job_id"`
	Task             int        `json:"task"`
	ModelName        string     `json:"model_name"`
	Variant          string     `json:"variant"`
	SegmentationPath string     `json:"segmentation_path"`
	Space            Space      `json:"space"`
	Modalities       []Modality `json:"modalities"`
	StartedAt        time.Time  `json:"started_at"`
	EndedAt          time.Time  `json:"ended_at"`
	DurationSec      float64    `json:"duration_sec"`
}
