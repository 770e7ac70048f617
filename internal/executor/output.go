package executor

import "bibsnet/internal/models"

// Finalize determines which anatomical space the produced segmentation
// is expressed in. Pure bookkeeping, no recomputation: with both
// modalities supplied the space follows the reference modality the
// upstream alignment step fixed; with a single modality it is that
// modality's native space.
func Finalize(spec models.JobSpec, result models.InvocationResult) (*models.OutputRecord, error) {
	if !result.Success {
		// Callers must never hand a failed invocation here; this is a
		// defect in the orchestrator, not a user-facing condition.
		return nil, models.Errf(models.ErrInconsistentState,
			"finalize called with a failed invocation result")
	}

	used := spec.Input.Modalities()
	if len(used) == 0 {
		return nil, models.Errf(models.ErrInconsistentState,
			"finalize called with an empty input set")
	}

	var space models.Space
	if len(used) == 2 {
		space = spec.Reference.NativeSpace()
	} else {
		space = used[0].NativeSpace()
	}

	return &models.OutputRecord{
		Task:             spec.Model.Task,
		ModelName:        spec.Model.Name,
		Variant:          spec.Variant,
		SegmentationPath: result.ArtifactPath,
		Space:            space,
		Modalities:       used,
	}, nil
}
