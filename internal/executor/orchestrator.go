package executor

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"bibsnet/internal/config"
	"bibsnet/internal/input"
	"bibsnet/internal/invoker"
	"bibsnet/internal/models"
	"bibsnet/internal/registry"
	"bibsnet/internal/util"
)

// recordFile is written into the output directory for downstream
// post-processing stages.
const recordFile = "record.json"

// Orchestrator drives one segmentation job from task resolution to the
// final output record. A straight-line pipeline: each stage either
// passes its result forward or terminates the job. No stage is retried;
// re-invoking the engine over a half-written output directory is unsafe.
type Orchestrator struct {
	registry *registry.Registry
	invoker  invoker.Invoker
}

// New creates an orchestrator over the given registry and invoker.
func New(reg *registry.Registry, inv invoker.Invoker) *Orchestrator {
	return &Orchestrator{registry: reg, invoker: inv}
}

// Run executes one job. The returned error, if any, is a JobError whose
// kind maps to a stable process exit status.
func (o *Orchestrator) Run(ctx context.Context, cfg config.RunConfig) (*models.OutputRecord, error) {
	started := time.Now()
	jobID := uuid.NewString()
	log := slog.With("job_id", jobID, "task", cfg.Task)

	// Resolve the task before touching the input directory, so an
	// unknown identifier fails without any filesystem scan.
	entry, err := o.registry.Resolve(cfg.Task)
	if err != nil {
		return nil, err
	}
	log.Info("resolved model", "model", entry.Name, "modalities", entry.Required())

	in, err := input.Validate(cfg.InputDir, entry)
	if err != nil {
		return nil, err
	}

	reference, err := cfg.ReferenceModality()
	if err != nil {
		return nil, err
	}

	spec, err := models.NewJobSpec(in, cfg.OutputDir, entry, cfg.EnginePath, cfg.Variant, reference)
	if err != nil {
		return nil, err
	}

	if err := util.EnsureWritableDir(cfg.OutputDir); err != nil {
		return nil, models.Wrapf(models.ErrConfig, err, "preparing output directory")
	}

	result, err := o.invoker.Run(ctx, spec)
	if err != nil {
		return nil, err
	}

	record, err := Finalize(spec, result)
	if err != nil {
		return nil, err
	}
	record.JobID = jobID
	record.StartedAt = started
	record.EndedAt = time.Now()
	record.DurationSec = record.EndedAt.Sub(started).Seconds()

	if err := writeRecord(cfg.OutputDir, record); err != nil {
		return nil, err
	}

	log.Info("job complete",
		"segmentation", record.SegmentationPath,
		"space", record.Space,
		"duration_sec", record.DurationSec)
	return record, nil
}

func writeRecord(outputDir string, record *models.OutputRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return models.Wrapf(models.ErrInconsistentState, err, "encoding output record")
	}

	path := filepath.Join(outputDir, recordFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return models.Wrapf(models.ErrConfig, err, "writing %s", path)
	}
	return nil
}
