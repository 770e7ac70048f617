// Package invoker is the boundary to the external prediction engine. It
// launches the engine as a subordinate process with the argument set it
// expects, captures its streams, blocks until it terminates, and
// classifies the outcome. One invocation per job, no retries: the
// engine's resumability is unspecified, so re-running over a partially
// written output directory is unsafe.
package invoker

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"bibsnet/internal/models"
	"bibsnet/internal/util"
)

// Invoker runs the prediction engine for one job.
type Invoker interface {
	Run(ctx context.Context, spec models.JobSpec) (models.InvocationResult, error)
}

// Engine shells out to an nnU-Net_predict executable.
type Engine struct {
	// Env is appended to the subprocess environment, carrying the
	// engine's folder-layout variables.
	Env []string
}

// New creates an Engine invoker with the given extra environment.
func New(env []string) *Engine {
	return &Engine{Env: env}
}

// Run launches the engine and blocks until it terminates. On failure the
// returned error is a JobError carrying the engine's stderr verbatim.
func (e *Engine) Run(ctx context.Context, spec models.JobSpec) (models.InvocationResult, error) {
	if !util.IsExecutableFile(spec.EnginePath) {
		return models.InvocationResult{}, models.Errf(models.ErrPredictionEngine,
			"prediction engine not found or not executable at %s", spec.EnginePath)
	}

	cmd := exec.CommandContext(ctx, spec.EnginePath,
		"-i", spec.Input.Dir,
		"-o", spec.OutputDir,
		"-t", strconv.Itoa(spec.Model.Task),
		"-m", spec.Variant,
	)
	cmd.Env = append(os.Environ(), e.Env...)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return models.InvocationResult{}, models.Wrapf(models.ErrPredictionEngine, err, "opening stdout pipe")
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return models.InvocationResult{}, models.Wrapf(models.ErrPredictionEngine, err, "opening stderr pipe")
	}

	slog.Info("invoking prediction engine",
		"engine", spec.EnginePath,
		"task", spec.Model.Task,
		"model", spec.Model.Name,
		"variant", spec.Variant)
	started := time.Now()

	if err := cmd.Start(); err != nil {
		return models.InvocationResult{}, models.Wrapf(models.ErrPredictionEngine, err,
			"starting prediction engine %s", spec.EnginePath)
	}

	// Drain both streams while the engine runs; inference can emit a lot
	// of progress output and must not block on a full pipe.
	var stdout, stderr bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(&stdout, stdoutPipe)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&stderr, stderrPipe)
		return err
	})

	copyErr := g.Wait()
	waitErr := cmd.Wait()
	elapsed := time.Since(started)

	if waitErr != nil {
		slog.Error("prediction engine failed",
			"engine", spec.EnginePath, "elapsed", elapsed, "error", waitErr)
		jerr := models.Wrapf(models.ErrPredictionEngine, waitErr,
			"prediction engine exited abnormally")
		jerr.Diagnostics = stderr.String()
		return models.InvocationResult{Diagnostics: stderr.String()}, jerr
	}
	if copyErr != nil {
		return models.InvocationResult{Diagnostics: stderr.String()},
			models.Wrapf(models.ErrPredictionEngine, copyErr, "capturing engine output")
	}

	artifact, err := findArtifact(spec)
	if err != nil {
		return models.InvocationResult{Diagnostics: stderr.String()}, err
	}

	slog.Info("prediction engine finished", "elapsed", elapsed, "artifact", artifact)
	return models.InvocationResult{
		Success:      true,
		ArtifactPath: artifact,
		Diagnostics:  stderr.String(),
	}, nil
}

// findArtifact locates the produced segmentation volume. The canonical
// name is <subject>_seg.nii.gz; the engine's own naming is authoritative
// though, so any lone .nii.gz in the output directory is accepted. A
// zero exit with no volume means an engine/environment mismatch, kept
// distinct from an ordinary engine failure.
func findArtifact(spec models.JobSpec) (string, error) {
	canonical := filepath.Join(spec.OutputDir, spec.Input.SubjectID+models.SegSuffix)
	if info, err := os.Stat(canonical); err == nil && info.Mode().IsRegular() {
		return canonical, nil
	}

	matches, err := filepath.Glob(filepath.Join(spec.OutputDir, "*.nii.gz"))
	if err != nil {
		return "", models.Wrapf(models.ErrIncompleteOutput, err, "scanning output directory")
	}
	if len(matches) == 0 {
		return "", models.Errf(models.ErrIncompleteOutput,
			"no segmentation file created in %s during the engine run; check the input filenames in %s and inspect the volumes if needed",
			spec.OutputDir, spec.Input.Dir)
	}

	sort.Strings(matches)
	return matches[0], nil
}
