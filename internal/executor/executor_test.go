package executor_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bibsnet/internal/config"
	"bibsnet/internal/executor"
	"bibsnet/internal/invoker"
	"bibsnet/internal/models"
	"bibsnet/internal/registry"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New([]models.ModelEntry{
		{Task: 512, T1: true, T2: true, Name: "Task512_Combined"},
		{Task: 514, T1: true, Name: "Task514_T1Only"},
		{Task: 551, T1: true, T2: true, Name: "Task551_Extended"},
	})
	require.NoError(t, err)
	return reg
}

func writeEngine(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub engine scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "nnUNet_predict")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func writeVolume(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("volume"), 0644))
}

func runConfig(inputDir, outputDir, enginePath string, task int) config.RunConfig {
	cfg := config.DefaultRunConfig()
	cfg.InputDir = inputDir
	cfg.OutputDir = outputDir
	cfg.EnginePath = enginePath
	cfg.Task = task
	return cfg
}

func TestRun_CombinedPair(t *testing.T) {
	inDir := t.TempDir()
	writeVolume(t, inDir, "sub-01_T1w_0000.nii.gz")
	writeVolume(t, inDir, "sub-01_T2w_0001.nii.gz")

	engine := writeEngine(t, `touch "$4/sub-01_seg.nii.gz"`)
	outDir := filepath.Join(t.TempDir(), "out")

	orch := executor.New(testRegistry(t), invoker.New(nil))
	record, err := orch.Run(context.Background(), runConfig(inDir, outDir, engine, 551))
	require.NoError(t, err)

	assert.Equal(t, models.SpaceT1, record.Space)
	assert.Equal(t, []models.Modality{models.ModalityT1, models.ModalityT2}, record.Modalities)
	assert.Equal(t, filepath.Join(outDir, "sub-01_seg.nii.gz"), record.SegmentationPath)
	assert.Equal(t, 551, record.Task)
	assert.NotEmpty(t, record.JobID)
}

func TestRun_T2Reference(t *testing.T) {
	inDir := t.TempDir()
	writeVolume(t, inDir, "sub-01_T1w_0000.nii.gz")
	writeVolume(t, inDir, "sub-01_T2w_0001.nii.gz")

	engine := writeEngine(t, `touch "$4/sub-01_seg.nii.gz"`)
	cfg := runConfig(inDir, filepath.Join(t.TempDir(), "out"), engine, 512)
	cfg.Reference = "t2"

	orch := executor.New(testRegistry(t), invoker.New(nil))
	record, err := orch.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, models.SpaceT2, record.Space)
}

func TestRun_T1Only(t *testing.T) {
	inDir := t.TempDir()
	writeVolume(t, inDir, "sub-02_T1w_0000.nii.gz")

	engine := writeEngine(t, `touch "$4/sub-02_T1w_seg.nii.gz"`)
	outDir := filepath.Join(t.TempDir(), "out")

	orch := executor.New(testRegistry(t), invoker.New(nil))
	record, err := orch.Run(context.Background(), runConfig(inDir, outDir, engine, 514))
	require.NoError(t, err)

	assert.Equal(t, models.SpaceT1, record.Space)
	assert.Equal(t, []models.Modality{models.ModalityT1}, record.Modalities)
}

func TestRun_UnknownTaskFailsBeforeInputScan(t *testing.T) {
	// The input directory deliberately does not exist: an unknown task
	// must fail before any filesystem scan would notice.
	missingDir := filepath.Join(t.TempDir(), "never-created")

	orch := executor.New(testRegistry(t), invoker.New(nil))
	_, err := orch.Run(context.Background(), runConfig(missingDir, t.TempDir(), "/no/engine", 999))
	require.Error(t, err)
	assert.Equal(t, models.ErrUnknownTask, models.KindOf(err))
}

func TestRun_EngineFailureSurfacesDiagnostics(t *testing.T) {
	inDir := t.TempDir()
	writeVolume(t, inDir, "sub-02_T1w_0000.nii.gz")

	engine := writeEngine(t, `echo "model weights not found" >&2; exit 1`)

	orch := executor.New(testRegistry(t), invoker.New(nil))
	_, err := orch.Run(context.Background(), runConfig(inDir, filepath.Join(t.TempDir(), "out"), engine, 514))
	require.Error(t, err)

	assert.Equal(t, models.ErrPredictionEngine, models.KindOf(err))

	var jobErr *models.JobError
	require.True(t, errors.As(err, &jobErr))
	assert.Equal(t, "model weights not found\n", jobErr.Diagnostics)
}

func TestRun_SilentEngineIsIncompleteOutput(t *testing.T) {
	inDir := t.TempDir()
	writeVolume(t, inDir, "sub-02_T1w_0000.nii.gz")

	engine := writeEngine(t, `exit 0`)

	orch := executor.New(testRegistry(t), invoker.New(nil))
	_, err := orch.Run(context.Background(), runConfig(inDir, filepath.Join(t.TempDir(), "out"), engine, 514))
	require.Error(t, err)
	assert.Equal(t, models.ErrIncompleteOutput, models.KindOf(err))
}

func TestRun_WritesRecord(t *testing.T) {
	inDir := t.TempDir()
	writeVolume(t, inDir, "sub-02_T1w_0000.nii.gz")

	engine := writeEngine(t, `touch "$4/sub-02_T1w_seg.nii.gz"`)
	outDir := filepath.Join(t.TempDir(), "out")

	orch := executor.New(testRegistry(t), invoker.New(nil))
	record, err := orch.Run(context.Background(), runConfig(inDir, outDir, engine, 514))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "record.json"))
	require.NoError(t, err)

	var persisted models.OutputRecord
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, record.JobID, persisted.JobID)
	assert.Equal(t, record.SegmentationPath, persisted.SegmentationPath)
	assert.Equal(t, record.Space, persisted.Space)
}

func TestRun_CreatesOutputDir(t *testing.T) {
	inDir := t.TempDir()
	writeVolume(t, inDir, "sub-02_T1w_0000.nii.gz")

	engine := writeEngine(t, `touch "$4/sub-02_T1w_seg.nii.gz"`)
	outDir := filepath.Join(t.TempDir(), "nested", "out")

	orch := executor.New(testRegistry(t), invoker.New(nil))
	_, err := orch.Run(context.Background(), runConfig(inDir, outDir, engine, 514))
	require.NoError(t, err)

	info, err := os.Stat(outDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
