package registry

import (
	"fmt"
	"sort"
	"strings"

	"bibsnet/internal/models"
)

// Registry is the read-only mapping from task identifier to model
// metadata. Built once at startup; safe to share across concurrent jobs
// without synchronization.
type Registry struct {
	entries map[int]models.ModelEntry
	tasks   []int // sorted, for stable error listings
}

// New builds a Registry from manifest entries, enforcing the manifest
// invariants: unique task identifiers, a non-empty modality set, and the
// reserved 5xx identifier prefix.
func New(entries []models.ModelEntry) (*Registry, error) {
	r := &Registry{entries: make(map[int]models.ModelEntry, len(entries))}

	for _, e := range entries {
		if e.Task < 500 || e.Task > 599 {
			return nil, models.Errf(models.ErrConfig,
				"task %d: identifier must be a 3-digit number starting with 5", e.Task)
		}
		if !e.T1 && !e.T2 {
			return nil, models.Errf(models.ErrConfig,
				"task %d: at least one of t1/t2 must be set", e.Task)
		}
		if e.Name == "" {
			return nil, models.Errf(models.ErrConfig,
				"task %d: missing model name", e.Task)
		}
		if _, dup := r.entries[e.Task]; dup {
			return nil, models.Errf(models.ErrConfig,
				"task %d: duplicate entry in manifest", e.Task)
		}
		r.entries[e.Task] = e
		r.tasks = append(r.tasks, e.Task)
	}

	if len(r.entries) == 0 {
		return nil, models.Errf(models.ErrConfig, "manifest contains no models")
	}

	sort.Ints(r.tasks)
	return r, nil
}

// Resolve returns the model entry for the task identifier.
func (r *Registry) Resolve(task int) (models.ModelEntry, error) {
	e, ok := r.entries[task]
	if !ok {
		return models.ModelEntry{}, models.Errf(models.ErrUnknownTask,
			"task %d is not registered; known tasks: %s", task, r.taskList())
	}
	return e, nil
}

// ResolveByName returns the entry whose on-disk model name matches.
func (r *Registry) ResolveByName(name string) (models.ModelEntry, error) {
	for _, t := range r.tasks {
		if e := r.entries[t]; e.Name == name {
			return e, nil
		}
	}
	return models.ModelEntry{}, models.Errf(models.ErrUnknownTask,
		"model %q is not registered; known tasks: %s", name, r.taskList())
}

// Tasks returns all registered task identifiers in ascending order.
func (r *Registry) Tasks() []int {
	out := make([]int, len(r.tasks))
	copy(out, r.tasks)
	return out
}

func (r *Registry) taskList() string {
	parts := make([]string, len(r.tasks))
	for i, t := range r.tasks {
		parts[i] = fmt.Sprintf("%d", t)
	}
	return strings.Join(parts, ", ")
}
