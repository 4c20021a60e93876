// Package registry owns the task forest: lookup, insertion, recursive
// removal, persistence, and the top-level run entry point.
package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/screenops/screenops/internal/device"
	"github.com/screenops/screenops/internal/executor"
	"github.com/screenops/screenops/internal/models"
	"github.com/screenops/screenops/internal/perception"
)

// Registry holds the forest of top-level tasks and coordinates runs. It is
// not safe for concurrent use: a registry executes at most one run at a
// time, and callers wanting parallelism must serialize per device.
type Registry struct {
	tasks     []*models.Task
	path      string // last save/load path
	dev       device.Controller
	extractor perception.TextExtractor
	describer perception.SemanticDescriber
	logger    *slog.Logger
}

// New creates an empty registry. A nil logger falls back to slog.Default.
func New(dev device.Controller, extractor perception.TextExtractor, describer perception.SemanticDescriber, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		dev:       dev,
		extractor: extractor,
		describer: describer,
		logger:    logger,
	}
}

// Add inserts a top-level task. It fails when any id in the new subtree is
// already present in the forest: ids are globally unique because they are
// the join key for invoke-by-id, lookup, and removal.
func (r *Registry) Add(t *models.Task) error {
	if t == nil {
		return fmt.Errorf("adding task: task is nil")
	}

	seen := make(map[string]struct{})
	for _, existing := range r.tasks {
		walk(existing, func(n *models.Task) {
			seen[n.ID] = struct{}{}
		})
	}

	var dup string
	walk(t, func(n *models.Task) {
		if _, exists := seen[n.ID]; exists && dup == "" {
			dup = n.ID
		}
		seen[n.ID] = struct{}{}
	})
	if dup != "" {
		return fmt.Errorf("adding task %q: duplicate task id %s in forest", t.Name, dup)
	}

	r.tasks = append(r.tasks, t)
	return nil
}

// Remove deletes the task with the given id from the top level and purges
// it from every child list anywhere in the forest. It reports whether
// anything was removed.
func (r *Registry) Remove(id string) bool {
	removed := false

	kept := r.tasks[:0]
	for _, t := range r.tasks {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	r.tasks = kept

	var purge func(t *models.Task)
	purge = func(t *models.Task) {
		children := t.Children[:0]
		for _, child := range t.Children {
			if child.ID == id {
				removed = true
				continue
			}
			children = append(children, child)
			purge(child)
		}
		t.Children = children
	}
	for _, t := range r.tasks {
		purge(t)
	}

	return removed
}

// Find returns the task with the given id, searching the top level first
// and then depth-first through children. It returns nil when absent.
func (r *Registry) Find(id string) *models.Task {
	for _, t := range r.tasks {
		if t.ID == id {
			return t
		}
	}
	for _, t := range r.tasks {
		if found := findIn(t.Children, id); found != nil {
			return found
		}
	}
	return nil
}

func findIn(tasks []*models.Task, id string) *models.Task {
	for _, t := range tasks {
		if t.ID == id {
			return t
		}
		if found := findIn(t.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// Tasks returns the top-level tasks.
func (r *Registry) Tasks() []*models.Task {
	return r.tasks
}

// Clear drops the whole forest.
func (r *Registry) Clear() {
	r.tasks = nil
}

// Path returns the last save/load path, empty if the forest was never
// persisted.
func (r *Registry) Path() string {
	return r.path
}

// Run executes the task with the given id synchronously and reports
// overall success. It requires a connected device and builds a fresh run
// context with an empty call stack, so cycle protection in concurrent
// registries never interferes across runs. Run never mutates the forest.
func (r *Registry) Run(ctx context.Context, id string) bool {
	t := r.Find(id)
	if t == nil {
		r.logger.Error("task not found", "kind", models.FailureConfig, "task_id", id)
		return false
	}

	if r.dev == nil || !r.dev.Connected() {
		r.logger.Error("no connected device, refusing to run", "kind", models.FailureDevice, "task", t.Name)
		return false
	}

	rc := executor.NewRunContext(r, r.extractor, r.describer, r.logger)
	ok := executor.ExecuteTask(ctx, t, r.dev, rc)
	r.logger.Info("run finished", "task", t.Name, "success", ok)
	return ok
}

func walk(t *models.Task, fn func(*models.Task)) {
	fn(t)
	for _, child := range t.Children {
		walk(child, fn)
	}
}
