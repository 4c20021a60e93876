// Package executor walks a task tree against a device and its perception
// backends. Every entry point returns a plain success boolean: internal
// failures are logged and normalized at the lowest layer, never propagated.
package executor

import (
	"log/slog"
	"slices"
	"time"

	"github.com/screenops/screenops/internal/models"
	"github.com/screenops/screenops/internal/perception"
)

// TaskResolver resolves tasks by id so execute_task actions can reach
// tasks anywhere in the forest. Implemented by the registry.
type TaskResolver interface {
	Find(id string) *models.Task
}

// RunContext carries per-run state down the recursion. The registry
// creates one per top-level run and discards it at run end; it is never
// persisted. When an execute_task action descends into another task the
// context is copied, not mutated, so sibling branches never observe each
// other's call stack growth.
type RunContext struct {
	StartedAt time.Time
	Resolver  TaskResolver
	Extractor perception.TextExtractor
	Describer perception.SemanticDescriber
	Logger    *slog.Logger

	// CallStack holds the ids of tasks currently being invoked within
	// this run, used solely to detect and reject recursive invocation.
	// A top-level run starts with an empty stack.
	CallStack []string

	// Screenshot caches the most recent capture taken during this run.
	Screenshot []byte
}

// NewRunContext builds a fresh context for one top-level run.
func NewRunContext(resolver TaskResolver, extractor perception.TextExtractor, describer perception.SemanticDescriber, logger *slog.Logger) *RunContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunContext{
		StartedAt: time.Now(),
		Resolver:  resolver,
		Extractor: extractor,
		Describer: describer,
		Logger:    logger,
	}
}

// onStack reports whether the task id is already being invoked.
func (rc *RunContext) onStack(id string) bool {
	return slices.Contains(rc.CallStack, id)
}

// fork copies the context with the call stack extended by id. The
// receiver is left untouched.
func (rc *RunContext) fork(id string) *RunContext {
	child := *rc
	child.CallStack = append(slices.Clone(rc.CallStack), id)
	return &child
}
