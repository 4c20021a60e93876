package executor

import (
	"context"

	"github.com/screenops/screenops/internal/device"
	"github.com/screenops/screenops/internal/models"
)

// ExecuteTask runs one task subtree to completion, blocking the caller,
// and reports whether every condition, action, and child it attempted
// succeeded. A single failure degrades the result but does not stop
// remaining actions or sibling subtrees; only condition failures
// short-circuit.
func ExecuteTask(ctx context.Context, t *models.Task, dev device.Controller, rc *RunContext) bool {
	log := rc.Logger.With("task", t.Name, "task_id", t.ID)

	if !t.Enabled {
		log.Info("task disabled, skipping")
		return false
	}

	log.Info("executing task", "task_type", t.Type)

	switch t.Type {
	case models.TaskSimple:
		return runActions(ctx, t, dev, rc)

	case models.TaskConditional:
		shot, err := dev.CaptureScreen(ctx)
		if err != nil || len(shot) == 0 {
			log.Error("screen capture failed", "kind", models.FailureDevice, "error", err)
			return false
		}
		rc.Screenshot = shot

		for _, cond := range t.Conditions {
			if !EvaluateCondition(ctx, cond, shot, rc) {
				log.Info("condition not met, skipping task")
				return false
			}
		}

		ok := runActions(ctx, t, dev, rc)
		if !runChildren(ctx, t, dev, rc) {
			ok = false
		}
		return ok

	case models.TaskLoop:
		iterations := t.Iterations()
		log.Info("loop task starting", "iterations", iterations)

		ok := true
		for i := range iterations {
			log.Info("loop iteration", "iteration", i+1, "of", iterations)
			if !runActions(ctx, t, dev, rc) {
				ok = false
			}
			if !runChildren(ctx, t, dev, rc) {
				ok = false
			}
		}
		return ok

	default:
		log.Error("unknown task type", "kind", models.FailureConfig, "task_type", t.Type)
		return false
	}
}

// runActions executes every action in order. Individual failures are
// logged and degrade the result, but never stop the remaining actions.
func runActions(ctx context.Context, t *models.Task, dev device.Controller, rc *RunContext) bool {
	ok := true
	for _, a := range t.Actions {
		if !ExecuteAction(ctx, a, dev, rc) {
			rc.Logger.Warn("action failed", "task", t.Name, "action", a.Name)
			ok = false
		}
	}
	return ok
}

// runChildren executes every child subtree in document order. A child's
// failure does not stop subsequent siblings.
func runChildren(ctx context.Context, t *models.Task, dev device.Controller, rc *RunContext) bool {
	ok := true
	for _, child := range t.Children {
		if !ExecuteTask(ctx, child, dev, rc) {
			rc.Logger.Warn("child task failed", "task", t.Name, "child", child.Name)
			ok = false
		}
	}
	return ok
}
