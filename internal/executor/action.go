package executor

import (
	"context"
	"time"

	"github.com/screenops/screenops/internal/device"
	"github.com/screenops/screenops/internal/models"
)

// ExecuteAction performs one action against the device and reports whether
// it succeeded. Failures are logged and normalized to false; they never
// abort the surrounding task.
func ExecuteAction(ctx context.Context, a *models.Action, dev device.Controller, rc *RunContext) bool {
	log := rc.Logger.With("action", a.Name, "action_type", a.Type)

	switch a.Type {
	case models.ActionTap:
		if err := dev.Tap(ctx, a.X, a.Y); err != nil {
			log.Error("tap failed", "kind", models.FailureDevice, "x", a.X, "y", a.Y, "error", err)
			return false
		}
		log.Info("tapped", "x", a.X, "y", a.Y)
		return true

	case models.ActionSwipe:
		if err := dev.Swipe(ctx, a.X1, a.Y1, a.X2, a.Y2, a.DurationMs); err != nil {
			log.Error("swipe failed", "kind", models.FailureDevice, "error", err)
			return false
		}
		log.Info("swiped", "from_x", a.X1, "from_y", a.Y1, "to_x", a.X2, "to_y", a.Y2, "duration_ms", a.DurationMs)
		return true

	case models.ActionKey:
		if err := dev.PressKey(ctx, a.KeyCode); err != nil {
			log.Error("key press failed", "kind", models.FailureDevice, "key_code", a.KeyCode, "error", err)
			return false
		}
		log.Info("pressed key", "key_code", a.KeyCode, "key_name", a.KeyName)
		return true

	case models.ActionInput:
		if err := dev.InputText(ctx, a.Text); err != nil {
			log.Error("text input failed", "kind", models.FailureDevice, "error", err)
			return false
		}
		log.Info("typed text", "text", a.Text)
		return true

	case models.ActionWait, models.ActionSleep:
		log.Info("waiting", "seconds", a.Seconds)
		time.Sleep(time.Duration(a.Seconds * float64(time.Second)))
		return true

	case models.ActionInvokeTask:
		return invokeTask(ctx, a, dev, rc)

	default:
		log.Error("unknown action type", "kind", models.FailureConfig)
		return false
	}
}

// invokeTask resolves another task through the registry handle and
// executes it with a derived context. An empty target, an unresolved id,
// or an id already on the call stack all fail without side effects.
func invokeTask(ctx context.Context, a *models.Action, dev device.Controller, rc *RunContext) bool {
	log := rc.Logger.With("action", a.Name, "target_task_id", a.TaskID)

	if a.TaskID == "" {
		log.Error("invoke target task id is empty", "kind", models.FailureConfig)
		return false
	}
	if rc.onStack(a.TaskID) {
		log.Error("task invocation cycle detected", "kind", models.FailureConfig, "call_stack", rc.CallStack)
		return false
	}
	if rc.Resolver == nil {
		log.Error("no task resolver in run context", "kind", models.FailureConfig)
		return false
	}

	target := rc.Resolver.Find(a.TaskID)
	if target == nil {
		log.Error("invoke target task not found", "kind", models.FailureConfig)
		return false
	}

	log.Info("invoking task", "target_task", target.Name)
	return ExecuteTask(ctx, target, dev, rc.fork(a.TaskID))
}
