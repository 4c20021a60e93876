// Package device defines the controller capability the execution engine
// drives, plus an adb-backed implementation for Android targets.
package device

import "context"

// Controller issues commands to a remote device. Implementations perform
// exactly one device command per call and report failures as errors. The
// engine calls a controller from a single goroutine; implementations do
// not need to be safe for concurrent use.
type Controller interface {
	// Connected reports whether a device is attached and usable. The
	// registry consults it before any run starts.
	Connected() bool

	// CaptureScreen grabs a full-screen capture as encoded image bytes.
	CaptureScreen(ctx context.Context) ([]byte, error)

	Tap(ctx context.Context, x, y int) error
	Swipe(ctx context.Context, x1, y1, x2, y2, durationMs int) error
	PressKey(ctx context.Context, code int) error
	InputText(ctx context.Context, text string) error
}
