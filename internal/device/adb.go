package device

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ADB drives an Android device through the adb command line tool.
type ADB struct {
	path    string // adb binary, defaults to "adb" on PATH
	serial  string // target device serial, empty = default device
	timeout time.Duration
}

// NewADB creates an adb-backed controller. An empty path means "adb" on
// PATH; a zero timeout means 30 seconds per command.
func NewADB(path, serial string, timeout time.Duration) *ADB {
	if path == "" {
		path = "adb"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ADB{path: path, serial: serial, timeout: timeout}
}

func (a *ADB) run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if a.serial != "" {
		args = append([]string{"-s", a.serial}, args...)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("adb %s: %s", args[0], msg)
	}
	return stdout.Bytes(), nil
}

// Connected reports whether the target device is attached and authorized.
func (a *ADB) Connected() bool {
	out, err := a.run(context.Background(), "get-state")
	return err == nil && strings.TrimSpace(string(out)) == "device"
}

// CaptureScreen grabs a PNG screenshot via exec-out, avoiding the
// pull-from-sdcard round trip.
func (a *ADB) CaptureScreen(ctx context.Context) ([]byte, error) {
	out, err := a.run(ctx, "exec-out", "screencap", "-p")
	if err != nil {
		return nil, fmt.Errorf("capturing screen: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("capturing screen: empty capture")
	}
	return out, nil
}

func (a *ADB) Tap(ctx context.Context, x, y int) error {
	_, err := a.run(ctx, "shell", "input", "tap", strconv.Itoa(x), strconv.Itoa(y))
	return err
}

func (a *ADB) Swipe(ctx context.Context, x1, y1, x2, y2, durationMs int) error {
	_, err := a.run(ctx, "shell", "input", "swipe",
		strconv.Itoa(x1), strconv.Itoa(y1),
		strconv.Itoa(x2), strconv.Itoa(y2),
		strconv.Itoa(durationMs))
	return err
}

func (a *ADB) PressKey(ctx context.Context, code int) error {
	_, err := a.run(ctx, "shell", "input", "keyevent", strconv.Itoa(code))
	return err
}

// InputText types text on the device. adb's input tool treats spaces as
// argument separators and chokes on quotes, so escape them first.
func (a *ADB) InputText(ctx context.Context, text string) error {
	safe := strings.NewReplacer(" ", "%s", "'", `\'`, `"`, `\"`).Replace(text)
	_, err := a.run(ctx, "shell", "input", "text", safe)
	return err
}
