package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPlaybookAppliesDefaults(t *testing.T) {
	path := writeFile(t, "playbook.yaml", `
forests:
  - forest.json
runs:
  - task-1
`)

	pb, err := LoadPlaybook(path)
	if err != nil {
		t.Fatalf("loading playbook: %v", err)
	}
	if pb.LogLevel != "info" {
		t.Errorf("log level = %q, want default info", pb.LogLevel)
	}
	if pb.Device.ADBPath != "adb" {
		t.Errorf("adb path = %q, want default adb", pb.Device.ADBPath)
	}
	if pb.Device.CommandTimeoutSec != 30.0 {
		t.Errorf("command timeout = %v, want default 30", pb.Device.CommandTimeoutSec)
	}
	if pb.Perception.Describer.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("api key env = %q, want default", pb.Perception.Describer.APIKeyEnv)
	}
}

func TestLoadPlaybookOverrides(t *testing.T) {
	path := writeFile(t, "playbook.yaml", `
name: nightly
forests: [a.json, b.json]
runs: [t1, t2]
log_level: debug
device:
  serial: emulator-5554
  command_timeout_sec: 5
perception:
  ocr_url: http://localhost:8089/ocr
`)

	pb, err := LoadPlaybook(path)
	if err != nil {
		t.Fatalf("loading playbook: %v", err)
	}
	if pb.Name == nil || *pb.Name != "nightly" {
		t.Error("name not parsed")
	}
	if len(pb.Forests) != 2 || len(pb.Runs) != 2 {
		t.Errorf("forests/runs = %v/%v", pb.Forests, pb.Runs)
	}
	if pb.LogLevel != "debug" || pb.Device.Serial != "emulator-5554" {
		t.Error("overrides not applied")
	}
	if pb.Device.CommandTimeoutSec != 5 {
		t.Errorf("command timeout = %v, want 5", pb.Device.CommandTimeoutSec)
	}
	if pb.Perception.OCRURL != "http://localhost:8089/ocr" {
		t.Errorf("ocr url = %q", pb.Perception.OCRURL)
	}
}

func TestLoadPlaybookValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"no forests", "runs: [t1]", "at least one forest"},
		{"no runs", "forests: [f.json]", "at least one task"},
		{"empty run id", "forests: [f.json]\nruns: ['']", "task id is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "playbook.yaml", tt.content)
			_, err := LoadPlaybook(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDeviceProfileMissingFileIsNotAnError(t *testing.T) {
	profile, err := LoadDeviceProfile(filepath.Join(t.TempDir(), "device.toml"))
	if err != nil {
		t.Fatalf("missing profile must not error, got: %v", err)
	}
	if profile != nil {
		t.Error("missing profile must be nil")
	}
}

func TestDeviceProfileApplyOverlaysNonZeroValues(t *testing.T) {
	path := writeFile(t, "device.toml", `
[device]
serial = "tablet-01"
command_timeout_sec = 10.0

[perception]
ocr_url = "http://ocr.lan/extract"
`)

	profile, err := LoadDeviceProfile(path)
	if err != nil {
		t.Fatalf("loading profile: %v", err)
	}
	if profile == nil {
		t.Fatal("profile is nil")
	}

	pb := DefaultPlaybook()
	profile.Apply(&pb)

	if pb.Device.Serial != "tablet-01" {
		t.Errorf("serial = %q", pb.Device.Serial)
	}
	if pb.Device.CommandTimeoutSec != 10.0 {
		t.Errorf("timeout = %v", pb.Device.CommandTimeoutSec)
	}
	if pb.Perception.OCRURL != "http://ocr.lan/extract" {
		t.Errorf("ocr url = %q", pb.Perception.OCRURL)
	}
	// Untouched values keep their playbook defaults.
	if pb.Device.ADBPath != "adb" {
		t.Errorf("adb path overwritten to %q", pb.Device.ADBPath)
	}
	if pb.Perception.Describer.Model != "gpt-4o-mini" {
		t.Errorf("describer model overwritten to %q", pb.Perception.Describer.Model)
	}
}
