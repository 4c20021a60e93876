// Package config loads the playbook and device profile files that drive a
// screenops invocation.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DeviceConfig selects and tunes the device transport.
type DeviceConfig struct {
	ADBPath           string  `yaml:"adb_path,omitempty" toml:"adb_path"`
	Serial            string  `yaml:"serial,omitempty" toml:"serial"`
	CommandTimeoutSec float64 `yaml:"command_timeout_sec,omitempty" toml:"command_timeout_sec"`
}

// DescriberConfig points at an OpenAI-compatible vision endpoint.
type DescriberConfig struct {
	BaseURL   string `yaml:"base_url,omitempty" toml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env,omitempty" toml:"api_key_env"`
	Model     string `yaml:"model,omitempty" toml:"model"`
}

// PerceptionConfig configures the perception backends.
type PerceptionConfig struct {
	OCRURL    string          `yaml:"ocr_url,omitempty" toml:"ocr_url"`
	Describer DescriberConfig `yaml:"describer,omitempty" toml:"describer"`
}

// Playbook is the parsed playbook.yaml: which forests to load and which
// tasks to run, plus logging and collaborator settings.
type Playbook struct {
	Name       *string          `yaml:"name,omitempty"`
	Forests    []string         `yaml:"forests"`
	Runs       []string         `yaml:"runs"`
	LogLevel   string           `yaml:"log_level,omitempty"`
	LogFile    string           `yaml:"log_file,omitempty"`
	Device     DeviceConfig     `yaml:"device,omitempty"`
	Perception PerceptionConfig `yaml:"perception,omitempty"`
}

// DefaultPlaybook returns a Playbook with default values.
func DefaultPlaybook() Playbook {
	return Playbook{
		LogLevel: "info",
		Device: DeviceConfig{
			ADBPath:           "adb",
			CommandTimeoutSec: 30.0,
		},
		Perception: PerceptionConfig{
			Describer: DescriberConfig{
				BaseURL:   "https://api.openai.com/v1",
				APIKeyEnv: "OPENAI_API_KEY",
				Model:     "gpt-4o-mini",
			},
		},
	}
}

// LoadPlaybook loads and parses a playbook.yaml file.
func LoadPlaybook(path string) (Playbook, error) {
	pb := DefaultPlaybook()

	data, err := os.ReadFile(path)
	if err != nil {
		return pb, fmt.Errorf("reading playbook: %w", err)
	}

	if err := yaml.Unmarshal(data, &pb); err != nil {
		return pb, fmt.Errorf("parsing playbook: %w", err)
	}

	if len(pb.Forests) == 0 {
		return pb, fmt.Errorf("playbook must list at least one forest file")
	}
	if len(pb.Runs) == 0 {
		return pb, fmt.Errorf("playbook must list at least one task id to run")
	}
	for i, id := range pb.Runs {
		if id == "" {
			return pb, fmt.Errorf("runs[%d]: task id is empty", i)
		}
	}

	// Apply defaults for values zeroed by explicit empty fields
	if pb.LogLevel == "" {
		pb.LogLevel = "info"
	}
	if pb.Device.ADBPath == "" {
		pb.Device.ADBPath = "adb"
	}
	if pb.Device.CommandTimeoutSec == 0 {
		pb.Device.CommandTimeoutSec = 30.0
	}

	return pb, nil
}
