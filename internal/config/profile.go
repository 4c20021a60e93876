package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// DeviceProfile is an optional device.toml that pins device and perception
// settings to one target, overriding the playbook's values. It lives next
// to the forest files for that device.
type DeviceProfile struct {
	Device     DeviceConfig     `toml:"device"`
	Perception PerceptionConfig `toml:"perception"`
}

// LoadDeviceProfile parses a device.toml file. A missing file is not an
// error: it returns (nil, nil) so callers can fall back to the playbook.
func LoadDeviceProfile(path string) (*DeviceProfile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading device profile: %w", err)
	}

	var profile DeviceProfile
	if _, err := toml.Decode(string(data), &profile); err != nil {
		return nil, fmt.Errorf("parsing device profile: %w", err)
	}
	return &profile, nil
}

// Apply overlays the profile's non-zero settings onto the playbook.
func (p *DeviceProfile) Apply(pb *Playbook) {
	if p == nil {
		return
	}
	if p.Device.ADBPath != "" {
		pb.Device.ADBPath = p.Device.ADBPath
	}
	if p.Device.Serial != "" {
		pb.Device.Serial = p.Device.Serial
	}
	if p.Device.CommandTimeoutSec > 0 {
		pb.Device.CommandTimeoutSec = p.Device.CommandTimeoutSec
	}
	if p.Perception.OCRURL != "" {
		pb.Perception.OCRURL = p.Perception.OCRURL
	}
	if p.Perception.Describer.BaseURL != "" {
		pb.Perception.Describer.BaseURL = p.Perception.Describer.BaseURL
	}
	if p.Perception.Describer.APIKeyEnv != "" {
		pb.Perception.Describer.APIKeyEnv = p.Perception.Describer.APIKeyEnv
	}
	if p.Perception.Describer.Model != "" {
		pb.Perception.Describer.Model = p.Perception.Describer.Model
	}
}
