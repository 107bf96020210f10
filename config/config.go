// Package config manages persistent engine settings. Settings are
// stored as JSON at os.UserConfigDir()/audiocore/config.json.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds every persistent engine setting: device selection, ring
// capacities for the DeferredDrop/CPUUsage queues (defaulting to the
// values the render package uses; render.NewRenderer does not read
// them), and the sample rate requested before the backend has a chance
// to report the device's actual rate.
type Config struct {
	OutputDeviceID      int     `json:"output_device_id"`
	SampleRate          int     `json:"sample_rate"`
	NumChannels         int     `json:"num_channels"`
	FramesPerBuffer     int     `json:"frames_per_buffer"`
	MasterVolume        float64 `json:"master_volume"`
	SoundDropCapacity   int     `json:"sound_drop_capacity"`
	TrackDropCapacity   int     `json:"track_drop_capacity"`
	EffectDropCapacity  int     `json:"effect_drop_capacity"`
	CPUUsageRingSamples int     `json:"cpu_usage_ring_samples"`
}

// Default returns a Config populated with sensible defaults.
func Default() Config {
	return Config{
		OutputDeviceID:      -1,
		SampleRate:          44100,
		NumChannels:         2,
		FramesPerBuffer:     512,
		MasterVolume:        1.0,
		SoundDropCapacity:   64,
		TrackDropCapacity:   32,
		EffectDropCapacity:  32,
		CPUUsageRingSamples: 100,
	}
}

// Path returns the absolute path to the config file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "audiocore", "config.json"), nil
}

// Load reads the config file and returns it. If the file is missing or
// unreadable, the default config is returned, never an error.
func Load() Config {
	path, err := Path()
	if err != nil {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default()
	}
	return cfg
}

// Save writes cfg to disk, creating the directory if needed.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
