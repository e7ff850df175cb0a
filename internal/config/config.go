package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSpeed       = 1.0
	DefaultRefreshRate = 60
	DefaultMinInterval = 16.0
	DefaultLensSize    = 24
	DefaultZoom        = 2.0
	DefaultMode        = "blocks"
	DefaultLogLevel    = "info"

	MinSpeed = 0.1
	MaxSpeed = 5.0
)

type Config struct {
	Animation AnimationConfig `yaml:"animation"`
	Render    RenderConfig    `yaml:"render"`
	Upload    UploadConfig    `yaml:"upload"`
	Log       LogConfig       `yaml:"log"`
}

type AnimationConfig struct {
	Speed        float64 `yaml:"speed"`
	InitialValue float64 `yaml:"initial_value"`
	RefreshRate  int     `yaml:"refresh_rate"`
	MinInterval  float64 `yaml:"min_interval_ms"`
	Autostart    bool    `yaml:"autostart"`
}

type RenderConfig struct {
	Mode     string  `yaml:"mode"`
	Theme    string  `yaml:"theme"`
	LensSize int     `yaml:"lens_size"`
	Zoom     float64 `yaml:"zoom"`
}

type UploadConfig struct {
	Workers int `yaml:"workers"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Animation: AnimationConfig{
			Speed:       DefaultSpeed,
			RefreshRate: DefaultRefreshRate,
			MinInterval: DefaultMinInterval,
		},
		Render: RenderConfig{
			Mode:     DefaultMode,
			Theme:    "minimal",
			LensSize: DefaultLensSize,
			Zoom:     DefaultZoom,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Validate()
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate clamps out-of-range values into range and fills zero values with
// defaults. It never fails.
func (c *Config) Validate() {
	a := &c.Animation
	if math.IsNaN(a.Speed) {
		a.Speed = DefaultSpeed
	}
	a.Speed = math.Max(MinSpeed, math.Min(MaxSpeed, a.Speed))
	if math.IsNaN(a.InitialValue) {
		a.InitialValue = 0
	}
	a.InitialValue = math.Max(-100, math.Min(100, a.InitialValue))
	if a.RefreshRate <= 0 {
		a.RefreshRate = DefaultRefreshRate
	}
	if !(a.MinInterval > 0) {
		a.MinInterval = DefaultMinInterval
	}

	r := &c.Render
	if r.Mode == "" {
		r.Mode = DefaultMode
	}
	if r.LensSize <= 0 {
		r.LensSize = DefaultLensSize
	}
	if !(r.Zoom >= 1) {
		r.Zoom = DefaultZoom
	}

	if c.Upload.Workers < 0 {
		c.Upload.Workers = 0
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}
