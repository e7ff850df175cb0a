package config

import "sort"

// Presets are named animation settings.
var Presets = map[string]AnimationConfig{
	"gentle":  {Speed: 0.3, RefreshRate: 60, MinInterval: 16},
	"default": {Speed: 1.0, RefreshRate: 60, MinInterval: 16},
	"brisk":   {Speed: 2.5, RefreshRate: 60, MinInterval: 16},
	"strobe":  {Speed: 5.0, RefreshRate: 60, MinInterval: 16, InitialValue: -100},
	"dark":    {Speed: 0.5, RefreshRate: 60, MinInterval: 16, InitialValue: -80},
}

func GetPreset(name string) *AnimationConfig {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset replaces the animation section with the named preset.
func (c *Config) ApplyPreset(name string) bool {
	p := GetPreset(name)
	if p == nil {
		return false
	}
	autostart := c.Animation.Autostart
	c.Animation = *p
	c.Animation.Autostart = autostart
	return true
}
