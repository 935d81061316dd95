package posekit

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the editor configuration, loaded from a TOML file.
type Config struct {
	SnapDeg          float64 `toml:"snap_deg"`
	GalleryDir       string  `toml:"gallery_dir"`
	ImportDir        string  `toml:"import_dir"`
	AutoApplyPresets bool    `toml:"auto_apply_presets"`
	ShowOutline      bool    `toml:"show_outline"`
	Debug            bool    `toml:"debug"`

	Window WindowConfig `toml:"window"`
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

func DefaultConfig() Config {
	return Config{
		SnapDeg:          10,
		GalleryDir:       "gallery",
		ImportDir:        "",
		AutoApplyPresets: true,
		ShowOutline:      true,
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "posekit",
		},
	}
}

// LoadConfig reads a TOML config file, layering it over the defaults. A
// missing file is not an error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config read: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config parse: %w", err)
	}
	return cfg, nil
}
