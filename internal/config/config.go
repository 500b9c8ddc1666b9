// Application configuration loaded from YAML
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	AppName    = "Plant Disease Detector"
	AppID      = "com.plantdisease.detector"
	AppVersion = "1.0.0"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every tunable of the detector.
type Config struct {
	Threshold        int           `yaml:"threshold"`
	BackgroundCutoff int           `yaml:"background_cutoff"`
	Debug            bool          `yaml:"debug"`
	LogFile          string        `yaml:"log_file"`
	Window           WindowConfig  `yaml:"window"`
	ThumbnailSize    int           `yaml:"thumbnail_size"`
	Gallery          GalleryConfig `yaml:"gallery"`
}

type WindowConfig struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// GalleryConfig parameterizes the inspection transforms.
type GalleryConfig struct {
	CannyLow      float64 `yaml:"canny_low"`
	CannyHigh     float64 `yaml:"canny_high"`
	BlurKernel    int     `yaml:"blur_kernel"`
	Scale         float64 `yaml:"scale"`
	TranslateX    float64 `yaml:"translate_x"`
	TranslateY    float64 `yaml:"translate_y"`
	RotateDegrees float64 `yaml:"rotate_degrees"`
	Shear         float64 `yaml:"shear"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Threshold:        150,
		BackgroundCutoff: 200,
		Window:           WindowConfig{Width: 1600, Height: 900},
		ThumbnailSize:    320,
		Gallery: GalleryConfig{
			CannyLow:      100,
			CannyHigh:     200,
			BlurKernel:    11,
			Scale:         0.5,
			TranslateX:    100,
			TranslateY:    50,
			RotateDegrees: 45,
			Shear:         0.5,
		},
	}
}

// Load reads path on top of Default. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 255 {
		return fmt.Errorf("%w: threshold %d not in [0, 255]", ErrInvalidConfig, c.Threshold)
	}
	if c.BackgroundCutoff < 0 || c.BackgroundCutoff > 255 {
		return fmt.Errorf("%w: background_cutoff %d not in [0, 255]", ErrInvalidConfig, c.BackgroundCutoff)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %.0fx%.0f", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if c.ThumbnailSize <= 0 {
		return fmt.Errorf("%w: thumbnail_size must be positive", ErrInvalidConfig)
	}
	return c.Gallery.Validate()
}

func (g GalleryConfig) Validate() error {
	if g.BlurKernel <= 0 || g.BlurKernel%2 == 0 {
		return fmt.Errorf("%w: blur_kernel must be a positive odd number, got %d", ErrInvalidConfig, g.BlurKernel)
	}
	if g.Scale <= 0 {
		return fmt.Errorf("%w: scale must be positive", ErrInvalidConfig)
	}
	if g.CannyLow < 0 || g.CannyHigh < g.CannyLow {
		return fmt.Errorf("%w: canny thresholds %.0f/%.0f", ErrInvalidConfig, g.CannyLow, g.CannyHigh)
	}
	return nil
}
