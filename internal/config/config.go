// Package config holds the settings of the screen-show command.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
)

// Targets
const (
	TargetFrameBuffer = "fb"
	TargetST7789      = "st7789"
	TargetSSD1306     = "ssd1306"
	TargetSH1106      = "sh1106"
)

// Filters
const (
	FilterSmooth         = "smooth"
	FilterSmoothWeighted = "smooth5"
	FilterQuantize       = "quantize"
)

// Buses
const (
	BusSPI = "spi"
	BusI2C = "i2c"
)

var (
	targets   = []string{TargetFrameBuffer, TargetST7789, TargetSSD1306, TargetSH1106}
	filters   = []string{FilterSmooth, FilterSmoothWeighted, FilterQuantize}
	rotations = []int{0, 90, 180, 270}
)

// Config holds the output device and processing settings.
type Config struct {
	// Output
	Target   string `json:"target"`
	Device   string `json:"device"`
	Bus      string `json:"bus"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Rotation int    `json:"rotation"`
	Stretch  bool   `json:"stretch"`

	// Backlight is the GPIO name of the panel backlight, optional.
	Backlight string `json:"backlight"`

	// Processing, filters run in order.
	Filters []string `json:"filters"`

	SPI SPI `json:"spi"`
	I2C I2C `json:"i2c"`

	Debug bool `json:"debug"`
}

// SPI bus settings, pins are periph GPIO names.
type SPI struct {
	Bus     int    `json:"bus"`
	Device  int    `json:"device"`
	SpeedHz uint32 `json:"speed_hz"`
	Reset   string `json:"reset"`
	DC      string `json:"dc"`
	CS      string `json:"cs"`
}

// I2C bus settings.
type I2C struct {
	Bus   string `json:"bus"`
	Addr  uint16 `json:"addr"`
	Reset string `json:"reset"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Target   string
	Device   string
	Bus      string
	Width    int
	Height   int
	Rotation int
	Filters  string
	Stretch  bool
	Debug    bool
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve applies the CLI flags and fills in defaults for everything still empty.
// Flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.Target != "" {
		c.Target = flags.Target
	}
	if flags.Device != "" {
		c.Device = flags.Device
	}
	if flags.Bus != "" {
		c.Bus = flags.Bus
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Rotation != 0 {
		c.Rotation = flags.Rotation
	}
	if flags.Filters != "" {
		c.Filters = ParseFilters(flags.Filters)
	}
	c.Stretch = c.Stretch || flags.Stretch
	c.Debug = c.Debug || flags.Debug

	c.Target = strings.ToLower(c.Target)
	if c.Target == "" {
		c.Target = TargetFrameBuffer
	}
	if c.Target == TargetFrameBuffer && c.Device == "" {
		c.Device = "/dev/fb0"
	}
	if c.Bus == "" {
		switch c.Target {
		case TargetST7789:
			c.Bus = BusSPI
		case TargetSSD1306, TargetSH1106:
			c.Bus = BusI2C
		}
	}

	if c.SPI.SpeedHz == 0 {
		c.SPI.SpeedHz = 8_000_000
	}
	if c.SPI.Reset == "" {
		c.SPI.Reset = "GPIO25"
	}
	if c.SPI.DC == "" {
		c.SPI.DC = "GPIO24"
	}
	if c.I2C.Addr == 0 {
		c.I2C.Addr = 0x3c
	}
}

// ParseFilters splits a comma separated filter list.
func ParseFilters(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(targets, c.Target) {
		errs = append(errs, fmt.Errorf("config: unknown target %q", c.Target))
	}
	if c.Target != TargetFrameBuffer && c.Bus != BusSPI && c.Bus != BusI2C {
		errs = append(errs, fmt.Errorf("config: unknown bus %q", c.Bus))
	}
	if c.Width < 0 || c.Height < 0 {
		errs = append(errs, fmt.Errorf("config: invalid size %dx%d", c.Width, c.Height))
	}
	if !slices.Contains(rotations, c.Rotation) {
		errs = append(errs, fmt.Errorf("config: invalid rotation %d", c.Rotation))
	}
	for _, f := range c.Filters {
		if !slices.Contains(filters, f) {
			errs = append(errs, fmt.Errorf("config: unknown filter %q", f))
		}
	}
	return errors.Join(errs...)
}
