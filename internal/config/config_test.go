package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(name, []byte(data), 0o644))
	return name
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{
		"target": "st7789",
		"width": 240,
		"height": 320,
		"rotation": 90,
		"filters": ["smooth", "quantize"],
		"backlight": "GPIO19",
		"spi": {"bus": 1, "speed_hz": 40000000}
	}`))
	require.NoError(t, err)
	assert.Equal(t, TargetST7789, cfg.Target)
	assert.Equal(t, 240, cfg.Width)
	assert.Equal(t, 320, cfg.Height)
	assert.Equal(t, 90, cfg.Rotation)
	assert.Equal(t, []string{FilterSmooth, FilterQuantize}, cfg.Filters)
	assert.Equal(t, 1, cfg.SPI.Bus)
	assert.Equal(t, uint32(40_000_000), cfg.SPI.SpeedHz)
	assert.Equal(t, "GPIO19", cfg.Backlight)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorContains(t, err, "config: read")

	_, err = Load(writeConfig(t, `{"width": "wide"}`))
	assert.ErrorContains(t, err, "config: parse")
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})
	assert.Equal(t, TargetFrameBuffer, cfg.Target)
	assert.Equal(t, "/dev/fb0", cfg.Device)
	assert.Equal(t, uint32(8_000_000), cfg.SPI.SpeedHz)
	assert.Equal(t, "GPIO25", cfg.SPI.Reset)
	assert.Equal(t, "GPIO24", cfg.SPI.DC)
	assert.Equal(t, uint16(0x3c), cfg.I2C.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestResolveFlagsOverride(t *testing.T) {
	cfg := Config{Target: "fb", Width: 10, Filters: []string{"quantize"}}
	cfg.Resolve(Flags{
		Target:   "SSD1306",
		Width:    128,
		Height:   64,
		Rotation: 180,
		Filters:  " smooth5, smooth ,",
		Stretch:  true,
	})
	assert.Equal(t, TargetSSD1306, cfg.Target)
	assert.Equal(t, BusI2C, cfg.Bus)
	assert.Equal(t, 128, cfg.Width)
	assert.Equal(t, 64, cfg.Height)
	assert.Equal(t, 180, cfg.Rotation)
	assert.Equal(t, []string{FilterSmoothWeighted, FilterSmooth}, cfg.Filters)
	assert.True(t, cfg.Stretch)
	assert.Empty(t, cfg.Device)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := Config{
		Target:   "lcd",
		Width:    -1,
		Rotation: 45,
		Filters:  []string{"sharpen"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{
		`unknown target "lcd"`,
		`unknown bus ""`,
		"invalid size -1x0",
		"invalid rotation 45",
		`unknown filter "sharpen"`,
	} {
		assert.ErrorContains(t, err, want)
	}
}
