package panel

import (
	"fmt"
	"io"
	"slices"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"

	"github.com/BeatGlow/screen"
	"github.com/BeatGlow/screen/internal/spidev"
)

// Conn is the connection interface for communicating with hardware.
type Conn interface {
	String() string

	// Close the connection.
	Close() error

	// Reset sets the reset pin to the provided level.
	Reset(gpio.Level) error

	// Command sends a command byte with optional arguments.
	Command(byte, ...byte) error

	// Data sends data bytes.
	Data(...byte) error
}

// SPI is a Conn over a SPI bus.
type SPI interface {
	Conn

	// SetDataLow changes the data/command direction behaviour.
	SetDataLow(bool)

	// SetMode requests a SPI mode.
	SetMode(mode spidev.Mode) error

	// SetMaxSpeed requests a SPI speed.
	SetMaxSpeed(hz int) error
}

// I2CConfig describes the I²C bus configuration.
type I2CConfig struct {
	// Bus is the I²C bus name or number, empty selects the first available bus.
	Bus string

	// Addr is the I²C address.
	Addr uint16

	// Reset pin, optional.
	Reset gpio.PinOut
}

// DefaultI2CConfig are the default configuration values.
var DefaultI2CConfig = I2CConfig{
	Addr: 0x3c,
}

type i2cConn struct {
	bus   i2c.Bus
	dev   *i2c.Dev
	reset gpio.PinOut
}

// OpenI2C opens an I²C bus through the periph registry. A nil config uses [DefaultI2CConfig].
func OpenI2C(config *I2CConfig) (Conn, error) {
	if config == nil {
		config = new(I2CConfig)
		*config = DefaultI2CConfig
	}

	bus, err := i2creg.Open(config.Bus)
	if err != nil {
		return nil, fmt.Errorf("panel: open I²C bus: %w", err)
	}
	return newI2CConn(bus, config.Addr, config.Reset), nil
}

func newI2CConn(bus i2c.Bus, addr uint16, reset gpio.PinOut) *i2cConn {
	return &i2cConn{
		bus:   bus,
		dev:   &i2c.Dev{Bus: bus, Addr: addr},
		reset: reset,
	}
}

func (c *i2cConn) String() string {
	return fmt.Sprintf("I²C %s", c.dev)
}

func (c *i2cConn) Close() error {
	if closer, ok := c.bus.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *i2cConn) Command(cmnd byte, args ...byte) (err error) {
	_, err = c.dev.Write(append([]byte{0x00, cmnd}, args...))
	return
}

func (c *i2cConn) Data(data ...byte) (err error) {
	_, err = c.dev.Write(append([]byte{0x40}, data...))
	return
}

func (c *i2cConn) Reset(level gpio.Level) error {
	if c.reset == nil {
		return nil
	}
	return c.reset.Out(level)
}

// SPIConfig describes the SPI bus configuration.
type SPIConfig struct {
	Bus       int
	Device    int
	Mode      spidev.Mode
	SpeedHz   uint32
	DataLow   bool
	BatchSize uint
	Reset     gpio.PinOut
	DC        gpio.PinOut
	CS        gpio.PinOut
}

// DefaultSPIConfig are the default configuration values. Pins have to be looked up after the
// host drivers are initialised, see [DefaultResetPin] and [DefaultDCPin].
var DefaultSPIConfig = SPIConfig{
	Bus:       0,
	Device:    0,
	Mode:      spidev.Mode0,
	SpeedHz:   8_000_000,
	BatchSize: 4096,
}

// Default GPIO pin names.
const (
	DefaultResetPin = "GPIO25"
	DefaultDCPin    = "GPIO24"
)

// ValidSPISpeeds are common valid SPI bus speeds.
var ValidSPISpeeds = []uint32{
	500_000,
	1_000_000,
	2_000_000,
	4_000_000,
	8_000_000,
	16_000_000,
	20_000_000,
	24_000_000,
	28_000_000,
	32_000_000,
	36_000_000,
	40_000_000,
	48_000_000,
	50_000_000,
	52_000_000,
}

type spiBus interface {
	io.WriteCloser
	String() string
	SetMode(spidev.Mode) error
	SetMaxSpeed(int) error
}

type spiConn struct {
	bus       spiBus
	reset     gpio.PinOut
	dc        gpio.PinOut
	dcLevel   gpio.Level
	dcValid   bool
	cs        gpio.PinOut
	dataLow   bool
	batchSize int
}

// OpenSPI opens a spidev bus with GPIO reset and data/command pins. A nil config uses
// [DefaultSPIConfig], which requires the pins to be filled in.
func OpenSPI(config *SPIConfig) (Conn, error) {
	config, err := resolveSPIConfig(config)
	if err != nil {
		return nil, err
	}

	dev, err := spidev.Open(config.Bus, config.Device)
	if err != nil {
		return nil, err
	}
	if err = dev.SetMode(config.Mode); err != nil {
		_ = dev.Close()
		return nil, err
	}
	if err = dev.SetMaxSpeed(int(config.SpeedHz)); err != nil {
		_ = dev.Close()
		return nil, err
	}
	return newSPIConn(dev, config), nil
}

// resolveSPIConfig validates config and returns a copy with defaults filled in.
func resolveSPIConfig(config *SPIConfig) (*SPIConfig, error) {
	resolved := DefaultSPIConfig
	if config != nil {
		resolved = *config
	}
	if resolved.Reset == nil || resolved.Reset == gpio.INVALID {
		return nil, ErrResetPin
	}
	if resolved.DC == nil || resolved.DC == gpio.INVALID {
		return nil, ErrDCPin
	}
	if resolved.SpeedHz == 0 {
		resolved.SpeedHz = DefaultSPIConfig.SpeedHz
	}
	if resolved.BatchSize == 0 {
		resolved.BatchSize = DefaultSPIConfig.BatchSize
	}
	if !slices.Contains(ValidSPISpeeds, resolved.SpeedHz) {
		return nil, fmt.Errorf("panel: invalid SPI speed %dHz", resolved.SpeedHz)
	}
	return &resolved, nil
}

func newSPIConn(bus spiBus, config *SPIConfig) *spiConn {
	return &spiConn{
		bus:       bus,
		batchSize: int(config.BatchSize),
		dataLow:   config.DataLow,
		reset:     config.Reset,
		dc:        config.DC,
		cs:        config.CS,
	}
}

func (c *spiConn) String() string {
	return fmt.Sprintf("SPI %s", c.bus)
}

func (c *spiConn) Close() error {
	return c.bus.Close()
}

func (c *spiConn) Reset(level gpio.Level) error {
	return c.reset.Out(level)
}

func (c *spiConn) updateDC(level gpio.Level) error {
	if !c.dcValid || c.dcLevel != level {
		if err := c.dc.Out(level); err != nil {
			return err
		}
		c.dcLevel, c.dcValid = level, true
	}
	return nil
}

func (c *spiConn) updateCS(level gpio.Level) error {
	if c.cs == nil {
		return nil
	}
	return c.cs.Out(level)
}

func (c *spiConn) Command(cmnd byte, data ...byte) (err error) {
	if err = c.updateCS(gpio.Low); err != nil {
		return
	}
	if err = c.updateDC(gpio.Level(c.dataLow)); err != nil {
		return
	}
	if _, err = c.bus.Write([]byte{cmnd}); err != nil {
		return
	}
	if len(data) > 0 {
		if err = c.updateDC(gpio.Level(!c.dataLow)); err != nil {
			return
		}
		if err = c.writeChunked(data); err != nil {
			return
		}
	}
	return c.updateCS(gpio.High)
}

func (c *spiConn) Data(data ...byte) (err error) {
	if len(data) == 0 {
		return
	}
	if err = c.updateDC(gpio.Level(!c.dataLow)); err != nil {
		return
	}
	if err = c.updateCS(gpio.Low); err != nil {
		return
	}
	if err = c.writeChunked(data); err != nil {
		return
	}
	return c.updateCS(gpio.High)
}

func (c *spiConn) writeChunked(data []byte) (err error) {
	if len(data) <= c.batchSize {
		_, err = c.bus.Write(data)
		return
	}

	screen.Logger().Debug("panel: chunked SPI write", "bytes", len(data), "chunks", (len(data)+c.batchSize-1)/c.batchSize)
	for chunk := range slices.Chunk(data, c.batchSize) {
		if _, err = c.bus.Write(chunk); err != nil {
			return
		}
	}
	return
}

func (c *spiConn) SetDataLow(v bool) {
	c.dataLow = v
}

func (c *spiConn) SetMode(mode spidev.Mode) error {
	return c.bus.SetMode(mode)
}

func (c *spiConn) SetMaxSpeed(hz int) error {
	return c.bus.SetMaxSpeed(hz)
}

// Interface checks.
var (
	_ Conn = (*i2cConn)(nil)
	_ SPI  = (*spiConn)(nil)
)
