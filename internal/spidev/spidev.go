// Package spidev drives SPI buses through the Linux spidev character devices.
package spidev

import (
	"errors"
	"fmt"
	"os"
)

// ErrNotSupported is returned on platforms without spidev.
var ErrNotSupported = errors.New("spidev: not supported")

// Definitions from <linux/spi/spidev.h>
const (
	cpha = 0x01
	cpol = 0x02
)

// Mode is the SPI clock polarity and phase.
type Mode uint8

// SPI modes.
const (
	Mode0 Mode = 0
	Mode1 Mode = cpha
	Mode2 Mode = cpol
	Mode3 Mode = cpol | cpha
)

// DevicePath is the prefix of spidev device nodes, completed by "<bus>.<device>".
const DevicePath = "/dev/spidev"

// Dev is an opened spidev device.
type Dev struct {
	f           *os.File
	fd          uintptr
	mode        Mode
	bitsPerWord uint8
	maxSpeedHz  uint32
}

// Path returns the device node of the numbered bus and device (chip select).
func Path(bus, device int) string {
	return fmt.Sprintf("%s%d.%d", DevicePath, bus, device)
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s mode=%d bits per word=%d max speed=%dHz", d.f.Name(), d.mode, d.bitsPerWord, d.maxSpeedHz)
}

func (d *Dev) Close() error {
	return d.f.Close()
}

func (d *Dev) Mode() Mode {
	return d.mode
}

func (d *Dev) BitsPerWord() uint8 {
	return d.bitsPerWord
}

func (d *Dev) MaxSpeed() int {
	return int(d.maxSpeedHz)
}

func (d *Dev) Read(b []byte) (int, error) {
	return d.f.Read(b)
}

func (d *Dev) Write(b []byte) (int, error) {
	return d.f.Write(b)
}
