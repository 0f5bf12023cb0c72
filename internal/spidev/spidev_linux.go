package spidev

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/BeatGlow/screen/internal/ioctl"
)

const (
	iocMode        = 0x6b01
	iocBitsPerWord = 0x6b03
	iocMaxSpeedHz  = 0x6b04
)

// Open opens the numbered SPI bus with the numbered device. The device often corresponds to the
// CS pin for that bus.
func Open(bus, device int) (*Dev, error) {
	f, err := os.OpenFile(Path(bus, device), os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	d := &Dev{
		f:  f,
		fd: f.Fd(),
	}
	if err = d.get(ioctl.For[Mode](ioctl.Read, iocMode), unsafe.Pointer(&d.mode)); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err = d.get(ioctl.For[uint8](ioctl.Read, iocBitsPerWord), unsafe.Pointer(&d.bitsPerWord)); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err = d.get(ioctl.For[uint32](ioctl.Read, iocMaxSpeedHz), unsafe.Pointer(&d.maxSpeedHz)); err != nil {
		_ = f.Close()
		return nil, err
	}
	return d, nil
}

func (d *Dev) get(cmd ioctl.Command, arg unsafe.Pointer) error {
	return ioctl.Do(d.fd, cmd, arg)
}

func (d *Dev) SetMode(mode Mode) error {
	mode &= 0x0f
	if err := ioctl.Do(d.fd, ioctl.For[Mode](ioctl.Write, iocMode), unsafe.Pointer(&mode)); err != nil {
		return err
	}

	var test Mode
	if err := d.get(ioctl.For[Mode](ioctl.Read, iocMode), unsafe.Pointer(&test)); err != nil {
		return err
	}
	if test != mode {
		return fmt.Errorf("spidev: attempted to set mode %#02x, but mode %#02x is in use", mode, test)
	}

	d.mode = mode
	return nil
}

func (d *Dev) SetBitsPerWord(bits uint8) error {
	if bits < 8 || bits > 32 {
		return fmt.Errorf("spidev: bits per word need to be 8 or more and 32 or less, got %d", bits)
	}
	if d.bitsPerWord != bits {
		if err := ioctl.Do(d.fd, ioctl.For[uint8](ioctl.Write, iocBitsPerWord), unsafe.Pointer(&bits)); err != nil {
			return err
		}
		d.bitsPerWord = bits
	}
	return nil
}

func (d *Dev) SetMaxSpeed(hz int) error {
	if hz < 0 {
		return nil
	}
	u := uint32(hz)
	if d.maxSpeedHz != u {
		if err := ioctl.Do(d.fd, ioctl.For[uint32](ioctl.Write, iocMaxSpeedHz), unsafe.Pointer(&u)); err != nil {
			return err
		}
		d.maxSpeedHz = u
	}
	return nil
}
