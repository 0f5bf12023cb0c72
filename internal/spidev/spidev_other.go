//go:build !linux

package spidev

func Open(_, _ int) (*Dev, error) {
	return nil, ErrNotSupported
}

func (d *Dev) SetMode(Mode) error {
	return ErrNotSupported
}

func (d *Dev) SetBitsPerWord(uint8) error {
	return ErrNotSupported
}

func (d *Dev) SetMaxSpeed(int) error {
	return ErrNotSupported
}
