//go:build !linux

package framebuffer

func Open(_ string) (*FrameBuffer, error) {
	return nil, ErrNotSupported
}

func (fb *FrameBuffer) Close() error {
	fb.mem = nil
	return nil
}
