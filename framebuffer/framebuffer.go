// Package framebuffer provides access to the operating system's native framebuffer.
//
// This requires framebuffer device support in the operating system. An opened [FrameBuffer] is
// a screen.Surface writing straight into the mapped video memory, so presented pixels show up
// without a flush.
package framebuffer

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/BeatGlow/screen"
	"github.com/BeatGlow/screen/pixel"
)

// Errors
var (
	ErrNotSupported      = errors.New("framebuffer: not supported")
	ErrUnsupportedFormat = errors.New("framebuffer: unsupported pixel format")
)

// FrameBuffer is a mapped framebuffer device.
type FrameBuffer struct {
	name string
	img  pixel.Image
	mem  []byte
	f    *os.File
}

func newFrameBuffer(name string, fix *fixScreenInfo, info *varScreenInfo, mem []byte) (*FrameBuffer, error) {
	img, err := newImage(info, int(fix.LineLength), mem)
	if err != nil {
		return nil, err
	}
	return &FrameBuffer{
		name: name,
		img:  img,
		mem:  mem,
	}, nil
}

func (fb *FrameBuffer) String() string {
	bounds := fb.Bounds()
	return fmt.Sprintf("framebuffer %s %dx%d", fb.name, bounds.Dx(), bounds.Dy())
}

// Bounds is the visible area.
func (fb *FrameBuffer) Bounds() image.Rectangle {
	return fb.img.Bounds()
}

// Image is the visible area of the video memory.
func (fb *FrameBuffer) Image() pixel.Image {
	return fb.img
}

// Begin returns a context drawing directly into video memory.
func (fb *FrameBuffer) Begin() (screen.Context, error) {
	if fb.mem == nil {
		return nil, os.ErrClosed
	}
	return &screen.ImageContext{Dst: fb.img}, nil
}

var _ screen.Surface = (*FrameBuffer)(nil)
