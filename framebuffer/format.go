package framebuffer

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/BeatGlow/screen/pixel"
)

// fixScreenInfo mirrors struct fb_fix_screeninfo from <linux/fb.h>.
type fixScreenInfo struct {
	ID           [16]byte
	SmemStart    uintptr
	SmemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	Xpanstep     uint16
	Ypanstep     uint16
	Ywrapstep    uint16
	LineLength   uint32
	MmioStart    uintptr
	MmioLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

// bitField describes where a color channel lives in a pixel.
type bitField struct {
	Offset   uint32
	Length   uint32
	MsbRight uint32
}

// varScreenInfo mirrors struct fb_var_screeninfo from <linux/fb.h>.
type varScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha bitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}

func (b bitField) is(offset, length uint32) bool {
	return b.Offset == offset && b.Length == length
}

// newImage wraps the visible part of mem in an image matching the pixel layout of info.
func newImage(info *varScreenInfo, lineLength int, mem []byte) (pixel.Image, error) {
	var (
		w     = int(info.Xres)
		h     = int(info.Yres)
		bpp   = int(info.BitsPerPixel)
		start = int(info.Yoffset)*lineLength + int(info.Xoffset)*bpp/8
		end   = start + (h-1)*lineLength + w*bpp/8
	)
	if w <= 0 || h <= 0 || end > len(mem) {
		return nil, fmt.Errorf("framebuffer: %dx%d at %d bpp does not fit %d bytes of video memory", w, h, bpp, len(mem))
	}
	buf := pixel.Buffer{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    mem[start:end],
		Stride: lineLength,
	}

	switch {
	case bpp == 16 && info.Red.is(11, 5) && info.Green.is(5, 6) && info.Blue.is(0, 5):
		return &pixel.CRGB16Image{Buffer: buf, Order: binary.LittleEndian}, nil
	case bpp == 32 && info.Red.is(16, 8) && info.Green.is(8, 8) && info.Blue.is(0, 8):
		return &pixel.BGRX32Image{Buffer: buf}, nil
	}
	return nil, fmt.Errorf("%w: %d bpp, red %d/%d, green %d/%d, blue %d/%d", ErrUnsupportedFormat, bpp,
		info.Red.Offset, info.Red.Length, info.Green.Offset, info.Green.Length, info.Blue.Offset, info.Blue.Length)
}
