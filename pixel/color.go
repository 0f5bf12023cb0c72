package pixel

import "image/color"

// Models for the color types in this package.
var (
	RGBModel    color.Model = color.ModelFunc(rgbModel)
	MonoModel   color.Model = color.ModelFunc(monoModel)
	CRGB16Model color.Model = color.ModelFunc(crgb16Model)
	BGRX32Model color.Model = color.ModelFunc(bgrx32Model)
)

// RGB is a 24-bit color with 8 bits per channel and no alpha.
type RGB struct {
	R, G, B uint8
}

func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// Quantize returns the color with the two least significant bits of every channel set.
func (c RGB) Quantize() RGB {
	return RGB{c.R | 0x03, c.G | 0x03, c.B | 0x03}
}

func rgbModel(c color.Color) color.Color {
	if _, ok := c.(RGB); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

// ToRGB converts any color to RGB, dropping alpha.
func ToRGB(c color.Color) RGB {
	return rgbModel(c).(RGB)
}

var (
	Off = Mono{false}
	On  = Mono{true}
)

// Mono represents a 1-bit monochrome color.
type Mono struct {
	On bool
}

func (c Mono) RGBA() (r, g, b, a uint32) {
	if c.On {
		return 0xffff, 0xffff, 0xffff, 0xffff
	}
	return 0, 0, 0, 0xffff
}

func monoModel(c color.Color) color.Color {
	if _, ok := c.(Mono); ok {
		return c
	}
	r, g, b, _ := c.RGBA()

	// JFIF luma coefficients, 19595 + 38470 + 7471 equals 65536. A pixel is lit
	// when its luma reaches the upper half of the 16-bit range.
	y := (19595*r + 38470*g + 7471*b + 1<<15) >> 16
	return Mono{On: y >= 0x8000}
}

// CRGB16 represents a 16-bit 5-6-5 RGB color.
type CRGB16 struct {
	// CRed, 5, CGreen, 6, CBlue, 5
	V uint16
}

func (c CRGB16) RGBA() (r, g, b, a uint32) {
	red := (c.V & 0xF800) >> 8
	grn := (c.V & 0x07E0) >> 3
	blu := (c.V & 0x001F) << 3
	// Replicate the high bits into the low bits.
	red |= red >> 5
	grn |= grn >> 6
	blu |= blu >> 5
	red |= red << 8
	grn |= grn << 8
	blu |= blu << 8
	return uint32(red), uint32(grn), uint32(blu), 0xffff
}

func crgb16Model(c color.Color) color.Color {
	switch c := c.(type) {
	case CRGB16:
		return c
	case RGB:
		return CRGB16{uint16(c.R&0xF8)<<8 | uint16(c.G&0xFC)<<3 | uint16(c.B)>>3}
	case Mono:
		if c.On {
			return CRGB16{0xffff}
		}
		return CRGB16{}
	default:
		r, g, b, _ := c.RGBA()
		r = r & 0xF800
		g = (g & 0xFC00) >> 5
		b = (b & 0xF800) >> 11
		return CRGB16{uint16(r | g | b)}
	}
}

// BGRX32 represents a 32-bit color stored as blue, green, red and an unused byte.
type BGRX32 struct {
	B, G, R uint8
}

func (c BGRX32) RGBA() (r, g, b, a uint32) {
	return RGB{c.R, c.G, c.B}.RGBA()
}

func bgrx32Model(c color.Color) color.Color {
	if _, ok := c.(BGRX32); ok {
		return c
	}
	v := ToRGB(c)
	return BGRX32{B: v.B, G: v.G, R: v.R}
}
