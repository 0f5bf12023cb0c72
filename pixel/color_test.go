package pixel

import (
	"image/color"
	"testing"
)

func TestMono(t *testing.T) {
	for _, c := range []Mono{Off, On} {
		r, g, b, a := c.RGBA()
		var want uint32
		if c.On {
			want = 0xffff
		}
		if r != want || g != want || b != want {
			t.Errorf("%v: expected %#04x, got %#04x %#04x %#04x", c, want, r, g, b)
		}
		if a != 0xffff {
			t.Errorf("%v: expected opaque, got alpha %#04x", c, a)
		}
	}
	if v := MonoModel.Convert(color.White); v != On {
		t.Errorf("expected white to convert to on, got %v", v)
	}
	if v := MonoModel.Convert(color.Black); v != Off {
		t.Errorf("expected black to convert to off, got %v", v)
	}
}

func TestRGB(t *testing.T) {
	c := RGB{R: 0x12, G: 0x80, B: 0xff}
	r, g, b, a := c.RGBA()
	if r != 0x1212 || g != 0x8080 || b != 0xffff || a != 0xffff {
		t.Errorf("unexpected RGBA %#04x %#04x %#04x %#04x", r, g, b, a)
	}
	if v := RGBModel.Convert(color.RGBA{R: 0x12, G: 0x80, B: 0xff, A: 0xff}); v != c {
		t.Errorf("expected %v, got %v", c, v)
	}
	if v := ToRGB(c); v != c {
		t.Errorf("expected %v to convert to itself, got %v", c, v)
	}
}

func TestRGBQuantize(t *testing.T) {
	for v := 0; v < 256; v++ {
		c := RGB{uint8(v), uint8(255 - v), uint8(v ^ 0x55)}
		q := c.Quantize()
		if q.R&3 != 3 || q.G&3 != 3 || q.B&3 != 3 {
			t.Fatalf("%v: low bits not set in %v", c, q)
		}
		if q.R&^3 != c.R&^3 || q.G&^3 != c.G&^3 || q.B&^3 != c.B&^3 {
			t.Fatalf("%v: high bits changed in %v", c, q)
		}
		if q.Quantize() != q {
			t.Fatalf("%v: quantize is not idempotent", c)
		}
	}
}

func TestCRGB16(t *testing.T) {
	tests := []struct {
		in   RGB
		want uint16
	}{
		{RGB{}, 0x0000},
		{RGB{0xff, 0xff, 0xff}, 0xffff},
		{RGB{0xff, 0, 0}, 0xf800},
		{RGB{0, 0xff, 0}, 0x07e0},
		{RGB{0, 0, 0xff}, 0x001f},
	}
	for _, test := range tests {
		if v := CRGB16Model.Convert(test.in).(CRGB16); v.V != test.want {
			t.Errorf("%v: expected %#04x, got %#04x", test.in, test.want, v.V)
		}
		// The generic path must agree with the RGB fast path.
		if v := CRGB16Model.Convert(color.RGBA{test.in.R, test.in.G, test.in.B, 0xff}).(CRGB16); v.V != test.want {
			t.Errorf("%v via RGBA: expected %#04x, got %#04x", test.in, test.want, v.V)
		}
	}
}
