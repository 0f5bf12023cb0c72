package screen

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeatGlow/screen/pixel"
)

var (
	red   = pixel.RGB{R: 0xff}
	green = pixel.RGB{G: 0xff}
	blue  = pixel.RGB{B: 0xff}
	white = pixel.RGB{R: 0xff, G: 0xff, B: 0xff}
)

func TestCorrectedWidth(t *testing.T) {
	for w := 1; w < 2048; w++ {
		v := CorrectedWidth(w)
		require.Zero(t, v%4, "width %d", w)
		require.GreaterOrEqual(t, v, w)
		require.Less(t, v, w+4)
	}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		w, h, stride int
	}{
		{1, 1, 4},
		{4, 2, 4},
		{5, 3, 8},
		{240, 240, 240},
		{321, 17, 324},
	}
	for _, test := range tests {
		t.Run(image.Pt(test.w, test.h).String(), func(it *testing.T) {
			var b Buffer
			require.NoError(it, b.Create(test.w, test.h))
			assert.False(it, b.Empty())
			assert.Equal(it, test.w, b.Width())
			assert.Equal(it, test.h, b.Height())
			assert.Equal(it, test.stride, b.Stride())
			assert.Len(it, b.Pix(), test.stride*test.h)
			assert.Equal(it, image.Rect(0, 0, test.w, test.h), b.Bounds())
		})
	}
}

func TestCreateInvalidSize(t *testing.T) {
	var b Buffer
	require.NoError(t, b.Create(3, 3))
	for _, size := range []image.Point{{0, 1}, {1, 0}, {-1, 5}, {5, -1}} {
		assert.ErrorIs(t, b.Create(size.X, size.Y), ErrSize)
		assert.ErrorIs(t, b.CreateFilled(size.X, size.Y, color.White), ErrSize)
		assert.ErrorIs(t, b.CreateRGB(nil, size.X, size.Y), ErrSize)
	}
	assert.Equal(t, 3, b.Width(), "failed creation must leave the buffer untouched")
}

func TestCreateFilled(t *testing.T) {
	for _, size := range []image.Point{{1, 1}, {5, 3}, {13, 7}, {64, 32}} {
		t.Run(size.String(), func(it *testing.T) {
			var b Buffer
			c := pixel.RGB{R: 0x12, G: 0x34, B: 0x56}
			require.NoError(it, b.CreateFilled(size.X, size.Y, c))
			for row := 0; row < size.Y; row++ {
				for x := 0; x < size.X; x++ {
					require.Equal(it, c, b.Pixel(x, row), "pixel (%d,%d)", x, row)
				}
				for x := size.X; x < b.Stride(); x++ {
					require.Equal(it, pixel.RGB{}, b.Pixel(x, row), "padding (%d,%d)", x, row)
				}
			}
		})
	}
}

func TestCreateFilledConvertsColor(t *testing.T) {
	var b Buffer
	require.NoError(t, b.CreateFilled(2, 2, color.RGBA{R: 0x80, G: 0x40, B: 0x20, A: 0xff}))
	assert.Equal(t, pixel.RGB{R: 0x80, G: 0x40, B: 0x20}, b.Pixel(1, 1))
}

func testRGBData(w, h int) []byte {
	data := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			data = append(data, byte(x%256), byte(y%256), 0)
		}
	}
	return data
}

func TestCreateRGB(t *testing.T) {
	const w, h = 300, 260

	var b Buffer
	require.NoError(t, b.CreateRGB(testRGBData(w, h), w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := pixel.RGB{R: uint8(x % 256), G: uint8(y % 256)}
			require.Equal(t, want, b.Pixel(x, h-1-y), "storage (%d,%d)", x, h-1-y)
			require.Equal(t, want, b.Image().RGBAt(x, y), "display (%d,%d)", x, y)
		}
	}
}

func TestCreateRGBShortData(t *testing.T) {
	var b Buffer
	err := b.CreateRGB(make([]byte, 11), 2, 2)
	assert.ErrorIs(t, err, ErrShortData)
	assert.True(t, b.Empty())
}

func TestCreateFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 13, 22))
	src.Set(10, 20, color.RGBA{R: 0xff, A: 0xff})
	src.Set(12, 21, color.RGBA{B: 0xff, A: 0xff})

	var b Buffer
	require.NoError(t, b.CreateFromImage(src))
	assert.Equal(t, 3, b.Width())
	assert.Equal(t, 2, b.Height())
	assert.Equal(t, red, b.Image().RGBAt(0, 0))
	assert.Equal(t, blue, b.Image().RGBAt(2, 1))
	// Bottom-up storage: the top-left pixel is in the last row.
	assert.Equal(t, red, b.Pixel(0, 1))
	assert.Equal(t, blue, b.Pixel(2, 0))

	assert.ErrorIs(t, b.CreateFromImage(image.NewRGBA(image.Rectangle{})), ErrSize)
}

func TestCreateFromRegion(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	src.Set(2, 3, color.RGBA{G: 0xff, A: 0xff})

	var b Buffer
	require.NoError(t, b.Create(4, 4))
	assert.ErrorIs(t, b.CreateFromRegion(src, image.Rect(2, 3, 5, 5)), ErrNoDrawingContext)
	assert.Equal(t, 4, b.Width(), "buffer must be untouched without a drawing context")

	old, err := b.AcquireDrawingContext()
	require.NoError(t, err)
	require.NoError(t, b.CreateFromRegion(src, image.Rect(2, 3, 5, 5)))
	assert.Equal(t, 3, b.Width())
	assert.Equal(t, 2, b.Height())
	assert.Equal(t, green, b.Image().RGBAt(0, 0))
	assert.True(t, old.Released())

	c, err := b.AcquireDrawingContext()
	require.NoError(t, err)
	assert.False(t, c.Released())
	assert.Equal(t, b.Bounds(), c.Bounds())
}

func TestDetach(t *testing.T) {
	var b Buffer
	require.NoError(t, b.CreateFilled(5, 2, white))
	c, err := b.AcquireDrawingContext()
	require.NoError(t, err)

	img := b.Detach()
	require.NotNil(t, img)
	assert.True(t, b.Empty())
	assert.Nil(t, b.Pix())
	assert.True(t, c.Released())
	assert.Equal(t, image.Rect(0, 0, 5, 2), img.Bounds())
	assert.Equal(t, white, img.RGBAt(4, 1))
	assert.NoError(t, b.Close())
	assert.Nil(t, b.Detach())
}

func TestBitmapFromRGB(t *testing.T) {
	img, err := BitmapFromRGB(testRGBData(6, 3), 6, 3)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Stride)
	assert.Equal(t, pixel.RGB{R: 5, G: 2}, img.RGBAt(5, 2))
	assert.Equal(t, pixel.RGB{R: 5, G: 2}, img.Row(0)[5])

	_, err = BitmapFromRGB(nil, 0, 3)
	assert.ErrorIs(t, err, ErrSize)
}

func TestDrawingContext(t *testing.T) {
	var b Buffer
	_, err := b.AcquireDrawingContext()
	assert.ErrorIs(t, err, ErrEmpty)

	require.NoError(t, b.Create(4, 3))
	c, err := b.AcquireDrawingContext()
	require.NoError(t, err)
	again, err := b.AcquireDrawingContext()
	require.NoError(t, err)
	assert.Same(t, c, again)

	c.Set(1, 0, color.White)
	assert.Equal(t, white, b.Pixel(1, 2))
	assert.Equal(t, white, pixel.ToRGB(c.At(1, 0)))

	b.ReleaseDrawingContext()
	assert.True(t, c.Released())
	assert.Empty(t, c.Bounds())
	c.Set(0, 0, color.White)
	assert.Equal(t, pixel.RGB{}, b.Pixel(0, 2))
	assert.Equal(t, color.Transparent, c.At(1, 0))

	c, err = b.AcquireDrawingContext()
	require.NoError(t, err)
	require.NoError(t, b.Create(2, 2))
	assert.True(t, c.Released(), "creation must release the drawing context")
}

func TestClose(t *testing.T) {
	var b Buffer
	require.NoError(t, b.Create(8, 8))
	c, err := b.AcquireDrawingContext()
	require.NoError(t, err)

	require.NoError(t, b.Close())
	assert.True(t, b.Empty())
	assert.True(t, c.Released())
	assert.Zero(t, b.Width())
	assert.Zero(t, b.Stride())
	assert.Equal(t, pixel.RGB{}, b.Pixel(0, 0))
	b.SetPixel(0, 0, white)

	require.NoError(t, b.Create(2, 2), "a closed buffer can be created again")
}

func TestPixelOutOfRange(t *testing.T) {
	var b Buffer
	require.NoError(t, b.CreateFilled(5, 2, white))
	assert.Equal(t, pixel.RGB{}, b.Pixel(-1, 0))
	assert.Equal(t, pixel.RGB{}, b.Pixel(8, 0))
	assert.Equal(t, pixel.RGB{}, b.Pixel(0, 2))

	// Padding columns are addressable.
	b.SetPixel(7, 1, red)
	assert.Equal(t, red, b.Pixel(7, 1))
}
