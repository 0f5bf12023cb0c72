package screen

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xdraw "golang.org/x/image/draw"

	"github.com/BeatGlow/screen/pixel"
)

type copyCall struct {
	dp image.Point
	sr image.Rectangle
}

type scaleCall struct {
	dr image.Rectangle
	sr image.Rectangle
}

// recordingSurface records the blits issued by a Buffer.
type recordingSurface struct {
	err    error
	copies []copyCall
	scales []scaleCall
	begun  int
	closed int
}

func (s *recordingSurface) Begin() (Context, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.begun++
	return (*recordingContext)(s), nil
}

type recordingContext recordingSurface

func (c *recordingContext) Copy(dp image.Point, _ image.Image, sr image.Rectangle) error {
	c.copies = append(c.copies, copyCall{dp, sr})
	return nil
}

func (c *recordingContext) Scale(dr image.Rectangle, _ image.Image, sr image.Rectangle) error {
	c.scales = append(c.scales, scaleCall{dr, sr})
	return nil
}

func (c *recordingContext) Close() error {
	c.closed++
	return nil
}

func redRGB(w, h int) []byte {
	data := make([]byte, 0, w*h*3)
	for i := 0; i < w*h; i++ {
		data = append(data, 0xff, 0x00, 0x00)
	}
	return data
}

func TestPresent(t *testing.T) {
	var b Buffer
	require.NoError(t, b.CreateRGB(redRGB(2, 2), 2, 2))

	s := new(recordingSurface)
	require.NoError(t, b.Present(s, image.Point{}))
	require.Len(t, s.copies, 1)
	assert.Equal(t, image.Point{}, s.copies[0].dp)
	assert.Equal(t, image.Rect(0, 0, 2, 2), s.copies[0].sr)
	assert.Equal(t, 1, s.closed)
}

func TestPresentStretched(t *testing.T) {
	var b Buffer
	require.NoError(t, b.Create(5, 3))

	s := new(recordingSurface)
	require.NoError(t, b.PresentStretched(s, image.Pt(10, 20), 50, 30))
	require.NoError(t, b.PresentStretchedRect(s, image.Rect(1, 2, 3, 4)))
	require.Len(t, s.scales, 2)
	assert.Equal(t, scaleCall{image.Rect(10, 20, 60, 50), image.Rect(0, 0, 5, 3)}, s.scales[0])
	assert.Equal(t, scaleCall{image.Rect(1, 2, 3, 4), image.Rect(0, 0, 5, 3)}, s.scales[1])
	assert.Equal(t, 2, s.closed)
}

func TestPresentNoContext(t *testing.T) {
	var b Buffer
	require.NoError(t, b.Create(2, 2))

	s := &recordingSurface{err: errors.New("out of device contexts")}
	err := b.Present(s, image.Point{})
	assert.ErrorIs(t, err, ErrNoContext)
	assert.ErrorIs(t, b.PresentStretched(s, image.Point{}, 4, 4), ErrNoContext)
	assert.Empty(t, s.copies)
	assert.Empty(t, s.scales)

	assert.ErrorIs(t, b.Present(NewImageSurface(nil), image.Point{}), ErrNoContext)
}

func TestPresentEmpty(t *testing.T) {
	var b Buffer
	s := new(recordingSurface)
	assert.ErrorIs(t, b.Present(s, image.Point{}), ErrEmpty)
	assert.ErrorIs(t, b.PresentStretched(s, image.Point{}, 1, 1), ErrEmpty)
	assert.Zero(t, s.begun)
}

func TestPresentReleasesDrawingContext(t *testing.T) {
	var b Buffer
	require.NoError(t, b.Create(2, 2))
	c, err := b.AcquireDrawingContext()
	require.NoError(t, err)

	require.NoError(t, b.Present(new(recordingSurface), image.Point{}))
	assert.True(t, c.Released())
}

func TestPresentImageSurface(t *testing.T) {
	// 2×2 source: red, green on top; blue, white below.
	data := []byte{
		0xff, 0, 0, 0, 0xff, 0,
		0, 0, 0xff, 0xff, 0xff, 0xff,
	}
	var b Buffer
	require.NoError(t, b.CreateRGB(data, 2, 2))

	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	require.NoError(t, b.Present(NewImageSurface(dst), image.Pt(1, 1)))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, dst.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{G: 0xff, A: 0xff}, dst.RGBAAt(2, 1))
	assert.Equal(t, color.RGBA{B: 0xff, A: 0xff}, dst.RGBAAt(1, 2))
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, dst.RGBAAt(2, 2))

	require.NoError(t, b.PresentStretched(NewImageSurface(dst), image.Point{}, 4, 4))
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, dst.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, dst.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{G: 0xff, A: 0xff}, dst.RGBAAt(3, 0))
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, dst.RGBAAt(3, 3))
}

func TestPresentToPixelImage(t *testing.T) {
	var b Buffer
	require.NoError(t, b.CreateFilled(3, 3, white))

	dst := pixel.NewCRGB16Image(4, 4)
	require.NoError(t, b.Present(NewImageSurface(dst), image.Point{}))
	assert.Equal(t, pixel.CRGB16{V: 0xffff}, dst.At(2, 2))
	assert.Equal(t, pixel.CRGB16{}, dst.At(3, 3))
}

func TestImageContextDirty(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	c := &ImageContext{Dst: image.NewRGBA(image.Rect(0, 0, 10, 10))}
	assert.True(t, c.Dirty.Empty())

	require.NoError(t, c.Copy(image.Pt(1, 1), src, src.Bounds()))
	assert.Equal(t, image.Rect(1, 1, 5, 5), c.Dirty)

	require.NoError(t, c.Copy(image.Pt(8, 8), src, src.Bounds()))
	assert.Equal(t, image.Rect(1, 1, 10, 10), c.Dirty, "dirty area is clipped to the destination")

	c = &ImageContext{Dst: image.NewRGBA(image.Rect(0, 0, 10, 10)), Interpolator: xdraw.ApproxBiLinear}
	require.NoError(t, c.Scale(image.Rect(-2, 3, 4, 6), src, src.Bounds()))
	assert.Equal(t, image.Rect(0, 3, 4, 6), c.Dirty)
	require.NoError(t, c.Close())
}
