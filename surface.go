package screen

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/BeatGlow/screen/draw"
)

// Surface is a drawing target that a Buffer can be presented to.
type Surface interface {
	// Begin obtains a temporary rendering context compatible with the surface. The caller
	// must Close the context when done.
	Begin() (Context, error)
}

// Context is a temporary rendering context obtained from a Surface.
type Context interface {
	// Copy copies the sr rectangle of src unscaled to dp.
	Copy(dp image.Point, src image.Image, sr image.Rectangle) error

	// Scale copies the sr rectangle of src stretched to fill dr.
	Scale(dr image.Rectangle, src image.Image, sr image.Rectangle) error

	// Close ends the context. Surfaces that buffer output flush it here.
	Close() error
}

// ImageSurface is a Surface backed by an in-memory image.
type ImageSurface struct {
	// Dst receives presented pixels.
	Dst draw.Image

	// Interpolator used for stretched presentation, nil selects nearest neighbor.
	Interpolator xdraw.Interpolator
}

// NewImageSurface returns a surface drawing into dst.
func NewImageSurface(dst draw.Image) *ImageSurface {
	return &ImageSurface{Dst: dst}
}

func (s *ImageSurface) Begin() (Context, error) {
	if s == nil || s.Dst == nil {
		return nil, ErrNoContext
	}
	return &ImageContext{
		Dst:          s.Dst,
		Interpolator: s.Interpolator,
	}, nil
}

// ImageContext is a Context drawing into Dst. It records the area it has written, so surfaces
// that mirror an in-memory image to hardware can flush only what changed.
type ImageContext struct {
	Dst          draw.Image
	Interpolator xdraw.Interpolator

	// Dirty is the union of all rectangles written so far, clipped to Dst.
	Dirty image.Rectangle
}

func (c *ImageContext) Copy(dp image.Point, src image.Image, sr image.Rectangle) error {
	xdraw.Copy(c.Dst, dp, src, sr, xdraw.Src, nil)
	c.mark(image.Rectangle{Min: dp, Max: dp.Add(sr.Size())})
	return nil
}

func (c *ImageContext) Scale(dr image.Rectangle, src image.Image, sr image.Rectangle) error {
	interp := c.Interpolator
	if interp == nil {
		interp = xdraw.NearestNeighbor
	}
	interp.Scale(c.Dst, dr, src, sr, xdraw.Src, nil)
	c.mark(dr)
	return nil
}

func (c *ImageContext) Close() error {
	return nil
}

func (c *ImageContext) mark(r image.Rectangle) {
	if r = r.Intersect(c.Dst.Bounds()); !r.Empty() {
		c.Dirty = c.Dirty.Union(r)
	}
}

// Interface checks.
var (
	_ Surface = (*ImageSurface)(nil)
	_ Context = (*ImageContext)(nil)
)
