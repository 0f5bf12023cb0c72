package screen

import (
	"errors"
	"fmt"
	"image"
)

// Present copies the buffer unscaled to s with its top-left corner at dp.
//
// Presenting releases the drawing context. If s cannot provide a rendering context the returned
// error wraps [ErrNoContext] and nothing has been written to s.
func (b *Buffer) Present(s Surface, dp image.Point) error {
	return b.present(s, func(c Context) error {
		return c.Copy(dp, b.img, b.Bounds())
	})
}

// PresentStretched scales the buffer to a w×h rectangle of s at dp. Scaling uses whatever
// filter the surface's context provides.
func (b *Buffer) PresentStretched(s Surface, dp image.Point, w, h int) error {
	dr := image.Rectangle{Min: dp, Max: dp.Add(image.Pt(w, h))}
	return b.present(s, func(c Context) error {
		return c.Scale(dr, b.img, b.Bounds())
	})
}

// PresentStretchedRect scales the buffer to fill dr of s.
func (b *Buffer) PresentStretchedRect(s Surface, dr image.Rectangle) error {
	return b.PresentStretched(s, dr.Min, dr.Dx(), dr.Dy())
}

func (b *Buffer) present(s Surface, blit func(Context) error) (err error) {
	if b.img == nil {
		return ErrEmpty
	}
	b.ReleaseDrawingContext()

	c, err := s.Begin()
	switch {
	case errors.Is(err, ErrNoContext):
		return err
	case err != nil:
		return fmt.Errorf("%w: %w", ErrNoContext, err)
	case c == nil:
		return ErrNoContext
	}
	defer func() {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}()

	Logger().Debug("screen: present", "width", b.width, "height", b.height)
	return blit(c)
}
