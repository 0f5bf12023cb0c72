package screen

import "github.com/BeatGlow/screen/pixel"

// smoothKernel is the 5×5 weight matrix of SmoothWeighted.
var smoothKernel = [5][5]int{
	{0, 1, 2, 1, 0},
	{1, 2, 3, 2, 1},
	{2, 3, 4, 3, 2},
	{1, 2, 3, 2, 1},
	{0, 1, 2, 1, 0},
}

type rgbSum struct {
	r, g, b int
}

func (s *rgbSum) add(c pixel.RGB, weight int) {
	s.r += weight * int(c.R)
	s.g += weight * int(c.G)
	s.b += weight * int(c.B)
}

func (s rgbSum) div(n int) pixel.RGB {
	return pixel.RGB{R: uint8(s.r / n), G: uint8(s.g / n), B: uint8(s.b / n)}
}

// Smooth blurs the buffer with its orthogonal neighbors: each pixel becomes the average of twice
// itself plus its right, left, lower and upper neighbors where present.
//
// The pass covers the padding columns as well. A left neighbor only counts from column 2 and an
// upper neighbor only from storage row 2, so column 0 never feeds column 1 and row 0 never feeds
// row 1.
func (b *Buffer) Smooth() {
	if b.img == nil {
		return
	}
	var (
		pix    = b.img.Pix
		tmp    = b.scratch
		stride = b.stride
		height = b.height
	)
	for row := 0; row < height; row++ {
		for x := 0; x < stride; x++ {
			i := row*stride + x

			var s rgbSum
			s.add(pix[i], 2)
			n := 2
			if x < stride-1 {
				s.add(pix[i+1], 1)
				n++
			}
			if x > 1 {
				s.add(pix[i-1], 1)
				n++
			}
			if row < height-1 {
				s.add(pix[i+stride], 1)
				n++
			}
			if row > 1 {
				s.add(pix[i-stride], 1)
				n++
			}
			tmp[i] = s.div(n)
		}
	}
	copy(pix, tmp)
	Logger().Debug("screen: smooth", "stride", stride, "height", height)
}

// SmoothWeighted blurs the buffer with a 5×5 weighted kernel and flips it vertically in the same
// pass: the result for storage row r is stored in row Height()-1-r.
//
// Neighbors on the outermost row and column (index 0) and beyond the buffer do not contribute;
// the remaining weights are renormalised. The pass covers the padding columns as well.
func (b *Buffer) SmoothWeighted() {
	if b.img == nil {
		return
	}
	var (
		pix    = b.img.Pix
		tmp    = b.scratch
		stride = b.stride
		height = b.height
	)
	for row := 0; row < height; row++ {
		dst := (height - 1 - row) * stride
		for x := 0; x < stride; x++ {
			var (
				s  rgbSum
				ic int
			)
			for j := -2; j <= 2; j++ {
				ny := row + j
				if ny <= 0 || ny >= height {
					continue
				}
				for i := -2; i <= 2; i++ {
					nx := x + i
					if nx <= 0 || nx >= stride {
						continue
					}
					if k := smoothKernel[j+2][i+2]; k != 0 {
						s.add(pix[ny*stride+nx], k)
						ic += k
					}
				}
			}
			if ic == 0 {
				// Single row buffer: nothing to average with.
				tmp[dst+x] = pix[row*stride+x]
				continue
			}
			tmp[dst+x] = s.div(ic)
		}
	}
	copy(pix, tmp)
	Logger().Debug("screen: smooth weighted", "stride", stride, "height", height)
}

// Quantize sets the two least significant bits of every channel of every pixel, padding
// included, reducing the effective color depth to 6 bits per channel.
func (b *Buffer) Quantize() {
	if b.img == nil {
		return
	}
	pix := b.img.Pix
	for i := range pix {
		pix[i] = pix[i].Quantize()
	}
}
