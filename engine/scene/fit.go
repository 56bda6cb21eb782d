package scene

import "github.com/chewxy/math32"

// Fit normalizes a scene into a box whose largest side is 1, centered on the
// x and z axes and resting on y = 0.
type Fit struct {
	// Scale is 1 / the largest side of the bounds, or 1 when the bounds are empty or flat.
	Scale float32
	// Offset is applied before Scale: (-cx, -cy + sy/2, -cz).
	Offset [3]float32
	Size   [3]float32
	Center [3]float32
}

// NewFit derives the normalizing fit of b.
func NewFit(b BoundingBox) Fit {
	size := b.Size()
	center := b.Center()

	maxSize := math32.Max(size[0], math32.Max(size[1], size[2]))
	scale := float32(1)
	if maxSize > 0 && !math32.IsInf(maxSize, 0) {
		scale = 1 / maxSize
	}

	return Fit{
		Scale:  scale,
		Offset: [3]float32{-center[0], -center[1] + size[1]/2, -center[2]},
		Size:   size,
		Center: center,
	}
}

// Matrix returns the column-major matrix Scale × Translate(Offset).
func (f Fit) Matrix() [16]float32 {
	s := f.Scale
	return [16]float32{
		s, 0, 0, 0,
		0, s, 0, 0,
		0, 0, s, 0,
		s * f.Offset[0], s * f.Offset[1], s * f.Offset[2], 1,
	}
}
