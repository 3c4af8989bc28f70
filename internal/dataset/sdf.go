// Package dataset renders the training set: one signed-distance-field
// image per shape class, sigmoid-normalized into (0,1) and flattened.
package dataset

import "math"

// ImageSize is the side length of every rendered image.
const ImageSize = 28

// Steepness of the sigmoid applied to raw signed distances. Distances are
// measured in unit-square coordinates, so this controls edge sharpness.
const sigmoidScale = 10

// Shape class labels, in generation order.
const (
	LabelCircle = iota
	LabelSquare
	LabelDiamond
	LabelTriangle
	NumClasses
)

// Sample pairs a flattened, normalized image with its class label. Samples
// are immutable once generated.
type Sample struct {
	Image []float64
	Label int
}

type shape struct {
	label int
	sdf   func(x, y float64) float64
}

// Generate renders one sample per shape class. Output is deterministic:
// there is no randomness in the geometry or the normalization.
func Generate() []Sample {
	shapes := []shape{
		{LabelCircle, func(x, y float64) float64 { return circleSDF(x, y, 0.6) }},
		{LabelSquare, func(x, y float64) float64 { return boxSDF(x, y, 0.5, 0.5) }},
		{LabelDiamond, func(x, y float64) float64 { return diamondSDF(x, y, 0.65) }},
		{LabelTriangle, func(x, y float64) float64 { return triangleSDF(x, y, 0.6) }},
	}
	samples := make([]Sample, 0, len(shapes))
	for _, s := range shapes {
		samples = append(samples, Sample{Image: render(s.sdf), Label: s.label})
	}
	return samples
}

// render evaluates the signed distance on the pixel grid, mapping pixel
// centers onto [-1,1]^2, and squashes each value through a sigmoid so the
// interior (negative distance) is bright and the exterior dark.
func render(sdf func(x, y float64) float64) []float64 {
	img := make([]float64, ImageSize*ImageSize)
	for py := 0; py < ImageSize; py++ {
		y := (float64(py)+0.5)/ImageSize*2 - 1
		for px := 0; px < ImageSize; px++ {
			x := (float64(px)+0.5)/ImageSize*2 - 1
			d := sdf(x, y)
			img[py*ImageSize+px] = 1 / (1 + math.Exp(sigmoidScale*d))
		}
	}
	return img
}

func circleSDF(x, y, r float64) float64 {
	return math.Hypot(x, y) - r
}

func boxSDF(x, y, hw, hh float64) float64 {
	dx := math.Abs(x) - hw
	dy := math.Abs(y) - hh
	outer := math.Hypot(math.Max(dx, 0), math.Max(dy, 0))
	inner := math.Min(math.Max(dx, dy), 0)
	return outer + inner
}

func diamondSDF(x, y, r float64) float64 {
	// Rotated square: L1 ball, rescaled so the distance is Euclidean-ish.
	return (math.Abs(x) + math.Abs(y) - r) / math.Sqrt2
}

// triangleSDF is the signed distance to an equilateral triangle of
// circumradius-ish size r, pointing up.
func triangleSDF(x, y, r float64) float64 {
	k := math.Sqrt(3)
	// Flip so the triangle points up in image coordinates (y grows down).
	y = -y
	x = math.Abs(x) - r
	y = y + r/k
	if x+k*y > 0 {
		x, y = (x-k*y)/2, (-k*x-y)/2
	}
	x -= clamp(x, -2*r, 0)
	return -math.Hypot(x, y) * sign(y)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
