// Package latentspace labels a regular grid of latent points by decoding
// each point and finding the nearest training image. The web visualization
// consumes the result as a flat JSON array of [x, y, label] triples.
package latentspace

import (
	"encoding/json"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"latentshapes/internal/dataset"
)

// Decoder is the slice of the trained model this package needs.
type Decoder interface {
	Decode(z []float64) []float64
}

// Grid describes the sampling lattice. Both bounds are inclusive.
type Grid struct {
	MinX, MaxX float64
	MinY, MaxY float64
	Size       int
}

// Point is one labeled grid sample. It marshals as the triple
// [x, y, label].
type Point struct {
	X     float64
	Y     float64
	Label int
}

// MarshalJSON emits the compact triple form the web consumer expects.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]interface{}{p.X, p.Y, p.Label})
}

// Classify decodes every grid point and assigns it the label of the
// reference image nearest under sum-of-squared differences, lowest index
// winning ties. Iteration is row-major, outer x then inner y, so output
// order is fully determined by the grid. Brute force on purpose: the grid
// and the reference set are both tiny.
func Classify(dec Decoder, refs []dataset.Sample, grid Grid) ([]Point, error) {
	if grid.Size < 1 {
		return nil, errors.Errorf("latentspace: grid size must be >= 1 (got %d)", grid.Size)
	}
	if len(refs) == 0 {
		return nil, errors.New("latentspace: no reference samples")
	}

	xs := linspace(grid.MinX, grid.MaxX, grid.Size)
	ys := linspace(grid.MinY, grid.MaxY, grid.Size)
	points := make([]Point, 0, grid.Size*grid.Size)

	for _, x := range xs {
		for _, y := range ys {
			img := dec.Decode([]float64{x, y})

			best := 0
			bestDist := floats.Distance(img, refs[0].Image, 2)
			for i := 1; i < len(refs); i++ {
				if d := floats.Distance(img, refs[i].Image, 2); d < bestDist {
					best = i
					bestDist = d
				}
			}
			points = append(points, Point{X: x, Y: y, Label: refs[best].Label})
		}
	}
	return points, nil
}

// linspace returns n values spanning [min, max] inclusive; n==1 yields
// just min.
func linspace(min, max float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = min
		return out
	}
	step := (max - min) / float64(n-1)
	for i := range out {
		out[i] = min + float64(i)*step
	}
	out[n-1] = max
	return out
}
