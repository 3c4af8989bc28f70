package model

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"

	"latentshapes/internal/optim"
)

// LatentTable holds one optimizable code vector per training sample. Row i
// is permanently paired with sample i; the trainer never permutes rows.
// Each row carries its own Adam state so updating one row leaves every
// other row bit-identical.
type LatentTable struct {
	dim  int
	rows [][]float64
	opts []*optim.Adam
}

// NewLatentTable draws n codes of the given dimensionality i.i.d. from a
// standard normal using the seeded PRNG.
func NewLatentTable(n, dim int, lr float64, rng *rand.Rand) *LatentTable {
	if n <= 0 || dim <= 0 {
		panic(fmt.Sprintf("model: invalid latent table %dx%d", n, dim))
	}
	t := &LatentTable{
		dim:  dim,
		rows: make([][]float64, n),
		opts: make([]*optim.Adam, n),
	}
	for i := range t.rows {
		row := make([]float64, dim)
		for j := range row {
			row[j] = rng.NormFloat64()
		}
		t.rows[i] = row
		t.opts[i] = optim.NewAdam(lr, [][]float64{row})
	}
	return t
}

// Len reports the number of rows.
func (t *LatentTable) Len() int { return len(t.rows) }

// Dim reports the latent dimensionality.
func (t *LatentTable) Dim() int { return t.dim }

// Get returns the live code for a sample index. An out-of-range index is a
// programming error and panics.
func (t *LatentTable) Get(i int) []float64 {
	t.check(i)
	return t.rows[i]
}

// Update applies one Adam step to exactly row i using the given gradient.
func (t *LatentTable) Update(i int, grad []float64) error {
	t.check(i)
	if len(grad) != t.dim {
		return errors.Errorf("model: latent gradient has %d dims, want %d", len(grad), t.dim)
	}
	return t.opts[i].Step([][]float64{t.rows[i]}, [][]float64{grad})
}

// Rows returns a deep copy of the table for reporting and export.
func (t *LatentTable) Rows() [][]float64 {
	out := make([][]float64, len(t.rows))
	for i, row := range t.rows {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

func (t *LatentTable) check(i int) {
	if i < 0 || i >= len(t.rows) {
		panic(fmt.Sprintf("model: latent index %d out of range [0,%d)", i, len(t.rows)))
	}
}
