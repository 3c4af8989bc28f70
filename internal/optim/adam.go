package optim

import (
	"math"

	"github.com/pkg/errors"
)

// Default Adam hyperparameters.
const (
	DefaultBeta1 = 0.9
	DefaultBeta2 = 0.999
	DefaultEps   = 1e-8
)

// Adam applies adaptive moment estimation to a fixed group of parameter
// slices. The group shape (number of slices and their lengths) is fixed at
// construction; every Step must present the same shape.
type Adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64

	t int
	m [][]float64
	v [][]float64
}

// NewAdam constructs an optimizer sized for the given parameter group.
func NewAdam(lr float64, params [][]float64) *Adam {
	if lr <= 0 {
		lr = 0.001
	}
	m := make([][]float64, len(params))
	v := make([][]float64, len(params))
	for i, p := range params {
		m[i] = make([]float64, len(p))
		v[i] = make([]float64, len(p))
	}
	return &Adam{
		lr:    lr,
		beta1: DefaultBeta1,
		beta2: DefaultBeta2,
		eps:   DefaultEps,
		m:     m,
		v:     v,
	}
}

// Step applies one bias-corrected update in place. params and grads must
// match the shape the optimizer was constructed with.
func (a *Adam) Step(params, grads [][]float64) error {
	if len(params) != len(a.m) || len(grads) != len(a.m) {
		return errors.Errorf("optim: group has %d slices, want %d", len(params), len(a.m))
	}
	a.t++
	c1 := 1 - math.Pow(a.beta1, float64(a.t))
	c2 := 1 - math.Pow(a.beta2, float64(a.t))
	for i, p := range params {
		g := grads[i]
		if len(p) != len(a.m[i]) || len(g) != len(a.m[i]) {
			return errors.Errorf("optim: slice %d has %d params and %d grads, want %d",
				i, len(p), len(g), len(a.m[i]))
		}
		m, v := a.m[i], a.v[i]
		for j := range p {
			m[j] = a.beta1*m[j] + (1-a.beta1)*g[j]
			v[j] = a.beta2*v[j] + (1-a.beta2)*g[j]*g[j]
			mHat := m[j] / c1
			vHat := v[j] / c2
			p[j] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
	return nil
}

// Steps reports how many updates have been applied.
func (a *Adam) Steps() int {
	return a.t
}
