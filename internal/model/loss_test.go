package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMSEIdenticalIsZero(t *testing.T) {
	v := []float64{0.1, 0.5, 0.9, 0.0}
	require.Zero(t, MSE(v, v))
}

func TestMSEKnownValue(t *testing.T) {
	pred := []float64{1, 2}
	target := []float64{0, 0}
	require.InDelta(t, 2.5, MSE(pred, target), 1e-12)
}

func TestMSENonNegative(t *testing.T) {
	pred := []float64{-3, 0.5, 7}
	target := []float64{2, -1, -4}
	require.GreaterOrEqual(t, MSE(pred, target), 0.0)
}

func TestMSEMismatchPanics(t *testing.T) {
	require.Panics(t, func() { MSE([]float64{1}, []float64{1, 2}) })
	require.Panics(t, func() { MSE(nil, nil) })
}

func TestMSEGrad(t *testing.T) {
	pred := []float64{1, 0}
	target := []float64{0, 0}
	dst := make([]float64, 2)
	MSEGrad(pred, target, dst)
	require.Equal(t, []float64{1, 0}, dst)
}
