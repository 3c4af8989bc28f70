package model

import "fmt"

// MSE returns the mean squared error between two equal-length vectors. It
// is exactly 0 for identical inputs and never negative.
func MSE(pred, target []float64) float64 {
	if len(pred) != len(target) || len(pred) == 0 {
		panic(fmt.Sprintf("model: mse over %d vs %d values", len(pred), len(target)))
	}
	sum := 0.0
	for i := range pred {
		d := pred[i] - target[i]
		sum += d * d
	}
	return sum / float64(len(pred))
}

// MSEGrad writes dMSE/dPred into dst: 2*(pred-target)/n.
func MSEGrad(pred, target, dst []float64) {
	if len(pred) != len(target) || len(dst) != len(pred) {
		panic(fmt.Sprintf("model: mse grad over %d/%d/%d values",
			len(pred), len(target), len(dst)))
	}
	n := float64(len(pred))
	for i := range pred {
		dst[i] = 2 * (pred[i] - target[i]) / n
	}
}
