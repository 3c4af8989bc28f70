// Package model holds the two trainable halves of the auto-decoder: the
// per-sample latent code table and the shared feed-forward decoder.
package model

import "math"

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func relu(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}
