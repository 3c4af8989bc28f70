// Package export writes the training artifacts: the labeled latent grid
// and the decoder weights as JSON for the web consumer, and a loss-history
// chart for diagnostics.
package export

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"latentshapes/internal/latentspace"
	"latentshapes/internal/model"
)

// SavePoints writes the labeled grid as a JSON array of [x, y, label]
// triples, preserving grid order.
func SavePoints(path string, points []latentspace.Point) error {
	data, err := json.Marshal(points)
	if err != nil {
		return errors.Wrap(err, "marshal points")
	}
	return writeFile(path, data)
}

// SaveDecoder writes the decoder snapshot as indented JSON: per-layer
// dims, activation, weights and biases, enough to rebuild inference
// anywhere.
func SaveDecoder(path string, snap model.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal decoder")
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
