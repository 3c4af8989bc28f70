package export

import (
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"latentshapes/internal/latentspace"
	"latentshapes/internal/model"
)

func TestSavePointsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "encoded.json")
	points := []latentspace.Point{
		{X: -3, Y: -3, Label: 0},
		{X: -3, Y: 3, Label: 2},
		{X: 3, Y: 3, Label: 1},
	}
	require.NoError(t, SavePoints(path, points))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var triples [][3]float64
	require.NoError(t, json.Unmarshal(data, &triples))
	require.Len(t, triples, 3)
	require.Equal(t, [3]float64{-3, -3, 0}, triples[0])
	require.Equal(t, [3]float64{-3, 3, 2}, triples[1])
	require.Equal(t, [3]float64{3, 3, 1}, triples[2])
}

func TestSaveDecoderRoundTrip(t *testing.T) {
	dec := model.NewDecoder(2, []int{4}, 9, rand.New(rand.NewSource(3)))
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, SaveDecoder(path, dec.Snapshot()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var snap model.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	require.Equal(t, dec.Snapshot(), snap)
}

func TestSaveLossPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plots", "loss.png")
	history := []float64{0.3, 0.2, 0.15, 0.12, 0.11}
	require.NoError(t, SaveLossPlot(path, history))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestSaveLossPlotRejectsEmptyHistory(t *testing.T) {
	require.Error(t, SaveLossPlot(filepath.Join(t.TempDir(), "loss.png"), nil))
}
