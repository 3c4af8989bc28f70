package trainer

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"latentshapes/internal/dataset"
)

// syntheticSamples builds n small fixed images with distinct labels.
func syntheticSamples(n, size int, seed int64) []dataset.Sample {
	rng := rand.New(rand.NewSource(seed))
	samples := make([]dataset.Sample, n)
	for i := range samples {
		img := make([]float64, size)
		for j := range img {
			img[j] = rng.Float64()
		}
		samples[i] = dataset.Sample{Image: img, Label: i}
	}
	return samples
}

func TestRunEndToEnd(t *testing.T) {
	res, err := Run(context.Background(), RunConfig{
		Samples:      syntheticSamples(4, 16, 1),
		LatentDim:    2,
		Hidden:       []int{16},
		Epochs:       50,
		LearningRate: 0.01,
		Seed:         42,
		LogEvery:     25,
	})
	require.NoError(t, err)
	require.Len(t, res.LossHistory, 50)
	require.Less(t, res.LossHistory[49], res.LossHistory[0])
	require.Equal(t, 4, res.Latents.Len())
	require.Equal(t, 2, res.Latents.Dim())
	require.Equal(t, 16, res.Decoder.OutputDim())
}

func TestRunLossDecreasesOverLongRun(t *testing.T) {
	cfg := RunConfig{
		Samples:      syntheticSamples(4, 16, 2),
		LatentDim:    2,
		Hidden:       []int{16},
		LearningRate: 0.01,
		Seed:         7,
		LogEvery:     1000,
	}

	cfg.Epochs = 1
	short, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	cfg.Epochs = 100
	long, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	// Same seed, so epoch 1 of both runs starts from identical state.
	require.InDelta(t, short.LossHistory[0], long.LossHistory[0], 1e-12)
	require.Less(t, long.LossHistory[99], short.LossHistory[0])
}

func TestRunSeededReproducible(t *testing.T) {
	cfg := RunConfig{
		Samples:   syntheticSamples(3, 9, 3),
		LatentDim: 2,
		Hidden:    []int{8},
		Epochs:    10,
		Seed:      99,
	}
	a, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	b, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, a.LossHistory, b.LossHistory)
	require.Equal(t, a.Latents.Rows(), b.Latents.Rows())
}

func TestRunRejectsBadConfig(t *testing.T) {
	ctx := context.Background()

	_, err := Run(ctx, RunConfig{LatentDim: 2, Epochs: 10})
	require.Error(t, err)

	_, err = Run(ctx, RunConfig{Samples: syntheticSamples(2, 9, 1), Epochs: 10})
	require.Error(t, err)

	_, err = Run(ctx, RunConfig{Samples: syntheticSamples(2, 9, 1), LatentDim: 2})
	require.Error(t, err)

	mismatched := syntheticSamples(2, 9, 1)
	mismatched[1].Image = mismatched[1].Image[:4]
	_, err = Run(ctx, RunConfig{Samples: mismatched, LatentDim: 2, Epochs: 10})
	require.Error(t, err)

	_, err = Run(ctx, RunConfig{
		Samples:   syntheticSamples(2, 9, 1),
		LatentDim: 2,
		Hidden:    []int{16, 0},
		Epochs:    10,
	})
	require.ErrorContains(t, err, "hidden[1]")
}

func TestRunAbortsOnNonFiniteLoss(t *testing.T) {
	// A non-finite target poisons the epoch loss; continuing would corrupt
	// the latent table, so the run must stop with a descriptive error.
	for name, bad := range map[string]float64{
		"NaN":      math.NaN(),
		"infinity": math.Inf(1),
	} {
		samples := syntheticSamples(2, 9, 1)
		samples[0].Image[0] = bad
		res, err := Run(context.Background(), RunConfig{
			Samples:   samples,
			LatentDim: 2,
			Hidden:    []int{4},
			Epochs:    10,
			Seed:      1,
		})
		require.Nil(t, res)
		require.ErrorContains(t, err, name)
		require.ErrorContains(t, err, "training interrupted")
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, RunConfig{
		Samples:   syntheticSamples(2, 9, 1),
		LatentDim: 2,
		Epochs:    10,
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunOnEpochFiresEveryEpoch(t *testing.T) {
	var calls []int
	_, err := Run(context.Background(), RunConfig{
		Samples:   syntheticSamples(2, 9, 1),
		LatentDim: 2,
		Hidden:    []int{4},
		Epochs:    5,
		Seed:      1,
		OnEpoch:   func(epoch int, loss float64) { calls = append(calls, epoch) },
	})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3, 4, 5}, calls)
}
