package trainer

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"latentshapes/internal/dataset"
	"latentshapes/internal/metrics"
	"latentshapes/internal/model"
	"latentshapes/internal/optim"
)

// RunConfig captures the knobs required by the training loop.
type RunConfig struct {
	Samples      []dataset.Sample
	LatentDim    int
	Hidden       []int
	Epochs       int
	LearningRate float64
	Seed         int64
	LogEvery     int

	// OnEpoch, if set, fires after every epoch with its mean loss.
	OnEpoch func(epoch int, loss float64)
}

// Result holds the trained state of one run.
type Result struct {
	Decoder     *model.Decoder
	Latents     *model.LatentTable
	LossHistory []float64
}

// Run jointly optimizes one latent code per sample and the shared decoder,
// per-sample Adam steps in a fixed order. The latent codes are not
// predicted by an encoder; they are trained directly, which is what makes
// this an auto-decoder.
func Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if len(cfg.Samples) == 0 {
		return nil, errors.New("trainer: dataset is empty")
	}
	if cfg.LatentDim <= 0 {
		return nil, errors.Errorf("trainer: latent dim must be > 0 (got %d)", cfg.LatentDim)
	}
	if cfg.Epochs <= 0 {
		return nil, errors.Errorf("trainer: epochs must be > 0 (got %d)", cfg.Epochs)
	}
	for i, h := range cfg.Hidden {
		if h <= 0 {
			return nil, errors.Errorf("trainer: hidden[%d] must be > 0 (got %d)", i, h)
		}
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.001
	}
	if cfg.LogEvery <= 0 {
		cfg.LogEvery = 1000
	}
	imageSize := len(cfg.Samples[0].Image)
	if imageSize == 0 {
		return nil, errors.New("trainer: sample 0 has an empty image")
	}
	for i, s := range cfg.Samples {
		if len(s.Image) != imageSize {
			return nil, errors.Errorf("trainer: sample %d image has %d values, want %d",
				i, len(s.Image), imageSize)
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	dec := model.NewDecoder(cfg.LatentDim, cfg.Hidden, imageSize, rng)
	latents := model.NewLatentTable(len(cfg.Samples), cfg.LatentDim, cfg.LearningRate, rng)
	adam := optim.NewAdam(cfg.LearningRate, dec.Params())

	history := make([]float64, 0, cfg.Epochs)
	var window metrics.Window
	dOut := make([]float64, imageSize)

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()

		// The per-sample order is fixed: every step reads and writes the
		// shared decoder weights, so reordering changes the trajectory.
		epochLoss := 0.0
		for i := range cfg.Samples {
			z := latents.Get(i)
			out, tape := dec.Forward(z)
			loss := model.MSE(out, cfg.Samples[i].Image)
			epochLoss += loss

			model.MSEGrad(out, cfg.Samples[i].Image, dOut)
			grads, dz := dec.Backward(tape, dOut)

			if err := adam.Step(dec.Params(), grads.Slices()); err != nil {
				return nil, errors.WithMessagef(err, "epoch %d sample %d", epoch, i)
			}
			if err := latents.Update(i, dz); err != nil {
				return nil, errors.WithMessagef(err, "epoch %d sample %d", epoch, i)
			}
		}
		epochLoss /= float64(len(cfg.Samples))

		if math.IsNaN(epochLoss) {
			return nil, errors.Errorf("trainer: epoch %d loss is NaN, training interrupted", epoch)
		}
		if math.IsInf(epochLoss, 0) {
			return nil, errors.Errorf("trainer: epoch %d loss is infinity (%f), training interrupted",
				epoch, epochLoss)
		}

		history = append(history, epochLoss)
		window.Record(len(cfg.Samples), time.Since(start), epochLoss)

		if epoch == 1 || epoch%cfg.LogEvery == 0 {
			snap := window.Snapshot()
			klog.Infof("epoch=%d/%d loss=%.6f samples_per_sec=%.1f epoch_ms=%.3f",
				epoch, cfg.Epochs, epochLoss, snap.SamplesPerSec, snap.AvgEpochMS)
		}
		if cfg.OnEpoch != nil {
			cfg.OnEpoch(epoch, epochLoss)
		}
	}

	return &Result{Decoder: dec, Latents: latents, LossHistory: history}, nil
}
