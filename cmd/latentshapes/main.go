package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"

	"latentshapes/internal/config"
	"latentshapes/internal/dataset"
	"latentshapes/internal/export"
	"latentshapes/internal/latentspace"
	"latentshapes/internal/trainer"
)

func main() {
	cfgPath := flag.String("config", "configs/train.yaml", "Path to YAML config")
	latentDim := flag.Int("latent-dim", 0, "Override latent dimensionality")
	epochs := flag.Int("epochs", 0, "Override number of training epochs")
	learningRate := flag.Float64("lr", 0, "Override Adam learning rate")
	seed := flag.Int64("seed", 0, "PRNG seed (0 seeds from the clock)")
	logEvery := flag.Int("log-every", 0, "Override epoch logging interval")
	gridSize := flag.Int("grid-size", 0, "Override latent grid resolution")
	noProgress := flag.Bool("no-progress", false, "Disable the progress bar")

	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		klog.Fatalf("failed to load config: %v", err)
	}

	seedSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})

	cfg.ApplyOverrides(config.Overrides{
		LatentDim:    *latentDim,
		Epochs:       *epochs,
		LearningRate: *learningRate,
		Seed:         *seed,
		SeedSet:      seedSet,
		LogEvery:     *logEvery,
		GridSize:     *gridSize,
	})

	if err := cfg.Validate(); err != nil {
		klog.Fatalf("invalid config: %v", err)
	}

	samples := dataset.Generate()
	klog.Infof("generated dataset: %d shapes, %dx%d px",
		len(samples), dataset.ImageSize, dataset.ImageSize)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runCfg := trainer.RunConfig{
		Samples:      samples,
		LatentDim:    cfg.LatentDim,
		Hidden:       cfg.Hidden,
		Epochs:       cfg.Epochs,
		LearningRate: cfg.LearningRate,
		Seed:         cfg.Seed,
		LogEvery:     cfg.LogEvery,
	}
	if !*noProgress {
		bar := progressbar.Default(int64(cfg.Epochs), "training")
		runCfg.OnEpoch = func(epoch int, loss float64) {
			_ = bar.Add(1)
		}
	}

	res, err := trainer.Run(ctx, runCfg)
	if err != nil {
		klog.Fatalf("training failed: %v", err)
	}

	for i, code := range res.Latents.Rows() {
		klog.Infof("shape %d (class %d): latent=%v", i, samples[i].Label, code)
	}

	if cfg.LatentDim == 2 {
		points, err := latentspace.Classify(res.Decoder, samples, latentspace.Grid{
			MinX: cfg.GridMin, MaxX: cfg.GridMax,
			MinY: cfg.GridMin, MaxY: cfg.GridMax,
			Size: cfg.GridSize,
		})
		if err != nil {
			klog.Fatalf("latent grid classification failed: %v", err)
		}
		if err := export.SavePoints(cfg.PointsPath, points); err != nil {
			klog.Fatalf("export points: %v", err)
		}
		klog.Infof("saved %d encoded points to %s", len(points), cfg.PointsPath)
	} else {
		klog.Warningf("latent_dim=%d: skipping 2-D grid export", cfg.LatentDim)
	}

	if err := export.SaveDecoder(cfg.ModelPath, res.Decoder.Snapshot()); err != nil {
		klog.Fatalf("export decoder: %v", err)
	}
	klog.Infof("decoder exported to %s", cfg.ModelPath)

	if err := export.SaveLossPlot(cfg.PlotPath, res.LossHistory); err != nil {
		klog.Fatalf("export loss plot: %v", err)
	}
	klog.Infof("loss history (%d epochs) plotted to %s", len(res.LossHistory), cfg.PlotPath)
}
