package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config captures the runtime knobs for a training run.
type Config struct {
	LatentDim    int     `yaml:"latent_dim"`
	Hidden       []int   `yaml:"hidden"`
	Epochs       int     `yaml:"epochs"`
	LearningRate float64 `yaml:"learning_rate"`
	Seed         int64   `yaml:"seed"`
	LogEvery     int     `yaml:"log_every"`

	GridSize int     `yaml:"grid_size"`
	GridMin  float64 `yaml:"grid_min"`
	GridMax  float64 `yaml:"grid_max"`

	PointsPath string `yaml:"points_path"`
	ModelPath  string `yaml:"model_path"`
	PlotPath   string `yaml:"plot_path"`
}

// Overrides captures CLI supplied values. Seed is applied only when
// SeedSet is true, so an explicit -seed 0 can revert a config-pinned seed
// back to clock seeding.
type Overrides struct {
	LatentDim    int
	Epochs       int
	LearningRate float64
	Seed         int64
	SeedSet      bool
	LogEvery     int
	GridSize     int
}

// Load reads and validates a Config from YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyOverrides updates cfg using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.LatentDim > 0 {
		c.LatentDim = o.LatentDim
	}
	if o.Epochs > 0 {
		c.Epochs = o.Epochs
	}
	if o.LearningRate > 0 {
		c.LearningRate = o.LearningRate
	}
	if o.SeedSet {
		c.Seed = o.Seed
	}
	if o.LogEvery > 0 {
		c.LogEvery = o.LogEvery
	}
	if o.GridSize > 0 {
		c.GridSize = o.GridSize
	}
}

// Validate verifies the config is runnable and fills defaults.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.LatentDim <= 0 {
		return errors.Errorf("latent_dim must be > 0 (got %d)", c.LatentDim)
	}
	if c.Epochs <= 0 {
		return errors.Errorf("epochs must be > 0 (got %d)", c.Epochs)
	}
	if len(c.Hidden) == 0 {
		return errors.New("hidden must list at least one layer width")
	}
	for i, h := range c.Hidden {
		if h <= 0 {
			return errors.Errorf("hidden[%d] must be > 0 (got %d)", i, h)
		}
	}
	if c.GridSize <= 0 {
		return errors.Errorf("grid_size must be > 0 (got %d)", c.GridSize)
	}
	if c.GridMin >= c.GridMax {
		return errors.Errorf("grid bounds must satisfy min < max (got [%g, %g])",
			c.GridMin, c.GridMax)
	}
	if c.LearningRate <= 0 {
		c.LearningRate = 0.001
	}
	if c.LogEvery <= 0 {
		c.LogEvery = 1000
	}
	if c.PointsPath == "" {
		c.PointsPath = "out/encoded.json"
	}
	if c.ModelPath == "" {
		c.ModelPath = "out/decoder.json"
	}
	if c.PlotPath == "" {
		c.PlotPath = "out/loss.png"
	}
	return nil
}
