package export

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SaveLossPlot renders the per-epoch loss history as a line chart. The
// format follows the file extension (.png, .svg, .pdf).
func SaveLossPlot(path string, history []float64) error {
	if len(history) == 0 {
		return errors.New("export: empty loss history")
	}

	pts := make(plotter.XYs, len(history))
	for i, loss := range history {
		pts[i].X = float64(i + 1)
		pts[i].Y = loss
	}

	p := plot.New()
	p.Title.Text = "Training loss"
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = "mean squared error"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "build loss line")
	}
	p.Add(line)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}
