// Package report renders the pipeline's visual outputs: per-trial
// normalized-QdM time-series PNGs (gonum/plot) and a single HTML summary
// report with per-condition charts (go-echarts).
package report

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// TrialSeriesPNG saves a line plot of a normalized QdM series to path. The X
// axis is time in seconds at the given sample rate; NaN samples (occluded
// frames) are left as gaps.
func TrialSeriesPNG(path, title string, series []float64, sampleRateHz float64) error {
	if sampleRateHz <= 0 {
		return fmt.Errorf("plot %s: invalid sample rate %g", path, sampleRateHz)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "QdM / shoulder width"

	pts := make(plotter.XYs, 0, len(series))
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i+1) / sampleRateHz, Y: v})
	}
	if len(pts) == 0 {
		return fmt.Errorf("plot %s: no finite samples to plot", path)
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("plot %s: %w", path, err)
	}
	line.Width = vg.Points(1)
	p.Add(line)

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return nil
}
