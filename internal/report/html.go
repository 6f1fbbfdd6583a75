package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kinetic-data/motion.report/internal/aggregate"
	"github.com/kinetic-data/motion.report/internal/mocap"
	"github.com/kinetic-data/motion.report/internal/stats"
)

// WriteHTML renders the run summary as one self-contained HTML page: a bar
// chart per marker with the mean normalized QdM per condition, annotated with
// that marker's ANOVA outcome.
func WriteHTML(w io.Writer, rows []aggregate.Row, conditions []mocap.Condition, anova map[string]stats.ANOVAResult) error {
	if len(rows) == 0 {
		return fmt.Errorf("no summary rows to report")
	}
	if len(conditions) == 0 {
		return fmt.Errorf("no conditions to report")
	}

	// Group the per-subject cells by marker, then average per condition.
	byMarker := map[string]map[mocap.Condition][]float64{}
	for _, r := range rows {
		if byMarker[r.Marker] == nil {
			byMarker[r.Marker] = map[mocap.Condition][]float64{}
		}
		byMarker[r.Marker][r.Condition] = append(byMarker[r.Marker][r.Condition], r.QdMNorm)
	}
	markers := make([]string, 0, len(byMarker))
	for m := range byMarker {
		markers = append(markers, m)
	}
	sort.Strings(markers)

	page := components.NewPage()

	for _, marker := range markers {
		labels := make([]string, len(conditions))
		data := make([]opts.BarData, len(conditions))
		for i, cond := range conditions {
			labels[i] = string(cond)
			vals := byMarker[marker][cond]
			var sum float64
			for _, v := range vals {
				sum += v
			}
			mean := 0.0
			if len(vals) > 0 {
				mean = sum / float64(len(vals))
			}
			data[i] = opts.BarData{Value: mean}
		}

		subtitle := fmt.Sprintf("n=%d subjects", len(byMarker[marker][conditions[0]]))
		if res, ok := anova[marker]; ok {
			subtitle = fmt.Sprintf("%s, F(%d,%d)=%.3f, p=%.4f, partial eta^2=%.3f",
				subtitle, res.DF1, res.DF2, res.F, res.P, res.PartialEtaSq)
		}

		bar := charts.NewBar()
		bar.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{PageTitle: "Quantity of Motion by posture", Width: "900px", Height: "500px"}),
			charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Marker %s", marker), Subtitle: subtitle}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
			charts.WithYAxisOpts(opts.YAxis{Name: "mean QdM / shoulder width"}),
		)
		bar.SetXAxis(labels)
		bar.AddSeries("mean normalized QdM", data,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
		page.AddCharts(bar)
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}
