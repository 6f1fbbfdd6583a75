package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kinetic-data/motion.report/internal/aggregate"
	"github.com/kinetic-data/motion.report/internal/config"
	"github.com/kinetic-data/motion.report/internal/mocap"
	"github.com/kinetic-data/motion.report/internal/monitoring"
	"github.com/kinetic-data/motion.report/internal/report"
	"github.com/kinetic-data/motion.report/internal/results"
	"github.com/kinetic-data/motion.report/internal/stats"
	"github.com/kinetic-data/motion.report/internal/units"
	"github.com/kinetic-data/motion.report/internal/vicon"
)

// runPipeline executes one full pass: load every trial CSV under dataDir,
// compute normalized QdM per tracked marker, aggregate into summary rows,
// run the repeated-measures statistics per marker and write all outputs
// under the results directory. Trials are processed strictly sequentially;
// the first error aborts the run with trial context attached.
func runPipeline(cfg *config.PipelineConfig, mode, dataDir string) error {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return fmt.Errorf("failed to read dataset directory: %w", err)
	}

	resultsDir := cfg.GetResultsDir()
	plotsDir := filepath.Join(resultsDir, "plots")
	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}
	if cfg.GetWritePlots() {
		if err := os.MkdirAll(plotsDir, 0o755); err != nil {
			return fmt.Errorf("failed to create plots directory: %w", err)
		}
	}

	markers := cfg.GetMarkers()

	var trialResults []aggregate.TrialResult
	trials := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		subject, cond, err := vicon.ParseTrialFilename(entry.Name())
		if err != nil {
			monitoring.Logf("skipping %s: %v", entry.Name(), err)
			continue
		}
		if cfg.IsExcluded(subject) {
			monitoring.Logf("excluding subject %s (%s) per configuration", subject, entry.Name())
			continue
		}

		path := filepath.Join(dataDir, entry.Name())
		perMarker, err := processTrial(cfg, path, subject, cond)
		if err != nil {
			return fmt.Errorf("trial %s/%s (%s): %w", subject, cond, entry.Name(), err)
		}
		trialResults = append(trialResults, perMarker...)
		trials++
	}
	if trials == 0 {
		return fmt.Errorf("no trial files found in %s", dataDir)
	}
	monitoring.Logf("processed %d trials (%d markers each)", trials, len(markers))

	rows, err := aggregate.Aggregate(trialResults, cfg.GetConditions(), cfg.GetSummaryStat())
	if err != nil {
		return err
	}

	csvPath := filepath.Join(resultsDir, "qdm_summary.csv")
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", csvPath, err)
	}
	if err := aggregate.WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", csvPath, err)
	}
	monitoring.Logf("wrote %d summary rows to %s", len(rows), csvPath)

	anova, err := runStatistics(rows, cfg.GetConditions(), markers)
	if err != nil {
		return err
	}

	db, err := results.Open(filepath.Join(resultsDir, "results.db"))
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.CreateRun(mode, dataDir)
	if err != nil {
		return err
	}
	if err := db.InsertSummaries(run.ID, rows); err != nil {
		return err
	}
	for marker, res := range anova {
		r := res
		if err := db.InsertANOVA(run.ID, marker, &r); err != nil {
			return err
		}
	}
	monitoring.Logf("recorded run %s in %s", run.ID, filepath.Join(resultsDir, "results.db"))

	htmlPath := filepath.Join(resultsDir, "report.html")
	hf, err := os.Create(htmlPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", htmlPath, err)
	}
	if err := report.WriteHTML(hf, rows, cfg.GetConditions(), anova); err != nil {
		hf.Close()
		return err
	}
	if err := hf.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", htmlPath, err)
	}
	monitoring.Logf("wrote report to %s", htmlPath)

	return nil
}

// processTrial loads one trial file and computes the normalized QdM series
// for every tracked marker. It also writes the per-trial plots when enabled.
func processTrial(cfg *config.PipelineConfig, path, subject string, cond mocap.Condition) ([]aggregate.TrialResult, error) {
	export, err := vicon.ReadTrajectories(path)
	if err != nil {
		return nil, err
	}
	if rate := cfg.GetSampleRateHz(); rate > 0 {
		export.SampleRateHz = rate
	}

	markers := cfg.GetMarkers()
	leftShoulder := cfg.GetLeftShoulder()
	rightShoulder := cfg.GetRightShoulder()

	wanted := append(append([]string{}, markers...), leftShoulder, rightShoulder)
	trial, err := export.Trial(subject, cond, wanted)
	if err != nil {
		return nil, err
	}

	width, err := trial.ShoulderWidth(leftShoulder, rightShoulder)
	if err != nil {
		return nil, err
	}
	monitoring.Logf("%s/%s: %d frames (%v at %gHz), shoulder width %.1fmm",
		subject, cond, trial.NFrames(),
		units.FramesToDuration(trial.NFrames(), trial.SampleRateHz),
		trial.SampleRateHz, width)

	out := make([]aggregate.TrialResult, 0, len(markers))
	for _, marker := range markers {
		raw, err := trial.QdM(marker)
		if err != nil {
			return nil, err
		}
		norm, err := mocap.Normalize(raw, width)
		if err != nil {
			return nil, err
		}
		out = append(out, aggregate.TrialResult{
			Subject:   subject,
			Condition: cond,
			Marker:    marker,
			Series:    norm,
		})

		if cfg.GetWritePlots() {
			plotPath := filepath.Join(cfg.GetResultsDir(), "plots",
				fmt.Sprintf("%s_%s_%s.png", subject, cond, marker))
			title := fmt.Sprintf("%s %s %s", subject, cond, marker)
			if err := report.TrialSeriesPNG(plotPath, title, norm, trial.SampleRateHz); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// runStatistics runs the repeated-measures ANOVA and post-hoc tests for each
// marker over the aggregated rows, logging the outcomes.
func runStatistics(rows []aggregate.Row, conditions []mocap.Condition, markers []string) (map[string]stats.ANOVAResult, error) {
	values := map[string]map[string]map[mocap.Condition]float64{} // marker -> subject -> condition
	subjectSet := map[string]bool{}
	for _, r := range rows {
		if values[r.Marker] == nil {
			values[r.Marker] = map[string]map[mocap.Condition]float64{}
		}
		if values[r.Marker][r.Subject] == nil {
			values[r.Marker][r.Subject] = map[mocap.Condition]float64{}
		}
		values[r.Marker][r.Subject][r.Condition] = r.QdMNorm
		subjectSet[r.Subject] = true
	}
	subjects := make([]string, 0, len(subjectSet))
	for s := range subjectSet {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	out := map[string]stats.ANOVAResult{}
	for _, marker := range markers {
		perSubject := values[marker]
		table, err := stats.WideTable(subjects, conditions, func(subject string, cond mocap.Condition) (float64, bool) {
			v, ok := perSubject[subject][cond]
			return v, ok
		})
		if err != nil {
			return nil, fmt.Errorf("marker %s: %w", marker, err)
		}

		res, err := stats.RMANOVA(table)
		if err != nil {
			return nil, fmt.Errorf("marker %s: %w", marker, err)
		}
		out[marker] = *res
		monitoring.Logf("marker %s: F(%d,%d)=%.3f p=%.4f partial eta^2=%.3f",
			marker, res.DF1, res.DF2, res.F, res.P, res.PartialEtaSq)

		comps, err := stats.PostHoc(table)
		if err != nil {
			return nil, fmt.Errorf("marker %s post-hoc: %w", marker, err)
		}
		for _, c := range comps {
			monitoring.Logf("marker %s: %s vs %s t(%d)=%.3f p=%.4f p_holm=%.4f dz=%.3f",
				marker, c.A, c.B, c.DF, c.T, c.P, c.PHolm, c.CohenDz)
		}
	}
	return out, nil
}
