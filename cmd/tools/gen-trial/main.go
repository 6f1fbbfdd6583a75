// Command gen-trial generates synthetic Vicon trajectory CSVs for testing
// the pipeline. It writes one file per subject and condition, with wrist and
// head markers following a smooth oscillation whose amplitude grows with the
// condition, so a full run produces a detectable posture effect.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/kinetic-data/motion.report/internal/mocap"
)

var trackedMarkers = []string{"poignet_D", "poignet_G", "tete", "2epaule_G", "2epaule_D"}

func main() {
	output := flag.String("o", "data/test", "output directory")
	subjects := flag.Int("subjects", 5, "number of subjects")
	frames := flag.Int("n", 500, "frames per trial")
	rate := flag.Float64("rate", 100, "sampling frequency in Hz")
	prefix := flag.Bool("prefix", false, "prefix marker names with a subject label")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	if err := os.MkdirAll(*output, 0o755); err != nil {
		log.Fatalf("create output directory: %v", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	files := 0
	for s := 1; s <= *subjects; s++ {
		subject := fmt.Sprintf("P%02d", s)
		subjectGain := 0.8 + 0.4*rng.Float64()
		for ci, cond := range mocap.Conditions {
			name := fmt.Sprintf("%s_%s.csv", subject, cond)
			path := filepath.Join(*output, name)
			amplitude := subjectGain * 20 * float64(ci+1)
			if err := writeTrial(path, subject, *frames, *rate, amplitude, *prefix, rng); err != nil {
				log.Fatalf("write %s: %v", name, err)
			}
			files++
			log.Printf("%d/%d %s", files, *subjects*len(mocap.Conditions), name)
		}
	}
	log.Printf("✓ Created %d trial files in %s", files, *output)
}

// writeTrial emits one Vicon-style trajectories CSV. The wrists oscillate
// along X with the given amplitude plus white noise; the head follows at
// half amplitude and the shoulders jitter around a 380mm-wide resting pose.
func writeTrial(path, subject string, frames int, rate, amplitude float64, prefix bool, rng *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cols := len(trackedMarkers) * 3
	pad := strings.Repeat(",", cols+1)

	fmt.Fprintf(f, "Trajectories%s\n", pad)
	fmt.Fprintf(f, "%g%s\n", rate, pad)

	label := func(m string) string {
		if prefix {
			return subject + ":" + m
		}
		return m
	}
	var markerRow, axisRow, unitRow strings.Builder
	markerRow.WriteString(",")
	axisRow.WriteString("Frame,Sub Frame")
	unitRow.WriteString(",")
	for _, m := range trackedMarkers {
		markerRow.WriteString(fmt.Sprintf(",%s,,", label(m)))
		axisRow.WriteString(",X,Y,Z")
		unitRow.WriteString(",mm,mm,mm")
	}
	fmt.Fprintln(f, markerRow.String())
	fmt.Fprintln(f, axisRow.String())
	fmt.Fprintln(f, unitRow.String())

	rest := map[string][3]float64{
		"poignet_D": {250, 300, 900},
		"poignet_G": {-250, 300, 900},
		"tete":      {0, 0, 1700},
		"2epaule_G": {-190, 0, 1500},
		"2epaule_D": {190, 0, 1500},
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / rate
		osc := amplitude * math.Sin(2*math.Pi*0.5*t)
		fmt.Fprintf(f, "%d,0", i+1)
		for _, m := range trackedMarkers {
			p := rest[m]
			gain := 0.0
			switch m {
			case "poignet_D", "poignet_G":
				gain = 1
			case "tete":
				gain = 0.5
			}
			x := p[0] + gain*osc + rng.NormFloat64()
			y := p[1] + rng.NormFloat64()
			z := p[2] + rng.NormFloat64()
			fmt.Fprintf(f, ",%.3f,%.3f,%.3f", x, y, z)
		}
		fmt.Fprintln(f)
	}
	return nil
}
