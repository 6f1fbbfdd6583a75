// Command motion.report computes normalized Quantity-of-Motion (QdM) metrics
// from Vicon motion-capture exports and tests the effect of posture on them
// with repeated-measures statistics.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/kinetic-data/motion.report/internal/config"
)

var (
	mode       = flag.String("mode", config.ModeTest, "dataset to process: test or raw")
	configPath = flag.String("config", config.DefaultConfigPath, "path to pipeline config JSON")
)

func main() {
	flag.Parse()

	cfg := config.EmptyPipelineConfig()
	if _, err := os.Stat(*configPath); err == nil {
		loaded, err := config.LoadPipelineConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	} else if *configPath != config.DefaultConfigPath {
		// An explicitly requested config file must exist.
		log.Fatalf("config file %s: %v", *configPath, err)
	}

	dataDir, err := cfg.DataDir(*mode)
	if err != nil {
		log.Fatal(err)
	}

	if err := runPipeline(cfg, *mode, dataDir); err != nil {
		log.Fatalf("pipeline failed: %v", err)
	}
}
