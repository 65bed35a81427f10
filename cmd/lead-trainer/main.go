package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/leadlab/lead-quality-engine/internal/artifact"
	"github.com/leadlab/lead-quality-engine/internal/config"
	"github.com/leadlab/lead-quality-engine/internal/corpus"
	"github.com/leadlab/lead-quality-engine/internal/factory"
	"github.com/leadlab/lead-quality-engine/internal/logging"
)

var (
	// Training flags
	backend  = flag.String("backend", "forest", "Classifier backend (forest, linear)")
	outDir   = flag.String("out", "./models", "Artifact output directory")
	samples  = flag.Int("samples", 1000, "Synthetic corpus size")
	seed     = flag.Int64("seed", 42, "Corpus and training seed")
	trees    = flag.Int("trees", 50, "Forest size (forest backend only)")
	maxDepth = flag.Int("max-depth", 10, "Tree depth limit (forest backend only)")

	// Demo data flags
	sampleCSV  = flag.String("sample-csv", "", "Also write a demo lead CSV to this path")
	sampleRows = flag.Int("sample-rows", 100, "Rows for the demo lead CSV")

	// Logging flags
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *sampleCSV != "" {
		if err := writeSampleCSV(*sampleCSV, *sampleRows, *seed); err != nil {
			logger.Fatal("Failed to write demo CSV", zap.Error(err))
		}
		logger.Info("Wrote demo lead CSV",
			zap.String("path", *sampleCSV),
			zap.Int("rows", *sampleRows))
	}

	a, err := factory.TrainArtifact(config.ModelConfig{
		Backend:      *backend,
		TrainSamples: *samples,
		TrainSeed:    *seed,
		Trees:        *trees,
		MaxDepth:     *maxDepth,
	})
	if err != nil {
		logger.Fatal("Training failed", zap.Error(err))
	}

	store, err := artifact.NewStore(*outDir, logger)
	if err != nil {
		logger.Fatal("Failed to open artifact store", zap.Error(err))
	}
	path, err := store.Save(a)
	if err != nil {
		logger.Fatal("Failed to save artifact", zap.Error(err))
	}

	fmt.Printf("\n=== Trained Model ===\n")
	fmt.Printf("Version: %s\n", a.Version)
	fmt.Printf("Backend: %s\n", a.Algorithm)
	fmt.Printf("Features: %v\n", a.FeatureNames)
	fmt.Printf("Samples: %d (%d positive)\n", a.Training.Samples, a.Training.Positives)
	fmt.Printf("Training accuracy: %.3f\n", a.Training.Accuracy)
	fmt.Printf("Artifact: %s\n", path)
}

// writeSampleCSV generates a deterministic demo export for trying the
// scorer end to end.
func writeSampleCSV(path string, rows int, seed int64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	header := corpus.SampleHeader()
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, lead := range corpus.SampleLeads(rows, seed) {
		row := make([]string, len(header))
		for i, col := range header {
			row[i] = lead[col]
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
