package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/leadlab/lead-quality-engine/internal/adapters/sink"
	"github.com/leadlab/lead-quality-engine/internal/adapters/source"
	"github.com/leadlab/lead-quality-engine/internal/core"
	"github.com/leadlab/lead-quality-engine/internal/ports"
)

// CliRunner scores one lead file and prints a human-readable summary. The
// scored copy lands next to the input unless an output path is set.
type CliRunner struct {
	service      *core.LeadScoringService
	formatter    *core.OutputFormatter
	extraSinks   []ports.ResultSink
	outputPath   string
	scoredSuffix string
	verbose      bool
	logger       *zap.Logger
}

// NewCliRunner creates a one-shot CLI runner
func NewCliRunner(
	service *core.LeadScoringService,
	formatter *core.OutputFormatter,
	extraSinks []ports.ResultSink,
	outputPath string,
	scoredSuffix string,
	verbose bool,
	logger *zap.Logger,
) *CliRunner {
	if scoredSuffix == "" {
		scoredSuffix = "_scored"
	}
	return &CliRunner{
		service:      service,
		formatter:    formatter,
		extraSinks:   extraSinks,
		outputPath:   outputPath,
		scoredSuffix: scoredSuffix,
		verbose:      verbose,
		logger:       logger,
	}
}

// RunOnce scores the input file and displays the results
func (r *CliRunner) RunOnce(ctx context.Context, inputPath string) (*core.BatchResult, error) {
	src := source.NewCSVSource(inputPath, r.logger)
	leads, err := src.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", inputPath, err)
	}

	info := r.service.Model()
	fmt.Printf("\n=== Batch Summary ===\n")
	fmt.Printf("Input: %s\n", inputPath)
	fmt.Printf("Leads: %d\n", len(leads))
	fmt.Printf("Model: %s (%s)\n", info.Version, info.Algorithm)

	startTime := time.Now()
	result, err := r.service.ScoreBatch(ctx, leads)
	if err != nil {
		return nil, fmt.Errorf("failed to score %s: %w", inputPath, err)
	}
	duration := time.Since(startTime)

	outPath := r.outputPath
	if outPath == "" {
		ext := filepath.Ext(inputPath)
		outPath = strings.TrimSuffix(inputPath, ext) + r.scoredSuffix + ext
	}
	csvSink := sink.NewCSVSink(outPath, src.Header(), r.formatter, r.logger)
	if err := csvSink.Write(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to write scored copy: %w", err)
	}

	for _, s := range r.extraSinks {
		if err := s.Write(ctx, result); err != nil {
			r.logger.Error("Result sink failed", zap.Error(err))
		}
	}

	stats := result.Stats
	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Scored: %d\n", stats.Scored)
	fmt.Printf("Failed: %d\n", stats.Failed)
	fmt.Printf("Average score: %.1f\n", stats.AvgScore)
	for _, category := range []core.Category{core.CategoryHot, core.CategoryWarm, core.CategoryCold, core.CategoryLow} {
		fmt.Printf("%s: %d\n", category, stats.ByCategory[category])
	}
	fmt.Printf("Complete profiles: %d\n", stats.CompleteProfiles)
	fmt.Printf("Cache hits: %d\n", stats.CacheHits)
	fmt.Printf("Output: %s\n", outPath)
	fmt.Printf("Processing time: %v\n", duration)

	if r.verbose {
		fmt.Printf("\n=== Leads ===\n")
		for _, item := range result.Items {
			if item.Result == nil {
				fmt.Printf("%-30s FAILED: %v\n", item.Lead.ID(), item.Err)
				continue
			}
			fmt.Printf("%-30s %5.1f  %-4s  %s\n",
				item.Result.LeadID, item.Result.Score, item.Result.Category,
				r.formatter.Explain(item.Result))
		}
	}

	return result, nil
}

// Start is a no-op for the CLI runner
func (r *CliRunner) Start(ctx context.Context) error {
	return nil
}

// Stop is a no-op for the CLI runner
func (r *CliRunner) Stop() error {
	return nil
}
