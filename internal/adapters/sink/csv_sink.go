package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/leadlab/lead-quality-engine/internal/core"
)

// CSVSink writes a scored copy of a lead batch: every original column in
// source order, then the scoring columns. Failed leads keep their row
// with the scoring cells left empty, so output rows always align with
// input rows.
type CSVSink struct {
	path      string
	header    []string
	formatter *core.OutputFormatter
	logger    *zap.Logger
}

// NewCSVSink creates a scored-CSV sink for one output file
func NewCSVSink(path string, header []string, formatter *core.OutputFormatter, logger *zap.Logger) *CSVSink {
	return &CSVSink{path: path, header: header, formatter: formatter, logger: logger}
}

// Write delivers the batch result as a scored CSV file
func (s *CSVSink) Write(ctx context.Context, result *core.BatchResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	columns := make([]string, 0, len(s.header)+3)
	columns = append(columns, s.header...)
	columns = append(columns, core.AddedColumns(s.header)...)

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, item := range result.Items {
		record := core.ExportRecord(item.Lead)
		if item.Result != nil {
			record = s.formatter.Format(item.Lead, item.Result)
		}
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = record[col]
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write scored row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush output file: %w", err)
	}

	s.logger.Info("Wrote scored leads",
		zap.String("path", s.path),
		zap.Int("rows", len(result.Items)))

	return nil
}
