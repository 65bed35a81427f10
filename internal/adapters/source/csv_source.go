package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/leadlab/lead-quality-engine/internal/core"
)

// CSVSource reads raw leads from a headered CSV file. Column names are
// kept exactly as the source spells them; alias resolution happens later
// in the core.
type CSVSource struct {
	path   string
	logger *zap.Logger
	header []string
}

// NewCSVSource creates a CSV lead source for one file
func NewCSVSource(path string, logger *zap.Logger) *CSVSource {
	return &CSVSource{path: path, logger: logger}
}

// Read loads every lead in input order. Rows shorter than the header
// leave the remaining fields absent; the validator treats those like any
// other missing data.
func (s *CSVSource) Read(ctx context.Context) ([]core.RawLead, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lead file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("lead file %s has no header row", s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	// Spreadsheet exports often carry a UTF-8 BOM
	header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	s.header = header

	var leads []core.RawLead
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read lead row: %w", err)
		}
		lead := make(core.RawLead, len(header))
		for i, value := range record {
			if i >= len(header) {
				break
			}
			lead[header[i]] = value
		}
		leads = append(leads, lead)
	}

	s.logger.Debug("Read lead batch from CSV",
		zap.String("path", s.path),
		zap.Int("leads", len(leads)))

	return leads, nil
}

// Header returns the source column order after a successful Read
func (s *CSVSource) Header() []string {
	return s.header
}
