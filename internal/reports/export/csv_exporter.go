// Package export writes tabular report history in the formats the dashboard
// offers for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVExporter exports rows to CSV.
type CSVExporter struct {
	includeHeader bool
}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{includeHeader: true}
}

// Export writes the header and rows to w.
func (e *CSVExporter) Export(w io.Writer, columns []string, rows [][]string) error {
	cw := csv.NewWriter(w)

	if e.includeHeader {
		if err := cw.Write(columns); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
