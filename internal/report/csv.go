package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

var csvHeader = []string{
	"index", "source", "output",
	"source_width", "source_height", "width", "height",
	"offset_x", "offset_y", "bytes", "status", "error",
}

func writeCSV(r *Report, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, e := range r.Entries {
		row := []string{
			strconv.Itoa(e.Index),
			e.Source,
			e.Output,
			strconv.Itoa(e.SourceWidth),
			strconv.Itoa(e.SourceHeight),
			strconv.Itoa(e.Width),
			strconv.Itoa(e.Height),
			strconv.Itoa(e.OffsetX),
			strconv.Itoa(e.OffsetY),
			strconv.FormatInt(e.Bytes, 10),
			e.Status,
			e.Error,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return f.Close()
}
