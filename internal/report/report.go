package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/badno/letterbox/internal/batch"
)

// Format specifies the report format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Entry is one row of a run report.
type Entry struct {
	Index        int    `json:"index"`
	Source       string `json:"source"`
	Output       string `json:"output"`
	SourceWidth  int    `json:"source_width,omitempty"`
	SourceHeight int    `json:"source_height,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	OffsetX      int    `json:"offset_x"`
	OffsetY      int    `json:"offset_y"`
	Bytes        int64  `json:"bytes"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
}

// Report describes a finished run.
type Report struct {
	RunID       string          `json:"run_id"`
	InputDir    string          `json:"input_dir"`
	OutputDir   string          `json:"output_dir"`
	Size        int             `json:"size"`
	GeneratedAt time.Time       `json:"generated_at"`
	Entries     []Entry         `json:"entries"`
	Skipped     []batch.Skipped `json:"skipped,omitempty"`
}

// FromSummary builds a report from a run summary.
func FromSummary(s *batch.Summary, size int) *Report {
	r := &Report{
		RunID:       s.RunID,
		InputDir:    s.Plan.InputDir,
		OutputDir:   s.Plan.OutputDir,
		Size:        size,
		GeneratedAt: time.Now().UTC(),
		Entries:     make([]Entry, 0, len(s.Results)),
		Skipped:     s.Plan.Skipped,
	}

	for _, tr := range s.Results {
		e := Entry{
			Index:  tr.Index,
			Source: tr.Name,
			Output: filepath.Base(tr.Output),
			Status: string(tr.Status),
		}
		if tr.Status == batch.StatusDone {
			e.SourceWidth = tr.Result.SourceWidth
			e.SourceHeight = tr.Result.SourceHeight
			e.Width = tr.Result.Width
			e.Height = tr.Result.Height
			e.OffsetX = tr.Result.Offset.X
			e.OffsetY = tr.Result.Offset.Y
			e.Bytes = tr.Result.Bytes
		}
		if tr.Err != nil {
			e.Error = tr.Err.Error()
		}
		r.Entries = append(r.Entries, e)
	}

	return r
}

// FormatFor picks the report format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported report format %q (use .csv or .json)", filepath.Ext(path))
	}
}

// Write stores the report at path in the format implied by its extension.
func Write(r *Report, path string) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	switch format {
	case FormatCSV:
		return writeCSV(r, path)
	default:
		return writeJSON(r, path)
	}
}
