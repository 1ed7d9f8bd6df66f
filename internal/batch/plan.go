package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/badno/letterbox/internal/images"
)

// Skip reasons reported in Plan.Skipped.
const (
	ReasonOutputDir   = "output directory"
	ReasonNotRegular  = "not a regular file"
	ReasonUnreadable  = "unreadable"
	ReasonUnsupported = "unsupported extension"
)

// Task is one qualifying input file and the output it will produce.
type Task struct {
	Index  int
	Name   string
	Source string
	Output string
}

// Skipped is an input directory entry that consumes no index.
type Skipped struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Plan is the full index assignment for a run, fixed before any work starts.
type Plan struct {
	InputDir  string
	OutputDir string
	Tasks     []Task
	Skipped   []Skipped
}

// OutputName returns the file name written for an index.
func OutputName(index int) string {
	return strconv.Itoa(index) + ".png"
}

// Scan lists inputDir (non-recursively), sorts entry names by byte order and
// assigns consecutive indices starting at baseIndex to qualifying files.
// Entries that are not regular files, have an unrecognized extension, or are
// the output directory itself are skipped without consuming an index.
func Scan(fsys FileSystem, inputDir, outputDir string, baseIndex int) (*Plan, error) {
	entries, err := fsys.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: list input directory: %w", images.ErrIO, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	plan := &Plan{
		InputDir:  inputDir,
		OutputDir: outputDir,
	}
	output := absPath(outputDir)
	index := baseIndex

	for _, name := range names {
		path := filepath.Join(inputDir, name)

		if absPath(path) == output {
			plan.Skipped = append(plan.Skipped, Skipped{Name: name, Reason: ReasonOutputDir})
			continue
		}

		// Stat follows symlinks, so a link to a regular file qualifies
		info, err := fsys.Stat(path)
		if err != nil {
			plan.Skipped = append(plan.Skipped, Skipped{Name: name, Reason: ReasonUnreadable})
			continue
		}
		if !info.Mode().IsRegular() {
			plan.Skipped = append(plan.Skipped, Skipped{Name: name, Reason: ReasonNotRegular})
			continue
		}
		if !images.IsSupported(name) {
			plan.Skipped = append(plan.Skipped, Skipped{Name: name, Reason: ReasonUnsupported})
			continue
		}

		plan.Tasks = append(plan.Tasks, Task{
			Index:  index,
			Name:   name,
			Source: path,
			Output: filepath.Join(outputDir, OutputName(index)),
		})
		index++
	}

	return plan, nil
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
