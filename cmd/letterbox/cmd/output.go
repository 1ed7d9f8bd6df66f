package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/badno/letterbox/internal/batch"
	"github.com/badno/letterbox/internal/images"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
)

var (
	header  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen)
)

func printHeader(title string) {
	header.Println("\n  " + title)
	fmt.Println("  " + strings.Repeat("─", 40))
	fmt.Println()
}

func newTable(w io.Writer, columns ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(columns)
	table.SetBorder(false)

	colors := make([]tablewriter.Colors, len(columns))
	for i := range colors {
		colors[i] = tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor}
	}
	table.SetHeaderColor(colors...)
	return table
}

// progressObserver drives a progress bar from batch callbacks.
type progressObserver struct {
	quiet bool
	bar   *progressbar.ProgressBar
}

func (o *progressObserver) Planned(plan *batch.Plan) {
	if o.quiet || len(plan.Tasks) == 0 {
		return
	}

	color.Yellow("  Found %d images to convert (%d entries skipped)\n\n", len(plan.Tasks), len(plan.Skipped))
	o.bar = progressbar.NewOptions(len(plan.Tasks),
		progressbar.OptionSetDescription("  Converting images"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.GreenString("█"),
			SaucerHead:    color.GreenString("█"),
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
	)
}

func (o *progressObserver) Completed(batch.Task, images.Result, error) {
	if o.bar != nil {
		o.bar.Add(1)
	}
}

func (o *progressObserver) finish() {
	if o.bar != nil {
		o.bar.Finish()
		fmt.Println()
		fmt.Println()
	}
}

func renderResults(summary *batch.Summary) {
	table := newTable(os.Stdout, "#", "Source", "Original", "Placed", "Output", "Size", "Status")

	for _, tr := range summary.Results {
		original, placed, written := "-", "-", "-"
		status := color.YellowString(string(tr.Status))

		switch tr.Status {
		case batch.StatusDone:
			original = fmt.Sprintf("%dx%d", tr.Result.SourceWidth, tr.Result.SourceHeight)
			placed = fmt.Sprintf("%dx%d @ %d,%d", tr.Result.Width, tr.Result.Height, tr.Result.Offset.X, tr.Result.Offset.Y)
			written = humanize.Bytes(uint64(tr.Result.Bytes))
			status = color.GreenString("converted")
		case batch.StatusFailed:
			status = color.RedString("failed")
		}

		table.Append([]string{
			fmt.Sprintf("%d", tr.Index),
			tr.Name,
			original,
			placed,
			batch.OutputName(tr.Index),
			written,
			status,
		})
	}
	table.Render()
	fmt.Println()
}

func renderSkipped(skipped []batch.Skipped) {
	if len(skipped) == 0 {
		return
	}

	table := newTable(os.Stdout, "Skipped", "Reason")
	for _, s := range skipped {
		table.Append([]string{s.Name, s.Reason})
	}
	table.Render()
	fmt.Println()
}
