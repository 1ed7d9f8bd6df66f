package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/badno/letterbox/internal/batch"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Show which files would be converted",
	Long:  `List the input folder and show the output number each image would get, without writing anything.`,
	Args:  cobra.NoArgs,
	RunE:  runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	plan, err := batch.Scan(batch.OSFileSystem{}, s.inputDir, s.outputDir, s.cfg.Batch.BaseIndex)
	if err != nil {
		return err
	}

	if quiet {
		for _, task := range plan.Tasks {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", task.Name, task.Output)
		}
		return nil
	}

	printHeader("SCANNING " + s.inputDir)

	if len(plan.Tasks) == 0 {
		color.Yellow("  No images found in %s", s.inputDir)
		fmt.Println()
	} else {
		color.Yellow("  %d images would be written to %s\n\n", len(plan.Tasks), s.outputDir)

		table := newTable(os.Stdout, "#", "Source", "Output")
		for _, task := range plan.Tasks {
			table.Append([]string{fmt.Sprintf("%d", task.Index), task.Name, filepath.Base(task.Output)})
		}
		table.Render()
		fmt.Println()
	}

	renderSkipped(plan.Skipped)
	return nil
}
