package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/badno/letterbox/internal/batch"
	"github.com/badno/letterbox/internal/config"
	"github.com/badno/letterbox/internal/images"
	"github.com/badno/letterbox/internal/logging"
	"github.com/badno/letterbox/internal/report"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	inputPath  string
	outputPath string
	size       int
	baseIndex  int
	filterName string
	logLevel   string
	logJSON    bool
	quiet      bool

	workers    int
	keepGoing  bool
	reportPath string
)

var rootCmd = &cobra.Command{
	Use:   "letterbox",
	Short: "Resize a folder of images onto square white canvases",
	Long: color.New(color.FgCyan, color.Bold).Sprint(`
  _      _   _            _
 | | ___| |_| |_ ___ _ _ | |__  _____ __
 | |/ -_)  _|  _/ -_) '_|| '_ \/ _ \ \ /
 |_|\___|\__|\__\___|_|  |_.__/\___/_\_\
`) + `
Resize every image in a folder to a fixed square PNG.

Each image is scaled to the target width, keeping its aspect ratio, and
centered on an opaque white canvas. Outputs are numbered 1000.png,
1001.png, ... in the sorted order of the input file names and written to
<path>/converted.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	RunE:              runConvert,
}

// Execute runs the root command. SIGINT and SIGTERM stop scheduling new files.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		color.Red("  ✗ %v", err)
		fmt.Println()
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default ~/.letterbox/config.yaml)")
	pf.StringVarP(&inputPath, "path", "p", "", "Folder containing the images to resize (default current directory)")
	pf.StringVarP(&outputPath, "output", "o", "", "Output folder (default <path>/converted)")
	pf.IntVarP(&size, "size", "s", 512, "Target width and height of the square canvas")
	pf.IntVarP(&baseIndex, "base", "b", 1000, "Number of the first output file")
	pf.StringVar(&filterName, "filter", images.DefaultFilter, "Resampling filter")
	pf.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.BoolVar(&logJSON, "log-json", false, "Log as JSON")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Hide progress bar and result tables")

	rootCmd.Flags().IntVarP(&workers, "workers", "w", 1, "Number of images converted in parallel")
	rootCmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Continue with remaining images after a failure")
	rootCmd.Flags().StringVar(&reportPath, "report", "", "Write a run report (.csv or .json)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// settings is the effective configuration of one invocation.
type settings struct {
	cfg       *config.Config
	inputDir  string
	outputDir string
}

// loadConfig layers explicitly set flags over the config file and
// environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.Resize.Size = size
	}
	if flags.Changed("filter") {
		cfg.Resize.Filter = filterName
	}
	if flags.Changed("base") {
		cfg.Batch.BaseIndex = baseIndex
	}
	if flags.Changed("workers") {
		cfg.Batch.Workers = workers
	}
	if flags.Changed("keep-going") {
		cfg.Batch.KeepGoing = keepGoing
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-json") {
		cfg.Logging.JSON = logJSON
	}
	return cfg, nil
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	in := inputPath
	if in == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to get working directory: %w", images.ErrIO, err)
		}
		in = wd
	}

	out := outputPath
	if out == "" {
		out = filepath.Join(in, cfg.Batch.OutputDirName)
	}

	return &settings{cfg: cfg, inputDir: in, outputDir: out}, nil
}

func setupLogging(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logging.Configure(logging.Options{Level: cfg.Logging.Level, JSON: cfg.Logging.JSON})
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	filter, err := images.ParseFilter(s.cfg.Resize.Filter)
	if err != nil {
		return err
	}

	if !quiet {
		printHeader(fmt.Sprintf("LETTERBOXING IMAGES TO %dx%d", s.cfg.Resize.Size, s.cfg.Resize.Size))
	}

	obs := &progressObserver{quiet: quiet}
	runner := batch.NewRunner(nil, images.NewLetterboxer(nil, filter), obs)

	opts := batch.NewOptions(s.inputDir, s.cfg.Resize.Size)
	opts.OutputDir = s.outputDir
	opts.BaseIndex = s.cfg.Batch.BaseIndex
	opts.Workers = s.cfg.Batch.Workers
	opts.KeepGoing = s.cfg.Batch.KeepGoing

	summary, err := runner.Run(cmd.Context(), opts)
	obs.finish()
	if summary == nil {
		return err
	}

	if reportPath != "" {
		if werr := report.Write(report.FromSummary(summary, s.cfg.Resize.Size), reportPath); werr != nil {
			if err == nil {
				err = werr
			}
		} else if !quiet {
			color.Yellow("  Report written to %s\n", reportPath)
		}
	}

	if quiet {
		return err
	}

	if len(summary.Results) == 0 {
		color.Yellow("  No images found in %s", s.inputDir)
		fmt.Println()
		return err
	}

	renderResults(summary)

	if summary.Processed > 0 {
		success.Printf("  ✓ Converted %d images (%s) to %s in %s\n",
			summary.Processed, humanize.Bytes(uint64(summary.Bytes)), s.outputDir,
			summary.Duration.Round(time.Millisecond))
	}
	if summary.Failed > 0 {
		color.Red("  ✗ Failed to convert %d images\n", summary.Failed)
	}
	if summary.NotRun > 0 {
		color.Yellow("  %d images were not processed\n", summary.NotRun)
	}
	fmt.Println()

	return err
}
