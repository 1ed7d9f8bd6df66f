package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/badno/letterbox/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
	Long:  `View the effective configuration built from defaults, the config file, LETTERBOX_ environment variables and flags.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display all configuration settings.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Long:  `Get a specific configuration value.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
}

// envName maps a dotted config key to its environment override.
func envName(key string) string {
	return config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	printHeader("CURRENT CONFIGURATION")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	path := cfgFile
	if path == "" {
		path, _ = config.GetConfigPath()
	}
	if config.Exists(path) {
		color.Yellow("  Config file: %s\n\n", path)
	} else {
		color.Yellow("  Using default configuration (no config file at %s)\n\n", path)
	}

	// Format as YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}
	fmt.Println("  " + strings.ReplaceAll(strings.TrimRight(string(data), "\n"), "\n", "\n  "))
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		color.Red("  Invalid: %v", err)
		fmt.Println()
	}

	// Show environment variable status
	header.Println("  ENVIRONMENT VARIABLES")
	fmt.Println("  " + strings.Repeat("─", 40))
	fmt.Println()

	table := newTable(os.Stdout, "Variable", "Status")
	for _, key := range config.Keys() {
		name := envName(key)
		status := color.New(color.Faint).Sprint("not set")
		if v, ok := os.LookupEnv(name); ok {
			status = color.GreenString("set (%s)", v)
		}
		table.Append([]string{name, status})
	}
	table.Render()
	fmt.Println()

	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	value, err := cfg.Get(key)
	if err != nil {
		return err
	}

	fmt.Printf("  %s = %s\n", key, value)
	fmt.Println()
	return nil
}
