package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/DevSymphony/codecleaner/internal/config"
	"github.com/DevSymphony/codecleaner/internal/logging"
)

// errFindings makes the process exit with status 1 without printing an
// error; the findings have already been reported.
var errFindings = errors.New("findings reported")

var (
	// verbose is a global flag for verbose output
	verbose    bool
	logLevel   string
	logJSON    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "codecleaner",
	Short: "codecleaner - clean code checks for C# sources",
	Long: `codecleaner analyzes C# compilation units and reports clean code suggestions
together with syntax and scope errors.

Features:
  - Naming checks backed by an English dictionary (meaningless words, case)
  - Size checks for parameters, method length and nesting depth
  - Undeclared and redeclared identifier detection
  - Preprocessor and illegal character checks
  - Text, JSON and HTML reports, watch mode and an MCP server`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFindings) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output (same as --log-level debug)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug|info|warn|error); defaults to the config file value")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./"+config.FileName+")")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(tokensCmd)
	// Note: mcpCmd and versionCmd are registered in their own init()
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level := logLevel
	if level == "" {
		// the config file level applies when it can be read; errors surface later
		if cfg, err := loadConfig(); err == nil {
			level = cfg.LogLevel
		}
	}
	if verbose {
		level = "debug"
	}

	_, err := logging.Setup(logging.Config{
		Level:  level,
		JSON:   logJSON,
		Output: cmd.ErrOrStderr(),
	})
	return err
}

// loadConfig loads --config, or the project file of the working directory,
// or the defaults.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	cfg, path, err := config.LoadOrDefault(".")
	if err != nil {
		return nil, err
	}
	if path != "" {
		slog.Debug("config loaded", "path", path)
	}
	return cfg, nil
}
