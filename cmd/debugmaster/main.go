package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ghulammurtaza27/debugmaster/internal/config"
	apperrors "github.com/ghulammurtaza27/debugmaster/internal/errors"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile string
	verbose bool
	logger  *logrus.Logger
	cfg     *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", formatError(err))
		os.Exit(1)
	}
}

// formatError renders structured errors with their severity, cause, and
// remediation detail; plain errors print as-is
func formatError(err error) string {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr.DetailedString()
	}
	return err.Error()
}

var rootCmd = &cobra.Command{
	Use:   "debugmaster",
	Short: "DebugMaster - structural code context for debugging",
	Long: `DebugMaster ingests a repository into a structural graph of files,
functions, and classes, then assembles ranked context bundles for
individual defect reports.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Initialize logger
		logger = logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		// Load configuration
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .debugmaster/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate(`DebugMaster {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(configCmd)
}
