// Package main provides the AiOS CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"aios/internal/config"
	"aios/internal/hal"
	"aios/internal/logging"
	"aios/internal/modules"
	"aios/internal/osfs"
)

var (
	// Global flags
	verbose      bool
	outputFormat string

	// Logger for scripted subcommands
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "aios",
	Short: "AiOS - an AI-flavored interactive shell",
	Long: `AiOS is a toy command-line operating system simulation.

It layers keyword-based emotion analysis, a 3D point-cloud memory
(Emotion Clouds and Resonant Nodes), and a hash-based module ledger
over thin wrappers around host file-system calls.

Run without arguments to start the interactive shell.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for interactive mode (it has its own UI)
		if cmd.Use == "aios" && cmd.CalledAs() == "aios" {
			return nil
		}

		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractiveShell()
	},
}

// runtime bundles the services a scripted subcommand needs.
type runtime struct {
	cfg      *config.Config
	dataDir  string
	fs       *osfs.Host
	hal      *hal.HAL
	registry *modules.Registry
}

// newRuntime loads config, starts categorized logging, and builds the HAL
// and module registry the same way the interactive shell does.
func newRuntime() (*runtime, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logging.Initialize(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
	}

	h, err := hal.New(cfg)
	if err != nil {
		return nil, err
	}

	fs := osfs.NewHost()
	if err := fs.MkdirAll(cfg.Modules.Dir); err != nil {
		h.Close()
		return nil, fmt.Errorf("create modules dir: %w", err)
	}
	reg := modules.NewRegistry(fs, cfg.Modules.Dir, cfg.Modules.LedgerPath)

	return &runtime{cfg: cfg, dataDir: dataDir, fs: fs, hal: h, registry: reg}, nil
}

func (r *runtime) Close() {
	if r.hal != nil {
		_ = r.hal.Close()
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table|json)")

	rootCmd.AddCommand(moduleCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(emotionCmd)
	rootCmd.AddCommand(cloudCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
