package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ivlev/carousel/internal/config"
	"github.com/ivlev/carousel/internal/logging"
	"github.com/ivlev/carousel/internal/source"
)

var (
	configPath  string
	catalogPath string
	logFile     string
	verbose     bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "carousel",
	Short: "Circular carousel engine: layout, terminal player, storyboards and HTTP server",
	Long: `carousel keeps a focus index over a circular collection of items and computes
where every item sits on screen. Commands are dropped while a slide animates.

Items come from a YAML catalog, a PDF (one item per page) or an image directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(".env"); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.ApplyEnv(); err != nil {
			return err
		}
		if catalogPath != "" {
			cfg.CatalogPath = catalogPath
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		if logFile != "" {
			logger, err = logging.ToFile(logFile, verbose)
		} else {
			logger, err = logging.New(verbose)
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "catalog YAML, PDF or image directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(layoutCmd, playCmd, scenarioCmd, storyboardCmd, serveCmd, configCmd)
}

// openSource opens the configured catalog and checks that it has items
func openSource() (source.Source, []source.Item, error) {
	if cfg.CatalogPath == "" {
		return nil, nil, fmt.Errorf("no catalog: pass --catalog or set %s", config.EnvCatalog)
	}
	src, err := source.Open(cfg.CatalogPath)
	if err != nil {
		return nil, nil, err
	}
	items := src.Items()
	if len(items) == 0 {
		src.Close()
		return nil, nil, fmt.Errorf("%s has no items", cfg.CatalogPath)
	}
	logging.OrNop(logger).Debug("catalog opened", zap.String("path", cfg.CatalogPath), zap.Int("items", len(items)))
	return src, items, nil
}

var configCmd = &cobra.Command{
	Use:   "config [path]",
	Short: "Write the effective configuration as YAML",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "carousel.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.Write(cfg, path); err != nil {
			return err
		}
		fmt.Printf("[+] Config written: %s\n", path)
		return nil
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "[-] %v\n", err)
		os.Exit(1)
	}
}
