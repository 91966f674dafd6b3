package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/inkmap/internal/cli"
	"github.com/aretw0/inkmap/internal/config"
	"github.com/aretw0/inkmap/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "inkmap",
	Short: "inkmap binds traced image regions to words",
	Long: `inkmap stores the region paths operators trace over reference images,
keyed by word. It serves the coordinate API, replays recorded annotation
sessions and exports annotations as images.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("config", config.DefaultPath, "Path to the configuration file")
	flags.String("store", "", "Store backend: memory, file, redis or http")
	flags.String("dir", "", "Directory of the file store")
	flags.String("url", "", "Base URL of a remote coordinate API (http store)")
	flags.String("redis-addr", "", "Address of the redis server")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: text or json")
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, cmd.Flags().Changed("config"))
	if err != nil {
		return cfg, err
	}

	override := func(flag string, dst *string) {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			*dst = v
		}
	}
	override("store", &cfg.Store.Backend)
	override("dir", &cfg.Store.Dir)
	override("url", &cfg.Store.URL)
	override("redis-addr", &cfg.Store.Redis.Addr)
	override("log-level", &cfg.Log.Level)
	override("log-format", &cfg.Log.Format)

	if cfg.Store.URL != "" && !cmd.Flags().Changed("store") && cmd.Flags().Changed("url") {
		cfg.Store.Backend = config.BackendHTTP
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(os.Stderr, level, cfg.Log.Format), nil
}

// setup loads config, logger and store for a command.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, *cli.Stack, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, nil, nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return cfg, nil, nil, err
	}
	stack, err := cli.BuildStore(cfg, logger)
	if err != nil {
		return cfg, nil, nil, err
	}
	return cfg, logger, stack, nil
}
