/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssargent/ipd/pkg/archive"
	"github.com/ssargent/ipd/pkg/config"
	"github.com/ssargent/ipd/pkg/di"
	"github.com/ssargent/ipd/pkg/interp"
	"github.com/ssargent/ipd/pkg/ipd"
	"github.com/ssargent/ipd/pkg/logging"
)

var container *di.Container

// SetContainer injects the dependency container used by the commands
func SetContainer(c *di.Container) {
	container = c
}

type appKey struct{}

// app is the configuration and logger shared by all commands
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func appFrom(cmd *cobra.Command) (*app, error) {
	a, ok := cmd.Context().Value(appKey{}).(*app)
	if !ok {
		return nil, errors.New("configuration not loaded")
	}
	return a, nil
}

func (a *app) decoder() *ipd.Decoder {
	return ipd.NewDecoder(ipd.WithLogger(a.logger), ipd.WithMaxSize(a.cfg.MaxFileSize))
}

func (a *app) registry() (*interp.Registry, error) {
	return interp.FromConfig(a.cfg.Interpreters)
}

func (a *app) openArchive() (*archive.Store, error) {
	if container == nil {
		return nil, errors.New("dependency container not initialized")
	}
	if err := os.MkdirAll(a.cfg.ArchiveDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create archive dir: %w", err)
	}
	return container.GetArchiveFactory().OpenArchive(a.cfg.ArchiveDir, a.logger, ipd.WithMaxSize(a.cfg.MaxFileSize))
}

// NewRootCmd builds the ipd command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ipd",
		Short: "ipd - BlackBerry IPD backup reader",
		Long: `ipd decodes BlackBerry Desktop Manager backup files (.ipd) into their
databases, records and fields, and keeps imported backups in a local archive
that can be browsed over a read-only REST API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a, err := appFrom(cmd); err == nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/ipd/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newInitCmd(),
		newDatabasesCmd(),
		newDumpCmd(),
		newQueryCmd(),
		newImportCmd(),
		newSnapshotsCmd(),
		newServeCmd(),
	)
	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadApp reads the config file, applies environment overrides and the
// --log-level flag, and builds the logger. A missing default config file is
// not an error; a missing explicit one is.
func loadApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")

	cfg := config.DefaultConfig()
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
		if !config.ConfigExists(configPath) {
			configPath = ""
		}
	}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := config.ApplyEnv(cfg, ".env"); err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger}, nil
}
