/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/ipd/pkg/config"
)

func newInitCmd() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write a configuration file with default settings, including field
interpreters for the Handheld Agent database.

Examples:
  ipd init
  ipd init --config ./ipd.yaml --force`,
		Args: cobra.NoArgs,
		// The config file may not exist or be valid yet.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			force, _ := cmd.Flags().GetBool("force")

			if configPath == "" {
				configPath = config.GetDefaultConfigPath()
			}

			if config.ConfigExists(configPath) && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", configPath)
			}

			if err := config.SaveConfig(config.DefaultConfig(), configPath); err != nil {
				return err
			}

			cmd.Printf("Wrote default configuration to %s\n", configPath)
			return nil
		},
	}

	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	return initCmd
}
