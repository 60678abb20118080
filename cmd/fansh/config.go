// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"fansh-cli/internal/config"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect fansh configuration",
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				config.SetConfigFilePathOverride(cfgFile)
			}
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintln(os.Stderr, warningMessage(err))
			}

			out, err := toml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("rendering configuration: %w", err)
			}
			cmd.Print(string(out))
			return nil
		},
	}

	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				config.SetConfigFilePathOverride(cfgFile)
			}
			path, err := config.ConfigFilePath()
			if err != nil {
				return err
			}
			cmd.Println(path)
			return nil
		},
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}
