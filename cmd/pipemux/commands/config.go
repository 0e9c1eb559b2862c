package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pipemux/pipemux/internal/config"
)

const (
	configCmdUse   = "config"
	configCmdShort = "Print the effective configuration as YAML"
)

// NewConfigCommand creates the config subcommand. It resolves the full
// file/env/default chain and prints the result, which is handy for
// checking what a run would actually use.
func NewConfigCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   configCmdUse,
		Short: configCmdShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(data)
			if err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, configFlag, configFlagShort, "", configFlagUsage)

	return cmd
}
