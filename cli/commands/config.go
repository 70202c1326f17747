package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/netsweep/netsweep/internal/config"
	"github.com/netsweep/netsweep/internal/logger"
)

/**
 * Commands for managing the user config file
 */
func configure(props *CommandProps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the user configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the active configuration to the user config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New()

			if err := config.Write(*props.Conf); err != nil {
				return err
			}

			log.Info().
				Str("path", viper.GetString("config-file")).
				Msg("wrote config file")

			return nil
		},
	}

	cmd.AddCommand(initCmd)

	return cmd
}
