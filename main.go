package main

import (
	"context"
	"errors"
	"os"
	"path"

	"github.com/spf13/viper"

	"github.com/netsweep/netsweep/cli/commands"
	app_info "github.com/netsweep/netsweep/internal/app-info"
	"github.com/netsweep/netsweep/internal/config"
	"github.com/netsweep/netsweep/internal/logger"
)

/**
 * Main entry point for all commands
 * Here we setup environment config via viper
 */

func setRunTimeConfig() error {
	userHomeDir, err := os.UserHomeDir()

	if err != nil {
		return err
	}

	configDir := path.Join(userHomeDir, ".config", app_info.NAME)

	if err := os.MkdirAll(configDir, 0755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}

	configFile := path.Join(configDir, app_info.NAME+".yml")

	// share run-time config globally using viper
	viper.Set("config-file", configFile)

	return nil
}

// Entry point for the cli
func main() {
	log := logger.New()

	err := setRunTimeConfig()

	if err != nil {
		log.Fatal().Err(err).Msg("")
	}

	conf, err := config.New(viper.Get("config-file").(string))

	if err != nil {
		// no user config file, fall back to engine defaults
		conf = config.Default()
	}

	// Get the "root" cobra cli command
	cmd := commands.Root(&commands.CommandProps{
		Conf: conf,
	})

	// Allows "grepping" of command output
	cmd.SetOutput(os.Stdout)

	// execute the cobra command and exit with error code if necessary
	err = cmd.ExecuteContext(context.Background())

	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
}
