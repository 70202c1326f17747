package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netsweep/netsweep/internal/config"
	"github.com/netsweep/netsweep/internal/probe"
)

/**
 * Command to print the port list a scan would use
 */
func ports(props *CommandProps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ports",
		Short: "Print the configured scan port list",
		Run: func(cmd *cobra.Command, args []string) {
			conf := props.Conf

			if conf == nil {
				conf = config.Default()
			}

			services := probe.ServiceNames()

			for _, p := range conf.Scan.Ports {
				name, ok := services[p]

				if !ok {
					name = "unknown"
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%d/tcp\t%s\n", p, name)
			}
		},
	}

	return cmd
}
