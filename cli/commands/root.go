package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/netsweep/netsweep/internal/config"
	"github.com/netsweep/netsweep/internal/event"
	"github.com/netsweep/netsweep/internal/logger"
	"github.com/netsweep/netsweep/internal/port"
	"github.com/netsweep/netsweep/internal/probe"
	"github.com/netsweep/netsweep/internal/scan"
	"github.com/netsweep/netsweep/internal/util"
)

// CommandProps injected props that can be made available to all commands
type CommandProps struct {
	Conf *config.Config
}

// Root builds and returns our root command
func Root(props *CommandProps) *cobra.Command {
	var verbose bool
	var silent bool
	var logFile string

	var portList string
	var output string
	var pingTimeout time.Duration
	var portTimeout time.Duration
	var sweepConcurrency int
	var hostConcurrency int
	var portConcurrency int

	conf := props.Conf

	cmd := &cobra.Command{
		Use:   "netsweep [cidr]",
		Short: "Discover live hosts and open ports on a network",
		Long: "Sweeps a network range for live hosts, then enumerates open tcp " +
			"ports on each live host. When no range is provided the local " +
			"network is detected and scanned.",
		Args: cobra.MaximumNArgs(1),
		// This runs before all commands and all sub-commands
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// set logging verbosity for all loggers
			zerolog.SetGlobalLevel(zerolog.InfoLevel)

			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}

			if silent {
				zerolog.SetGlobalLevel(zerolog.Disabled)
			}

			// keep scan output grep-able by sending logs to a file
			// instead of stderr
			if logFile != "" {
				f, err := os.OpenFile(
					logFile,
					os.O_CREATE|os.O_APPEND|os.O_WRONLY,
					0644,
				)

				if err != nil {
					return err
				}

				logger.GlobalSetLogFile(f)
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New()

			cidr := ""

			if len(args) > 0 {
				cidr = args[0]
			} else {
				detected, err := util.DetectCidr()

				if err != nil {
					return err
				}

				log.Info().
					Str("cidr", detected).
					Msg("no network range provided, scanning detected local network")

				cidr = detected
			}

			ports := conf.Scan.Ports

			if portList != "" {
				parsed, err := port.Parse(portList)

				if err != nil {
					return err
				}

				ports = parsed
			}

			scanConf := scan.Config{
				Cidr:             cidr,
				Ports:            ports,
				PingTimeout:      pingTimeout,
				PortTimeout:      portTimeout,
				SweepConcurrency: sweepConcurrency,
				HostConcurrency:  hostConcurrency,
				PortConcurrency:  portConcurrency,
			}

			eventChan := make(chan *event.Event, 100)
			doneChan := make(chan struct{})

			go func() {
				defer close(doneChan)

				for evt := range eventChan {
					handleScanEvent(log, evt)
				}
			}()

			scanner := scan.NewScanner(
				scanConf,
				probe.NewSystemPinger(),
				probe.NewTCPProber(nil, nil),
				probe.NewDNSResolver(),
				eventChan,
			)

			report, err := scanner.Run(cmd.Context())

			close(eventChan)

			<-doneChan

			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), scan.Export(report))

			if output != "" {
				if err := scan.WriteFile(report, output); err != nil {
					return err
				}

				log.Info().
					Str("path", output).
					Msg("results exported")
			}

			return nil
		},
	}

	// Persistent flags available to all commands
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs")
	cmd.PersistentFlags().BoolVar(&silent, "silent", false, "disables all logging")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	cmd.Flags().StringVarP(&portList, "ports", "p", "", "comma-separated list of ports to scan")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the scan report to this file")
	cmd.Flags().DurationVar(&pingTimeout, "ping-timeout", conf.PingTimeout(), "timeout for a single liveness probe")
	cmd.Flags().DurationVar(&portTimeout, "port-timeout", conf.PortTimeout(), "timeout for a single port probe")
	cmd.Flags().IntVar(&sweepConcurrency, "sweep-concurrency", conf.Scan.SweepConcurrency, "max simultaneous liveness probes")
	cmd.Flags().IntVar(&hostConcurrency, "host-concurrency", conf.Scan.HostConcurrency, "max hosts port-scanned simultaneously")
	cmd.Flags().IntVar(&portConcurrency, "port-concurrency", conf.Scan.PortConcurrency, "max simultaneous port probes per host")

	cmd.AddCommand(configure(props))
	cmd.AddCommand(ports(props))
	cmd.AddCommand(version())

	return cmd
}

func handleScanEvent(log logger.Logger, evt *event.Event) {
	switch evt.Type {
	case event.SweepProgressEvent:
		progress, ok := evt.Payload.(*event.SweepProgress)

		if !ok {
			return
		}

		log.Info().
			Int("completed", progress.Completed).
			Int("total", progress.Total).
			Int("live", progress.Live).
			Msg("sweep progress")
	case event.HostScannedEvent:
		host, ok := evt.Payload.(*scan.HostResult)

		if !ok {
			return
		}

		log.Info().
			Str("addr", host.Addr).
			Str("hostname", host.Hostname).
			Int("openPorts", len(host.Ports)).
			Msg("host scanned")
	case event.ScanErrorEvent:
		scanErr, ok := evt.Payload.(*event.ScanError)

		if !ok {
			return
		}

		log.Warn().
			Str("addr", scanErr.Addr).
			Err(scanErr.Err).
			Msg("host scan failed part way, results are partial")
	}
}
