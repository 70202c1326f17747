// Package scan implements the two-phase network discovery engine: a
// liveness sweep over every usable address in a range followed by port
// enumeration over the hosts that responded.
package scan

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/netsweep/netsweep/internal/event"
	"github.com/netsweep/netsweep/internal/iprange"
	"github.com/netsweep/netsweep/internal/logger"
	"github.com/netsweep/netsweep/internal/probe"
	"github.com/netsweep/netsweep/internal/worker"
)

// Default concurrency caps per phase. These act as admission control
// against socket exhaustion and are independently tunable
const (
	DefaultSweepConcurrency = 100
	DefaultHostConcurrency  = 20
	DefaultPortConcurrency  = 50

	// DefaultProbeTimeout bounds a single liveness or port probe
	DefaultProbeTimeout = time.Second

	// progressInterval controls how often sweep progress is reported
	progressInterval = 25
)

// Config represents scan engine configuration
type Config struct {
	Cidr             string
	Ports            []uint16
	PingTimeout      time.Duration
	PortTimeout      time.Duration
	SweepConcurrency int
	HostConcurrency  int
	PortConcurrency  int
}

// Scanner orchestrates the two scan phases and owns the accumulating
// result set until it is returned to the caller
type Scanner struct {
	conf      Config
	pinger    probe.Pinger
	prober    probe.PortProber
	resolver  probe.HostResolver
	eventChan chan<- *event.Event
	now       func() time.Time
	log       logger.Logger
}

// NewScanner returns a new instance of Scanner. Zero config fields are
// replaced with engine defaults. A nil eventChan disables event
// reporting
func NewScanner(
	conf Config,
	pinger probe.Pinger,
	prober probe.PortProber,
	resolver probe.HostResolver,
	eventChan chan<- *event.Event,
) *Scanner {
	if conf.PingTimeout == 0 {
		conf.PingTimeout = DefaultProbeTimeout
	}

	if conf.PortTimeout == 0 {
		conf.PortTimeout = DefaultProbeTimeout
	}

	if conf.SweepConcurrency == 0 {
		conf.SweepConcurrency = DefaultSweepConcurrency
	}

	if conf.HostConcurrency == 0 {
		conf.HostConcurrency = DefaultHostConcurrency
	}

	if conf.PortConcurrency == 0 {
		conf.PortConcurrency = DefaultPortConcurrency
	}

	return &Scanner{
		conf:      conf,
		pinger:    pinger,
		prober:    prober,
		resolver:  resolver,
		eventChan: eventChan,
		now:       time.Now,
		log:       logger.New(),
	}
}

// Run expands the configured range, sweeps it for live hosts, then
// enumerates ports on the live hosts. It returns only after every
// submitted task has completed. Individual probe failures are folded
// into the result set, never propagated; only an unparseable range
// fails the run
func (s *Scanner) Run(ctx context.Context) (*Report, error) {
	hosts, err := iprange.Expand(s.conf.Cidr)

	if err != nil {
		return nil, err
	}

	startedAt := s.now()

	s.log.Info().
		Str("cidr", s.conf.Cidr).
		Int("hosts", len(hosts)).
		Int("ports", len(s.conf.Ports)).
		Msg("starting liveness sweep")

	liveness := s.sweep(ctx, hosts)

	live := 0

	for _, up := range liveness {
		if up {
			live++
		}
	}

	s.log.Info().
		Int("live", live).
		Msg("sweep complete, enumerating ports on live hosts")

	results := s.enumerate(ctx, hosts, liveness)

	report := &Report{
		Cidr:        s.conf.Cidr,
		StartedAt:   startedAt,
		Elapsed:     s.now().Sub(startedAt),
		TotalHosts:  len(hosts),
		ActiveHosts: live,
		Hosts:       make([]HostResult, 0, len(hosts)),
	}

	// hosts is already in ascending address order so assembling in
	// expansion order keeps the report deterministic regardless of
	// task completion order
	for _, addr := range hosts {
		report.Hosts = append(report.Hosts, results[addr])
	}

	s.log.Info().
		Dur("elapsed", report.Elapsed).
		Int("active", report.ActiveHosts).
		Msg("scan complete")

	return report, nil
}

// sweep runs the liveness phase over all candidate hosts. Hosts not
// probed before cancellation are reported as down
func (s *Scanner) sweep(ctx context.Context, hosts []string) map[string]bool {
	liveness := make(map[string]bool, len(hosts))

	mux := &sync.Mutex{}

	total := len(hosts)
	completed := 0
	live := 0

	jobs := make([]worker.Job, 0, total)

	for _, addr := range hosts {
		addr := addr

		jobs = append(jobs, func(ctx context.Context) {
			up := s.pinger.Ping(ctx, addr, s.conf.PingTimeout)

			mux.Lock()
			defer mux.Unlock()

			liveness[addr] = up
			completed++

			if up {
				live++
			}

			if completed%progressInterval == 0 || completed == total {
				s.emit(&event.Event{
					Type: event.SweepProgressEvent,
					Payload: &event.SweepProgress{
						Completed: completed,
						Total:     total,
						Live:      live,
					},
				})
			}
		})
	}

	worker.NewPool(s.conf.SweepConcurrency).Run(ctx, jobs)

	return liveness
}

// enumerate runs the port scan phase over hosts marked live. Down
// hosts are published directly without any scanning
func (s *Scanner) enumerate(
	ctx context.Context,
	hosts []string,
	liveness map[string]bool,
) map[string]HostResult {
	results := make(map[string]HostResult, len(hosts))

	mux := &sync.Mutex{}

	jobs := []worker.Job{}

	for _, addr := range hosts {
		addr := addr

		if !liveness[addr] {
			results[addr] = HostResult{
				Addr:   addr,
				Status: StatusDown,
				Ports:  []probe.PortResult{},
			}

			continue
		}

		jobs = append(jobs, func(ctx context.Context) {
			result := s.scanHost(ctx, addr)

			mux.Lock()
			results[addr] = result
			mux.Unlock()

			s.emit(&event.Event{
				Type:    event.HostScannedEvent,
				Payload: &result,
			})
		})
	}

	worker.NewPool(s.conf.HostConcurrency).Run(ctx, jobs)

	// live hosts whose scan task never ran due to cancellation still
	// get a record so the report covers every address exactly once
	mux.Lock()
	defer mux.Unlock()

	for _, addr := range hosts {
		if _, ok := results[addr]; !ok {
			results[addr] = HostResult{
				Addr:   addr,
				Status: StatusUp,
				Ports:  []probe.PortResult{},
			}
		}
	}

	return results
}

// scanHost fans out one port probe per candidate port through the
// inner pool and assembles the HostResult for a single live host. An
// unexpected failure in any probe is contained at this boundary: the
// host is still published with whatever ports were confirmed before
// the failure
func (s *Scanner) scanHost(ctx context.Context, addr string) (result HostResult) {
	result = HostResult{
		Addr:   addr,
		Status: StatusUp,
		Ports:  []probe.PortResult{},
	}

	collected := []probe.PortResult{}

	var failure error

	mux := &sync.Mutex{}

	defer func() {
		if r := recover(); r != nil {
			mux.Lock()
			failure = fmt.Errorf("host scan failed: %v", r)
			result.Ports = sortPorts(collected)
			mux.Unlock()
		}

		if failure != nil {
			s.log.Error().
				Err(failure).
				Str("addr", addr).
				Msg("publishing partial host result")

			s.emit(&event.Event{
				Type:    event.ScanErrorEvent,
				Payload: &event.ScanError{Addr: addr, Err: failure},
			})
		}
	}()

	jobs := make([]worker.Job, 0, len(s.conf.Ports))

	for _, p := range s.conf.Ports {
		p := p

		jobs = append(jobs, func(ctx context.Context) {
			// recovered here, not in the pool, so the failure is
			// attributed to this host and reported with its result
			defer func() {
				if r := recover(); r != nil {
					mux.Lock()
					failure = fmt.Errorf("port %d probe failed: %v", p, r)
					mux.Unlock()
				}
			}()

			if res, ok := s.prober.Probe(ctx, addr, p, s.conf.PortTimeout); ok {
				mux.Lock()
				collected = append(collected, *res)
				mux.Unlock()
			}
		})
	}

	worker.NewPool(s.conf.PortConcurrency).Run(ctx, jobs)

	// best-effort: a host without a ptr record is not an error
	if hostname, err := s.resolver.LookupHostname(ctx, addr); err == nil {
		result.Hostname = hostname
	}

	mux.Lock()
	result.Ports = sortPorts(collected)
	mux.Unlock()

	return result
}

// emit sends an event without ever blocking the scan. Callers should
// provide a buffered channel sized for their consumption rate
func (s *Scanner) emit(evt *event.Event) {
	if s.eventChan == nil {
		return
	}

	select {
	case s.eventChan <- evt:
	default:
		s.log.Debug().
			Str("type", string(evt.Type)).
			Msg("dropped event: channel full")
	}
}

func sortPorts(ports []probe.PortResult) []probe.PortResult {
	sorted := make([]probe.PortResult, len(ports))

	copy(sorted, ports)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Port < sorted[j].Port
	})

	return sorted
}
