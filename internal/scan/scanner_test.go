package scan_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/netsweep/netsweep/internal/event"
	"github.com/netsweep/netsweep/internal/exception"
	mock_probe "github.com/netsweep/netsweep/internal/mock/probe"
	"github.com/netsweep/netsweep/internal/probe"
	"github.com/netsweep/netsweep/internal/scan"
)

func TestScanner(t *testing.T) {
	ctrl := gomock.NewController(t)

	defer ctrl.Finish()

	t.Run("scans a /30 end to end", func(st *testing.T) {
		mockPinger := mock_probe.NewMockPinger(ctrl)
		mockProber := mock_probe.NewMockPortProber(ctrl)
		mockResolver := mock_probe.NewMockHostResolver(ctrl)

		mockPinger.EXPECT().
			Ping(gomock.Any(), "10.0.0.1", gomock.Any()).
			Return(true)

		mockPinger.EXPECT().
			Ping(gomock.Any(), "10.0.0.2", gomock.Any()).
			Return(true)

		mockProber.EXPECT().
			Probe(gomock.Any(), "10.0.0.1", uint16(22), gomock.Any()).
			Return(&probe.PortResult{Port: 22, Service: "ssh"}, true)

		mockProber.EXPECT().
			Probe(gomock.Any(), "10.0.0.2", uint16(22), gomock.Any()).
			Return(nil, false)

		mockResolver.EXPECT().
			LookupHostname(gomock.Any(), gomock.Any()).
			Return("", nil).
			Times(2)

		scanner := scan.NewScanner(
			scan.Config{Cidr: "10.0.0.0/30", Ports: []uint16{22}},
			mockPinger,
			mockProber,
			mockResolver,
			nil,
		)

		report, err := scanner.Run(context.Background())

		assert.NoError(st, err)
		assert.Equal(st, 2, report.TotalHosts)
		assert.Equal(st, 2, report.ActiveHosts)
		assert.Len(st, report.Hosts, 2)

		first := report.Hosts[0]

		assert.Equal(st, "10.0.0.1", first.Addr)
		assert.Equal(st, scan.StatusUp, first.Status)
		assert.Equal(st, []probe.PortResult{{Port: 22, Service: "ssh"}}, first.Ports)

		second := report.Hosts[1]

		assert.Equal(st, "10.0.0.2", second.Addr)
		assert.Equal(st, scan.StatusUp, second.Status)
		assert.Empty(st, second.Ports)
	})

	t.Run("never scans or resolves hosts that are down", func(st *testing.T) {
		mockPinger := mock_probe.NewMockPinger(ctrl)
		mockProber := mock_probe.NewMockPortProber(ctrl)
		mockResolver := mock_probe.NewMockHostResolver(ctrl)

		// no prober or resolver expectations: any call fails the test
		mockPinger.EXPECT().
			Ping(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false).
			Times(2)

		scanner := scan.NewScanner(
			scan.Config{Cidr: "10.0.0.0/30", Ports: []uint16{22, 80}},
			mockPinger,
			mockProber,
			mockResolver,
			nil,
		)

		report, err := scanner.Run(context.Background())

		assert.NoError(st, err)
		assert.Equal(st, 0, report.ActiveHosts)

		for _, host := range report.Hosts {
			assert.Equal(st, scan.StatusDown, host.Status)
			assert.Empty(st, host.Ports)
			assert.Empty(st, host.Hostname)
		}
	})

	t.Run("covers every address in range exactly once", func(st *testing.T) {
		mockPinger := mock_probe.NewMockPinger(ctrl)
		mockProber := mock_probe.NewMockPortProber(ctrl)
		mockResolver := mock_probe.NewMockHostResolver(ctrl)

		live := map[string]bool{"192.168.0.3": true, "192.168.0.5": true}

		mockPinger.EXPECT().
			Ping(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, addr string, timeout time.Duration) bool {
				return live[addr]
			}).
			Times(6)

		mockProber.EXPECT().
			Probe(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, false).
			AnyTimes()

		mockResolver.EXPECT().
			LookupHostname(gomock.Any(), gomock.Any()).
			Return("", nil).
			AnyTimes()

		scanner := scan.NewScanner(
			scan.Config{Cidr: "192.168.0.0/29", Ports: []uint16{443}},
			mockPinger,
			mockProber,
			mockResolver,
			nil,
		)

		report, err := scanner.Run(context.Background())

		assert.NoError(st, err)
		assert.Len(st, report.Hosts, 6)
		assert.Equal(st, 2, report.ActiveHosts)

		seen := map[string]int{}

		for _, host := range report.Hosts {
			seen[host.Addr]++
		}

		for i := 1; i <= 6; i++ {
			addr := report.Hosts[i-1].Addr
			assert.Equal(st, 1, seen[addr])
		}
	})

	t.Run("produces identical reports across runs", func(st *testing.T) {
		mockPinger := mock_probe.NewMockPinger(ctrl)
		mockProber := mock_probe.NewMockPortProber(ctrl)
		mockResolver := mock_probe.NewMockHostResolver(ctrl)

		mockPinger.EXPECT().
			Ping(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(true).
			AnyTimes()

		mockProber.EXPECT().
			Probe(gomock.Any(), gomock.Any(), uint16(22), gomock.Any()).
			Return(&probe.PortResult{Port: 22, Service: "ssh"}, true).
			AnyTimes()

		mockProber.EXPECT().
			Probe(gomock.Any(), gomock.Any(), uint16(80), gomock.Any()).
			Return(&probe.PortResult{Port: 80, Service: "http"}, true).
			AnyTimes()

		mockResolver.EXPECT().
			LookupHostname(gomock.Any(), gomock.Any()).
			Return("host.local", nil).
			AnyTimes()

		scanner := scan.NewScanner(
			scan.Config{Cidr: "10.1.0.0/28", Ports: []uint16{80, 22}},
			mockPinger,
			mockProber,
			mockResolver,
			nil,
		)

		firstReport, err := scanner.Run(context.Background())

		assert.NoError(st, err)

		secondReport, err := scanner.Run(context.Background())

		assert.NoError(st, err)
		assert.Equal(st, firstReport.Hosts, secondReport.Hosts)

		// port results are ordered by port number regardless of
		// probe completion order
		for _, host := range firstReport.Hosts {
			assert.Equal(st, uint16(22), host.Ports[0].Port)
			assert.Equal(st, uint16(80), host.Ports[1].Port)
		}
	})

	t.Run("publishes a partial result when a host scan fails", func(st *testing.T) {
		mockPinger := mock_probe.NewMockPinger(ctrl)
		mockProber := mock_probe.NewMockPortProber(ctrl)
		mockResolver := mock_probe.NewMockHostResolver(ctrl)

		mockPinger.EXPECT().
			Ping(gomock.Any(), "10.0.0.1", gomock.Any()).
			Return(true)

		mockProber.EXPECT().
			Probe(gomock.Any(), "10.0.0.1", uint16(22), gomock.Any()).
			Return(&probe.PortResult{Port: 22, Service: "ssh"}, true)

		mockProber.EXPECT().
			Probe(gomock.Any(), "10.0.0.1", uint16(80), gomock.Any()).
			DoAndReturn(func(
				ctx context.Context,
				addr string,
				portNum uint16,
				timeout time.Duration,
			) (*probe.PortResult, bool) {
				panic("probe blew up")
			})

		mockResolver.EXPECT().
			LookupHostname(gomock.Any(), "10.0.0.1").
			Return("", nil)

		eventChan := make(chan *event.Event, 100)

		scanner := scan.NewScanner(
			scan.Config{
				Cidr:  "10.0.0.1/32",
				Ports: []uint16{22, 80},
				// serialize port probes so the surviving probe is
				// deterministic
				PortConcurrency: 1,
			},
			mockPinger,
			mockProber,
			mockResolver,
			eventChan,
		)

		report, err := scanner.Run(context.Background())

		assert.NoError(st, err)
		assert.Len(st, report.Hosts, 1)

		host := report.Hosts[0]

		assert.Equal(st, scan.StatusUp, host.Status)
		assert.Equal(st, []probe.PortResult{{Port: 22, Service: "ssh"}}, host.Ports)

		close(eventChan)

		var scanErr *event.ScanError

		for evt := range eventChan {
			if evt.Type == event.ScanErrorEvent {
				scanErr = evt.Payload.(*event.ScanError)
			}
		}

		// the failure is attributed to the host it happened on
		assert.NotNil(st, scanErr)
		assert.Equal(st, "10.0.0.1", scanErr.Addr)
		assert.ErrorContains(st, scanErr.Err, "probe blew up")
	})

	t.Run("emits sweep progress events", func(st *testing.T) {
		mockPinger := mock_probe.NewMockPinger(ctrl)
		mockProber := mock_probe.NewMockPortProber(ctrl)
		mockResolver := mock_probe.NewMockHostResolver(ctrl)

		mockPinger.EXPECT().
			Ping(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false).
			Times(2)

		eventChan := make(chan *event.Event, 100)

		scanner := scan.NewScanner(
			scan.Config{Cidr: "10.0.0.0/30", Ports: []uint16{22}},
			mockPinger,
			mockProber,
			mockResolver,
			eventChan,
		)

		_, err := scanner.Run(context.Background())

		assert.NoError(st, err)

		close(eventChan)

		var final *event.SweepProgress

		for evt := range eventChan {
			if evt.Type == event.SweepProgressEvent {
				final = evt.Payload.(*event.SweepProgress)
			}
		}

		assert.NotNil(st, final)
		assert.Equal(st, 2, final.Completed)
		assert.Equal(st, 2, final.Total)
		assert.Equal(st, 0, final.Live)
	})

	t.Run("reports canceled sweeps without losing addresses", func(st *testing.T) {
		mockPinger := mock_probe.NewMockPinger(ctrl)
		mockProber := mock_probe.NewMockPortProber(ctrl)
		mockResolver := mock_probe.NewMockHostResolver(ctrl)

		mockPinger.EXPECT().
			Ping(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false).
			AnyTimes()

		ctx, cancel := context.WithCancel(context.Background())

		cancel()

		scanner := scan.NewScanner(
			scan.Config{Cidr: "10.0.0.0/30", Ports: []uint16{22}},
			mockPinger,
			mockProber,
			mockResolver,
			nil,
		)

		report, err := scanner.Run(ctx)

		assert.NoError(st, err)
		assert.Len(st, report.Hosts, 2)
	})

	t.Run("fails fast on an invalid range", func(st *testing.T) {
		mockPinger := mock_probe.NewMockPinger(ctrl)
		mockProber := mock_probe.NewMockPortProber(ctrl)
		mockResolver := mock_probe.NewMockHostResolver(ctrl)

		scanner := scan.NewScanner(
			scan.Config{Cidr: "nope", Ports: []uint16{22}},
			mockPinger,
			mockProber,
			mockResolver,
			nil,
		)

		report, err := scanner.Run(context.Background())

		assert.Nil(st, report)
		assert.ErrorIs(st, err, exception.ErrInvalidRange)
	})
}
