package probe

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/netsweep/netsweep/internal/logger"
)

// TCPProber is a PortProber implementation performing full tcp connect
// probes through an injectable Dialer
type TCPProber struct {
	dialer   Dialer
	services map[uint16]string
	log      logger.Logger
}

// NewTCPProber returns a new instance of TCPProber. A nil dialer falls
// back to net.Dialer and a nil service map to the built-in well-known
// table
func NewTCPProber(dialer Dialer, services map[uint16]string) *TCPProber {
	if dialer == nil {
		dialer = &net.Dialer{}
	}

	if services == nil {
		services = ServiceNames()
	}

	return &TCPProber{
		dialer:   dialer,
		services: services,
		log:      logger.New(),
	}
}

// Probe attempts a tcp connection to (addr, port) bounded by timeout.
// The connection is released on every exit path. Refused, timed out,
// and unreachable endpoints all report no result
func (p *TCPProber) Probe(
	ctx context.Context,
	addr string,
	port uint16,
	timeout time.Duration,
) (*PortResult, bool) {
	ctx, cancel := context.WithTimeout(ctx, timeout)

	defer cancel()

	address := net.JoinHostPort(addr, strconv.Itoa(int(port)))

	conn, err := p.dialer.DialContext(ctx, "tcp", address)

	if err != nil {
		p.log.Debug().
			Str("address", address).
			Err(err).
			Msg("port probe failed")

		return nil, false
	}

	defer conn.Close()

	return &PortResult{
		Port:    port,
		Service: p.serviceName(port),
	}, true
}

func (p *TCPProber) serviceName(port uint16) string {
	if name, ok := p.services[port]; ok {
		return name
	}

	return "unknown"
}
