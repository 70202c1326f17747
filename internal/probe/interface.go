package probe

import (
	"context"
	"net"
	"time"
)

//go:generate mockgen -destination=../mock/probe/mock_probe.go -package=mock_probe . Pinger,PortProber,HostResolver

// Pinger tests liveness of a single host. Liveness is binary: any
// error, timeout, or unreachable condition reports false
type Pinger interface {
	Ping(ctx context.Context, addr string, timeout time.Duration) bool
}

// PortProber tests a single (host, port) endpoint for an accepting
// listener. The second return value reports whether the port accepted
// a connection within the timeout
type PortProber interface {
	Probe(ctx context.Context, addr string, port uint16, timeout time.Duration) (*PortResult, bool)
}

// HostResolver performs best-effort reverse DNS for a host address
type HostResolver interface {
	LookupHostname(ctx context.Context, addr string) (string, error)
}

// Dialer is the connector capability used by the tcp prober,
// injectable for deterministic tests
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// PortResult pairs a confirmed open port with its resolved service name
type PortResult struct {
	Port    uint16
	Service string
}
