package probe

import (
	"context"
	"net"
	"strings"
	"time"
)

// defaultLookupTimeout bounds a single reverse dns query
const defaultLookupTimeout = time.Second * 2

// DNSResolver is a HostResolver implementation using the system
// resolver with a bounded per-lookup timeout
type DNSResolver struct {
	resolver *net.Resolver
	timeout  time.Duration
}

// NewDNSResolver returns a new instance of DNSResolver
func NewDNSResolver() *DNSResolver {
	return &DNSResolver{
		resolver: &net.Resolver{},
		timeout:  defaultLookupTimeout,
	}
}

// LookupHostname performs a reverse dns (PTR) lookup for addr,
// returning the primary hostname with any trailing dot trimmed
func (r *DNSResolver) LookupHostname(ctx context.Context, addr string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)

	defer cancel()

	names, err := r.resolver.LookupAddr(ctx, addr)

	if err != nil {
		return "", err
	}

	if len(names) == 0 {
		return "", nil
	}

	return strings.TrimSuffix(names[0], "."), nil
}
