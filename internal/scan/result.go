package scan

import (
	"time"

	"github.com/netsweep/netsweep/internal/probe"
)

// Status represents host liveness as determined by the sweep phase
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// HostResult is the finalized record for a single scanned address.
// It is built by a single task and never mutated after publication.
// A down host always has an empty port list and no hostname
type HostResult struct {
	Addr     string
	Hostname string
	Status   Status
	Ports    []probe.PortResult
}

// Report is the finalized result set for one scan invocation. It
// contains exactly one HostResult per usable address in the scanned
// range, ordered by address
type Report struct {
	Cidr        string
	StartedAt   time.Time
	Elapsed     time.Duration
	TotalHosts  int
	ActiveHosts int
	Hosts       []HostResult
}
