// Package iprange expands CIDR notation into usable host addresses.
package iprange

import (
	"fmt"
	"net"

	"github.com/projectdiscovery/mapcidr"

	"github.com/netsweep/netsweep/internal/exception"
)

// Expand returns the ordered usable host addresses for the given CIDR
// block. For IPv4 prefixes shorter than /31 the network and broadcast
// addresses are excluded. A /31 expands to both addresses (RFC 3021
// point-to-point) and a /32 to its single address. Unparseable input
// fails with exception.ErrInvalidRange
func Expand(cidr string) ([]string, error) {
	_, ipnet, err := net.ParseCIDR(cidr)

	if err != nil {
		return nil, fmt.Errorf("%w: %s", exception.ErrInvalidRange, cidr)
	}

	ips, err := mapcidr.IPAddresses(ipnet.String())

	if err != nil {
		return nil, fmt.Errorf("%w: %s", exception.ErrInvalidRange, cidr)
	}

	ones, bits := ipnet.Mask.Size()

	// IPv6 has no broadcast address so every address is usable
	if bits == 32 && ones < 31 {
		if len(ips) <= 2 {
			return []string{}, nil
		}

		ips = ips[1 : len(ips)-1]
	}

	return ips, nil
}
