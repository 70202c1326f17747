package port

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/netsweep/netsweep/internal/exception"
)

// defaultPorts is the well-known service port list scanned when the
// caller does not supply one
var defaultPorts = []uint16{
	21, 22, 23, 25, 53, 80, 88, 110, 123, 137, 138, 139, 143, 389,
	443, 445, 464, 587, 636, 993, 995, 1433, 1521, 3306, 3389, 5060,
	5061, 8080,
}

// Defaults returns a copy of the default well-known port list
func Defaults() []uint16 {
	ports := make([]uint16, len(defaultPorts))

	copy(ports, defaultPorts)

	return ports
}

// Parse parses a comma separated list of ports, returning a sorted
// deduplicated port list. Any non-numeric or out-of-range token fails
// the whole spec with exception.ErrInvalidPortSpec
func Parse(spec string) ([]uint16, error) {
	seen := map[int]struct{}{}

	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)

		value, err := strconv.Atoi(token)

		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", exception.ErrInvalidPortSpec, token)
		}

		if value < 1 || value > 65535 {
			return nil, fmt.Errorf("%w: %d is not in 1-65535", exception.ErrInvalidPortSpec, value)
		}

		seen[value] = struct{}{}
	}

	if len(seen) == 0 {
		return nil, fmt.Errorf("%w: empty port list", exception.ErrInvalidPortSpec)
	}

	sorted := make([]int, 0, len(seen))

	for value := range seen {
		sorted = append(sorted, value)
	}

	sort.Ints(sorted)

	ports := make([]uint16, 0, len(sorted))

	for _, value := range sorted {
		ports = append(ports, uint16(value))
	}

	return ports, nil
}
