package exception

import "errors"

// ErrInvalidRange custom error for an unparseable network range
var ErrInvalidRange = errors.New("invalid network range")

// ErrInvalidPortSpec custom error for a malformed port list
var ErrInvalidPortSpec = errors.New("invalid port spec")
