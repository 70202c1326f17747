package probe

import (
	"context"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"github.com/netsweep/netsweep/internal/logger"
)

// SystemPinger is a Pinger implementation backed by the platform ping
// binary. It requires no raw-socket privileges and sends a single echo
// request per probe
type SystemPinger struct {
	log logger.Logger
}

// NewSystemPinger returns a new instance of SystemPinger
func NewSystemPinger() *SystemPinger {
	return &SystemPinger{
		log: logger.New(),
	}
}

// Ping sends one echo request to addr bounded by timeout. Never
// retries: retry policy belongs to the caller
func (p *SystemPinger) Ping(ctx context.Context, addr string, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)

	defer cancel()

	cmd := exec.CommandContext(ctx, "ping", pingArgs(addr, timeout)...)

	err := cmd.Run()

	if err != nil {
		p.log.Debug().
			Str("addr", addr).
			Err(err).
			Msg("host did not respond to ping")
	}

	return err == nil
}

func pingArgs(addr string, timeout time.Duration) []string {
	if runtime.GOOS == "windows" {
		return []string{"-n", "1", "-w", strconv.Itoa(int(timeout.Milliseconds())), addr}
	}

	seconds := int(timeout.Seconds())

	if seconds < 1 {
		seconds = 1
	}

	return []string{"-c", "1", "-W", strconv.Itoa(seconds), addr}
}
