package probe_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/netsweep/netsweep/internal/probe"
)

func TestTCPProber(t *testing.T) {
	t.Run("detects an accepting listener", func(st *testing.T) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")

		assert.NoError(st, err)

		defer listener.Close()

		portNum := uint16(listener.Addr().(*net.TCPAddr).Port)

		prober := probe.NewTCPProber(nil, nil)

		result, ok := prober.Probe(context.Background(), "127.0.0.1", portNum, time.Second)

		assert.True(st, ok)
		assert.Equal(st, portNum, result.Port)
		// ephemeral test ports have no well-known mapping
		assert.Equal(st, "unknown", result.Service)
	})

	t.Run("reports nothing for a refused port", func(st *testing.T) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")

		assert.NoError(st, err)

		portNum := uint16(listener.Addr().(*net.TCPAddr).Port)

		listener.Close()

		prober := probe.NewTCPProber(nil, nil)

		result, ok := prober.Probe(context.Background(), "127.0.0.1", portNum, time.Second)

		assert.False(st, ok)
		assert.Nil(st, result)
	})

	t.Run("resolves service names from the injected table", func(st *testing.T) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")

		assert.NoError(st, err)

		defer listener.Close()

		portNum := uint16(listener.Addr().(*net.TCPAddr).Port)

		prober := probe.NewTCPProber(nil, map[uint16]string{portNum: "custom-svc"})

		result, ok := prober.Probe(context.Background(), "127.0.0.1", portNum, time.Second)

		assert.True(st, ok)
		assert.Equal(st, "custom-svc", result.Service)
	})
}

func TestServiceNames(t *testing.T) {
	t.Run("covers the default scan list", func(st *testing.T) {
		services := probe.ServiceNames()

		assert.Equal(st, "ssh", services[22])
		assert.Equal(st, "https", services[443])
		assert.Equal(st, "ms-wbt-server", services[3389])
	})

	t.Run("returns a defensive copy", func(st *testing.T) {
		first := probe.ServiceNames()
		first[22] = "tampered"

		assert.Equal(st, "ssh", probe.ServiceNames()[22])
	})
}
