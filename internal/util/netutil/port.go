// Package netutil probes TCP reachability of remote services.
package netutil

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/imamik/storagelab/internal/waiter"
)

// Port states reported by PortProbe.
const (
	PortOpen   = "open"
	PortClosed = "closed"
)

const defaultDialTimeout = 2 * time.Second

// PortProbe returns a probe that dials host:port once per attempt. A refused
// or timed out dial is reported as pending, never as an error, because a
// booting instance refuses connections until its daemon is up. The payload
// is the dialed address.
func PortProbe(host string, port int, dialTimeout time.Duration) waiter.Probe[string] {
	address := net.JoinHostPort(host, strconv.Itoa(port))
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}
	return func(ctx context.Context) (waiter.PollResult[string], error) {
		dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()

		var d net.Dialer
		conn, err := d.DialContext(dialCtx, "tcp", address)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return waiter.PollResult[string]{}, ctxErr
			}
			return waiter.Pending[string](PortClosed), nil
		}
		_ = conn.Close()
		return waiter.Terminal(PortOpen, address), nil
	}
}
