// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/stakevault/co"
	"github.com/vechain/stakevault/log"
)

var logger = log.WithContext("pkg", "clock")

// DefaultNTPServer is the server queried when none is configured.
const DefaultNTPServer = "pool.ntp.org"

// offsetWarnThreshold is the local clock drift reported as a warning.
const offsetWarnThreshold = 5 * time.Second

// NTP is the system clock corrected by the offset measured against an NTP server.
// The offset is refreshed in background until Stop is called.
type NTP struct {
	server string
	query  func(string) (*ntp.Response, error)
	offset atomic.Int64 // nanoseconds
	cancel context.CancelFunc
	goes   co.Goes
}

// NewNTP creates an NTP clock, performs one synchronous sync and starts the
// background loop with the given interval.
func NewNTP(server string, interval time.Duration) *NTP {
	return newNTP(server, interval, ntp.Query)
}

func newNTP(server string, interval time.Duration, query func(string) (*ntp.Response, error)) *NTP {
	if server == "" {
		server = DefaultNTPServer
	}
	c := &NTP{
		server: server,
		query:  query,
	}
	c.sync()
	c.cancel = c.goes.GoWithContext(context.Background(), func(ctx context.Context) {
		c.loop(ctx, interval)
	})
	return c
}

// Now implements Clock.
func (c *NTP) Now() uint64 {
	return uint64(time.Now().Add(c.Offset()).Unix())
}

// Offset returns the last measured offset of the local clock.
func (c *NTP) Offset() time.Duration {
	return time.Duration(c.offset.Load())
}

// Stop stops the background sync loop.
func (c *NTP) Stop() {
	c.cancel()
	c.goes.Wait()
}

func (c *NTP) loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sync()
		}
	}
}

func (c *NTP) sync() {
	resp, err := c.query(c.server)
	if err != nil {
		logger.Debug("failed to access NTP", "server", c.server, "err", err)
		return
	}
	if resp.Stratum == 0 {
		logger.Debug("unsynchronized NTP server", "server", c.server)
		return
	}
	offset := resp.ClockOffset
	if offset > offsetWarnThreshold || offset < -offsetWarnThreshold {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(offset))
	}
	c.offset.Store(int64(offset))
}
