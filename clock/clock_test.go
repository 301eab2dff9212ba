// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/beevik/ntp"
	"github.com/stretchr/testify/assert"
)

func TestSystem(t *testing.T) {
	before := uint64(time.Now().Unix())
	now := NewSystem().Now()
	assert.GreaterOrEqual(t, now, before)
	assert.LessOrEqual(t, now, before+1)
}

func TestManual(t *testing.T) {
	c := NewManual(100)
	assert.Equal(t, uint64(100), c.Now())
	assert.Equal(t, uint64(150), c.Advance(50))
	c.Set(10)
	assert.Equal(t, uint64(10), c.Now())
}

func TestMonotonic(t *testing.T) {
	src := NewManual(100)
	c := Monotonic(src)

	assert.Equal(t, uint64(100), c.Now())
	src.Set(90)
	assert.Equal(t, uint64(100), c.Now())
	src.Set(120)
	assert.Equal(t, uint64(120), c.Now())
}

func TestNTPSync(t *testing.T) {
	c := &NTP{server: "test"}

	c.query = func(string) (*ntp.Response, error) {
		return nil, errors.New("unreachable")
	}
	c.sync()
	assert.Equal(t, time.Duration(0), c.Offset())

	c.query = func(string) (*ntp.Response, error) {
		return &ntp.Response{
			ClockOffset: time.Hour,
			Stratum:     2,
			RTT:         time.Millisecond,
		}, nil
	}
	c.sync()
	assert.Equal(t, time.Hour, c.Offset())

	local := uint64(time.Now().Unix())
	assert.InDelta(t, local+3600, c.Now(), 1)
}

func TestNTPLoop(t *testing.T) {
	var queries atomic.Int32
	c := newNTP("test", time.Millisecond, func(server string) (*ntp.Response, error) {
		assert.Equal(t, "test", server)
		queries.Add(1)
		return &ntp.Response{ClockOffset: time.Second, Stratum: 1}, nil
	})
	assert.Equal(t, time.Second, c.Offset())

	assert.Eventually(t, func() bool { return queries.Load() >= 3 }, time.Second, time.Millisecond)
	c.Stop()

	stopped := queries.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, stopped, queries.Load())
}
