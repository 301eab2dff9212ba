// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU(t *testing.T) {
	_, err := NewLRU[string, int](0)
	assert.Error(t, err)

	c, err := NewLRU[string, int](2)
	require.NoError(t, err)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)
	assert.Equal(t, 2, c.Len())

	_, ok := c.Get("a")
	assert.False(t, ok, "a should be evicted")
	v, ok := c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	counts, _ := c.Stats()
	assert.Equal(t, Counts{Hits: 1, Misses: 1}, counts)

	c.Remove("c")
	_, ok = c.Get("c")
	assert.False(t, ok)

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestLRUGetOrLoad(t *testing.T) {
	c, err := NewLRU[string, int](4)
	require.NoError(t, err)

	loads := 0
	loader := func(k string) (int, bool, error) {
		loads++
		switch k {
		case "missing":
			return 0, false, nil
		case "bad":
			return 0, false, errors.New("boom")
		}
		return len(k), true, nil
	}

	for range 3 {
		v, found, err := c.GetOrLoad("abc", loader)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 3, v)
	}
	assert.Equal(t, 1, loads)

	_, found, err := c.GetOrLoad("missing", loader)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 1, c.Len())

	_, _, err = c.GetOrLoad("bad", loader)
	assert.EqualError(t, err, "boom")
}
