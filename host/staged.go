// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/vechain/stakevault/kv"
	"github.com/vechain/stakevault/stackedmap"
)

var errStagedNotFound = errors.New("staged: not found")

// staged buffers writes over a source getter. Every value read from the
// source is remembered so the commit can detect concurrent modification.
type staged struct {
	src   kv.Getter
	sm    *stackedmap.StackedMap
	reads map[string][]byte
}

func newStaged(src kv.Getter) *staged {
	s := &staged{
		src:   src,
		reads: make(map[string][]byte),
	}
	s.sm = stackedmap.New(func(key any) (any, bool, error) {
		k := key.(string)
		if v, ok := s.reads[k]; ok {
			return v, v != nil, nil
		}
		v, err := kv.GetValue(src, []byte(k))
		if err != nil {
			return nil, false, err
		}
		s.reads[k] = v
		return v, v != nil, nil
	})
	return s
}

func (s *staged) Get(key []byte) ([]byte, error) {
	v, ok, err := s.sm.Get(string(key))
	if err != nil {
		return nil, err
	}
	if !ok || v.([]byte) == nil {
		return nil, errStagedNotFound
	}
	return bytes.Clone(v.([]byte)), nil
}

func (s *staged) Has(key []byte) (bool, error) {
	v, ok, err := s.sm.Get(string(key))
	if err != nil {
		return false, err
	}
	return ok && v.([]byte) != nil, nil
}

func (s *staged) IsNotFound(err error) bool {
	return err == errStagedNotFound
}

func (s *staged) Put(key, val []byte) error {
	s.sm.Put(string(key), bytes.Clone(val))
	return nil
}

// Delete stages a deletion, recorded as a nil value.
func (s *staged) Delete(key []byte) error {
	s.sm.Put(string(key), []byte(nil))
	return nil
}

// changes returns the final value of every written key. nil means deleted.
func (s *staged) changes() map[string][]byte {
	m := make(map[string][]byte)
	s.sm.Journal(func(k, v any) bool {
		m[k.(string)] = v.([]byte)
		return true
	})
	return m
}

// verify reports whether every value read earlier is still current in g.
func (s *staged) verify(g kv.Getter) (bool, error) {
	for k, v := range s.reads {
		cur, err := kv.GetValue(g, []byte(k))
		if err != nil {
			return false, err
		}
		if !bytes.Equal(cur, v) {
			return false, nil
		}
	}
	return true, nil
}
