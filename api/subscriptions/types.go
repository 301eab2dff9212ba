// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/url"

	"github.com/pkg/errors"

	"github.com/vechain/stakevault/acct"
	"github.com/vechain/stakevault/eventdb"
)

// EventMessage is pushed to subscribers for every matching event.
type EventMessage = eventdb.Event

// EventFilter selects the events a subscriber receives. Nil fields match anything.
type EventFilter struct {
	Vault  *acct.Address
	Signer *acct.Address
	Kinds  map[eventdb.Kind]bool
}

func parseAddress(query url.Values, name string) (*acct.Address, error) {
	s := query.Get(name)
	if s == "" {
		return nil, nil
	}
	addr, err := acct.ParseAddress(s)
	if err != nil {
		return nil, errors.WithMessage(err, name)
	}
	return &addr, nil
}

func parseEventFilter(query url.Values) (*EventFilter, error) {
	vault, err := parseAddress(query, "vault")
	if err != nil {
		return nil, err
	}
	signer, err := parseAddress(query, "signer")
	if err != nil {
		return nil, err
	}
	filter := &EventFilter{Vault: vault, Signer: signer}
	if kinds := query["kind"]; len(kinds) > 0 {
		filter.Kinds = make(map[eventdb.Kind]bool, len(kinds))
		for _, k := range kinds {
			filter.Kinds[eventdb.Kind(k)] = true
		}
	}
	return filter, nil
}

// Match returns whether ev passes the filter.
func (f *EventFilter) Match(ev *eventdb.Event) bool {
	if f.Vault != nil && *f.Vault != ev.Vault {
		return false
	}
	if f.Signer != nil && *f.Signer != ev.Signer {
		return false
	}
	if f.Kinds != nil && !f.Kinds[ev.Kind] {
		return false
	}
	return true
}
