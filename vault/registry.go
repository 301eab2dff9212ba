// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/vechain/stakevault/acct"
)

// The registry is a dense arena: slots [0, count) are live, the rest are zero.
// Lookup scans linearly, removal swaps the last live slot into the hole.

func (v *Vault) find(id acct.Address) int {
	for i := range int(v.count) {
		if v.participants[i].Identity == id {
			return i
		}
	}
	return -1
}

// insert appends a new entry. The caller checks capacity.
func (v *Vault) insert(p Participant) {
	v.participants[v.count] = p
	v.count++
}

// remove swap-removes the entry at index i. Registry order is not preserved.
func (v *Vault) remove(i int) {
	last := int(v.count) - 1
	v.participants[i] = v.participants[last]
	v.participants[last] = Participant{}
	v.count--
}
