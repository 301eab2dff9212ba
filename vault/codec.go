// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"bytes"
	"encoding"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vechain/stakevault/acct"
)

// Persisted record layout, little endian:
//
//	discriminator   8
//	authority      32
//	stake mint     32
//	reward pool     8
//	total staked    8
//	daily payout    8
//	last updated    8
//	participants   Capacity * (32 + 8 + 8)
//	count           2
//	bump            1
//	padding         5
//
// RecordSize must never change without migrating stored records.
const (
	participantSize = acct.AddressLength + 8 + 8
	headerSize      = 8 + acct.AddressLength*2 + 8*4
	RecordSize      = headerSize + Capacity*participantSize + 2 + 1 + 5
)

// Discriminator tags an encoded vault record.
var Discriminator = [8]byte{'s', 't', 'k', 'v', 'a', 'u', 'l', 't'}

var (
	_ encoding.BinaryMarshaler   = (*Vault)(nil)
	_ encoding.BinaryUnmarshaler = (*Vault)(nil)
)

var le = binary.LittleEndian

// MarshalBinary encodes the vault into its fixed-size record.
func (v *Vault) MarshalBinary() ([]byte, error) {
	buf := make([]byte, RecordSize)
	copy(buf, Discriminator[:])
	off := 8
	off += copy(buf[off:], v.authority[:])
	off += copy(buf[off:], v.stakeMint[:])
	for _, n := range []uint64{v.rewardPool, v.totalStaked, v.dailyPayout, v.lastUpdated} {
		le.PutUint64(buf[off:], n)
		off += 8
	}
	for i := range v.participants {
		p := &v.participants[i]
		off += copy(buf[off:], p.Identity[:])
		le.PutUint64(buf[off:], p.Staked)
		le.PutUint64(buf[off+8:], p.Earned)
		off += 16
	}
	le.PutUint16(buf[off:], v.count)
	buf[off+2] = v.bump
	return buf, nil
}

// UnmarshalBinary decodes a fixed-size record and checks the ledger invariants.
func (v *Vault) UnmarshalBinary(data []byte) error {
	if len(data) != RecordSize {
		return errors.Errorf("invalid record size: want %d, got %d", RecordSize, len(data))
	}
	if !bytes.Equal(data[:8], Discriminator[:]) {
		return errors.New("invalid record discriminator")
	}
	var dec Vault
	off := 8
	off += copy(dec.authority[:], data[off:])
	off += copy(dec.stakeMint[:], data[off:])
	for _, n := range []*uint64{&dec.rewardPool, &dec.totalStaked, &dec.dailyPayout, &dec.lastUpdated} {
		*n = le.Uint64(data[off:])
		off += 8
	}
	for i := range dec.participants {
		p := &dec.participants[i]
		off += copy(p.Identity[:], data[off:])
		p.Staked = le.Uint64(data[off:])
		p.Earned = le.Uint64(data[off+8:])
		off += 16
	}
	dec.count = le.Uint16(data[off:])
	dec.bump = data[off+2]

	if err := dec.Validate(); err != nil {
		return errors.WithMessage(err, "decode vault")
	}
	*v = dec
	return nil
}

// Validate checks the registry invariants of the vault.
func (v *Vault) Validate() error {
	if v.count > Capacity {
		return errors.Errorf("participant count %d exceeds capacity", v.count)
	}
	var sum uint64
	seen := make(map[acct.Address]struct{}, v.count)
	for i := range int(v.count) {
		p := &v.participants[i]
		if p.Staked == 0 {
			return errors.Errorf("participant %d has no stake", i)
		}
		if _, dup := seen[p.Identity]; dup {
			return errors.Errorf("participant %v registered twice", p.Identity)
		}
		seen[p.Identity] = struct{}{}
		var err error
		if sum, err = add(sum, p.Staked, "stake sum"); err != nil {
			return err
		}
	}
	if sum != v.totalStaked {
		return errors.Errorf("total staked %d does not match participant sum %d", v.totalStaked, sum)
	}
	for i := int(v.count); i < Capacity; i++ {
		if !v.participants[i].IsEmpty() {
			return errors.Errorf("slot %d beyond count is not empty", i)
		}
	}
	return nil
}
