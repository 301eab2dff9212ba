// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package faults

import (
	"errors"
	"fmt"
)

// Kind classifies a ledger failure.
type Kind uint8

const (
	Unknown Kind = iota
	Arithmetic
	CapacityExceeded
	InsufficientStake
	NotFound
	InvalidAmount
	Unauthorized
	InvalidArgument
)

var kindNames = [...]string{
	Unknown:           "unknown",
	Arithmetic:        "arithmetic",
	CapacityExceeded:  "capacity-exceeded",
	InsufficientStake: "insufficient-stake",
	NotFound:          "not-found",
	InvalidAmount:     "invalid-amount",
	Unauthorized:      "unauthorized",
	InvalidArgument:   "invalid-argument",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Fault is the structured failure returned by every ledger operation.
// A fault always aborts the whole operation.
type Fault struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *Fault {
	return &Fault{
		kind:    kind,
		message: message,
	}
}

func Newf(kind Kind, format string, args ...any) *Fault {
	return New(kind, fmt.Sprintf(format, args...))
}

func (f *Fault) Kind() Kind {
	return f.kind
}

func (f *Fault) Error() string {
	return f.message
}

// KindOf returns the kind of the first fault in err's chain, or Unknown.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.kind
	}
	return Unknown
}

// Is reports whether err carries a fault of the given kind.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

func IsFault(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var f *Fault
	return errors.As(e, &f)
}

// Overflow, Underflow and DivisionByZero build arithmetic faults for the named quantity.
func Overflow(what string) *Fault {
	return Newf(Arithmetic, "%s overflow", what)
}

func Underflow(what string) *Fault {
	return Newf(Arithmetic, "%s underflow", what)
}

func DivisionByZero(what string) *Fault {
	return Newf(Arithmetic, "%s division by zero", what)
}
