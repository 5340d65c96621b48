// Package account defines the opaque identity of marketplace participants.
package account

import (
	"errors"
	"strings"
)

// ErrInvalid is returned for addresses a caller may not act as.
var ErrInvalid = errors.New("account: invalid address")

// Address identifies an authenticated participant. The marketplace never
// interprets it beyond equality.
type Address string

// Reserved addresses. Market holds every listed item; Treasury collects
// listing fees.
const (
	Market   Address = "marketplace:escrow"
	Treasury Address = "marketplace:treasury"
)

// Parse trims s and validates it as a caller address.
func Parse(s string) (Address, error) {
	a := Address(strings.TrimSpace(s))
	if err := a.Validate(); err != nil {
		return "", err
	}
	return a, nil
}

// Validate rejects empty and reserved addresses.
func (a Address) Validate() error {
	if a == "" || a.IsReserved() {
		return ErrInvalid
	}
	return nil
}

// IsReserved reports whether a is one of the marketplace's own accounts.
func (a Address) IsReserved() bool {
	return a == Market || a == Treasury
}

func (a Address) String() string { return string(a) }
