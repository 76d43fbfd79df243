package wallet

import (
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// ErrInvalidAddress marks an address that cannot be a wallet public key.
var ErrInvalidAddress = errors.New("invalid wallet address")

// ValidateAddress checks that addr is base58, 32 bytes, and decodes to a
// point on the ed25519 curve. Program-derived addresses are off-curve and
// fail the last check, which is intended: only keypair-backed wallets are
// valid targets for wallet operations.
func ValidateAddress(addr string) error {
	raw, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("%w: %q is not base58", ErrInvalidAddress, addr)
	}
	if len(raw) != 32 {
		return fmt.Errorf("%w: decoded length %d, want 32", ErrInvalidAddress, len(raw))
	}
	if _, err := new(edwards25519.Point).SetBytes(raw); err != nil {
		return fmt.Errorf("%w: not on the ed25519 curve", ErrInvalidAddress)
	}
	return nil
}
