package wallet

import (
	"bytes"
	"errors"
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

func TestValidateAddressAccepted(t *testing.T) {
	addrs := []string{
		solanago.NewWallet().PublicKey().String(),
		// The system program id decodes to 32 zero bytes, which is a
		// valid curve point.
		"11111111111111111111111111111111",
	}
	for _, addr := range addrs {
		if err := ValidateAddress(addr); err != nil {
			t.Errorf("ValidateAddress(%q) = %v, want nil", addr, err)
		}
	}
}

func TestValidateAddressRejected(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"not base58":    "0OIl+/=",
		"too short":     base58.Encode(make([]byte, 31)),
		"too long":      base58.Encode(make([]byte, 33)),
		"non-canonical": base58.Encode(bytes.Repeat([]byte{0xff}, 32)),
	}
	for name, addr := range cases {
		if err := ValidateAddress(addr); !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("%s: ValidateAddress(%q) = %v, want ErrInvalidAddress", name, addr, err)
		}
	}
}
