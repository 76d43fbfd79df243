package wallet

import (
	"context"
	"errors"
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"solana-wallet-backend/internal/domain"
	"solana-wallet-backend/internal/storage/memory"
)

func newTestService() *Service {
	return NewService(memory.NewWalletStore(), zerolog.Nop())
}

func TestCreateWallet(t *testing.T) {
	svc := newTestService()

	w, err := svc.CreateWallet(context.Background(), "trading")
	if err != nil {
		t.Fatalf("CreateWallet: %v", err)
	}
	if w.Name != "trading" {
		t.Errorf("Name = %q, want trading", w.Name)
	}
	if err := ValidateAddress(w.PublicKey); err != nil {
		t.Errorf("generated public key %q is invalid: %v", w.PublicKey, err)
	}
	if w.SecretKey == "" {
		t.Error("SecretKey is empty")
	}
	if w.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}

	got, err := svc.GetWallet(context.Background(), w.PublicKey)
	if err != nil {
		t.Fatalf("GetWallet: %v", err)
	}
	if got.SecretKey != w.SecretKey {
		t.Error("stored secret key does not match created wallet")
	}
}

func TestGetWalletNotFound(t *testing.T) {
	svc := newTestService()
	unknown := solanago.NewWallet().PublicKey().String()

	_, err := svc.GetWallet(context.Background(), unknown)
	if !errors.Is(err, domain.ErrWalletNotFound) {
		t.Fatalf("err = %v, want ErrWalletNotFound", err)
	}
}

func TestGetWalletInvalidAddress(t *testing.T) {
	svc := newTestService()

	_, err := svc.GetWallet(context.Background(), "not-an-address")
	if !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("err = %v, want ErrInvalidAddress", err)
	}
}

func TestListWallets(t *testing.T) {
	svc := newTestService()
	for _, name := range []string{"one", "two", "three"} {
		if _, err := svc.CreateWallet(context.Background(), name); err != nil {
			t.Fatalf("CreateWallet(%s): %v", name, err)
		}
	}

	wallets, err := svc.ListWallets(context.Background())
	if err != nil {
		t.Fatalf("ListWallets: %v", err)
	}
	if len(wallets) != 3 {
		t.Fatalf("len(wallets) = %d, want 3", len(wallets))
	}
}
