package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"solana-wallet-backend/internal/domain"
	"solana-wallet-backend/internal/observability"
	"solana-wallet-backend/internal/storage"
)

// Service manages locally generated wallets. Key material is generated
// in-process and persisted through the wallet store; it is returned to
// the caller exactly once, at creation.
type Service struct {
	store  storage.WalletStore
	logger zerolog.Logger
}

// NewService creates a wallet Service backed by the given store.
func NewService(store storage.WalletStore, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "wallet").Logger(),
	}
}

// CreateWallet generates a fresh ed25519 keypair and persists it under
// the given label.
func (s *Service) CreateWallet(ctx context.Context, name string) (*domain.Wallet, error) {
	kp := solanago.NewWallet()
	w := &domain.Wallet{
		PublicKey: kp.PublicKey().String(),
		SecretKey: kp.PrivateKey.String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.Insert(ctx, w); err != nil {
		return nil, fmt.Errorf("persist wallet: %w", err)
	}

	s.logger.Info().Str("public_key", w.PublicKey).Str("name", name).Msg("wallet created")
	observability.RecordWalletCreated()
	return w, nil
}

// GetWallet retrieves a wallet by public key.
func (s *Service) GetWallet(ctx context.Context, publicKey string) (*domain.Wallet, error) {
	if err := ValidateAddress(publicKey); err != nil {
		return nil, err
	}
	w, err := s.store.Get(ctx, publicKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrWalletNotFound, publicKey)
		}
		return nil, fmt.Errorf("load wallet: %w", err)
	}
	return w, nil
}

// ListWallets returns all stored wallets, oldest first.
func (s *Service) ListWallets(ctx context.Context) ([]*domain.Wallet, error) {
	wallets, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	return wallets, nil
}
