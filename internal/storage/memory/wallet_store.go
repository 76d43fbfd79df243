// Package memory provides in-memory storage implementations for tests and
// single-process deployments.
package memory

import (
	"context"
	"sort"
	"sync"

	"solana-wallet-backend/internal/domain"
	"solana-wallet-backend/internal/storage"
)

// WalletStore is an in-memory implementation of storage.WalletStore.
type WalletStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Wallet // keyed by public key
}

// NewWalletStore creates a new in-memory wallet store.
func NewWalletStore() *WalletStore {
	return &WalletStore{
		data: make(map[string]*domain.Wallet),
	}
}

// Compile-time interface check.
var _ storage.WalletStore = (*WalletStore)(nil)

// Insert adds a new wallet. Returns ErrDuplicateKey if the public key exists.
func (s *WalletStore) Insert(_ context.Context, w *domain.Wallet) error {
	if w == nil || w.PublicKey == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[w.PublicKey]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	walletCopy := *w
	s.data[w.PublicKey] = &walletCopy
	return nil
}

// Get retrieves a wallet by public key. Returns ErrNotFound if not exists.
func (s *WalletStore) Get(_ context.Context, publicKey string) (*domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, exists := s.data[publicKey]
	if !exists {
		return nil, storage.ErrNotFound
	}

	walletCopy := *w
	return &walletCopy, nil
}

// List retrieves all wallets ordered by creation time ascending.
func (s *WalletStore) List(_ context.Context) ([]*domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wallets := make([]*domain.Wallet, 0, len(s.data))
	for _, w := range s.data {
		walletCopy := *w
		wallets = append(wallets, &walletCopy)
	}

	sort.Slice(wallets, func(i, j int) bool {
		if !wallets[i].CreatedAt.Equal(wallets[j].CreatedAt) {
			return wallets[i].CreatedAt.Before(wallets[j].CreatedAt)
		}
		return wallets[i].PublicKey < wallets[j].PublicKey
	})

	return wallets, nil
}
