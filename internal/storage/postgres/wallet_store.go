package postgres

import (
	"context"
	"fmt"
	"time"

	"solana-wallet-backend/internal/domain"
	"solana-wallet-backend/internal/observability"
	"solana-wallet-backend/internal/storage"
)

// WalletStore implements storage.WalletStore using PostgreSQL.
type WalletStore struct {
	pool *Pool
}

// NewWalletStore creates a new WalletStore.
func NewWalletStore(pool *Pool) *WalletStore {
	return &WalletStore{pool: pool}
}

// Compile-time interface check.
var _ storage.WalletStore = (*WalletStore)(nil)

// Insert adds a new wallet. Returns ErrDuplicateKey if the public key exists.
func (s *WalletStore) Insert(ctx context.Context, w *domain.Wallet) error {
	if w == nil || w.PublicKey == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO wallets (public_key, secret_key, name, created_at)
		VALUES ($1, $2, $3, $4)
	`

	start := time.Now()
	_, err := s.pool.Exec(ctx, query, w.PublicKey, w.SecretKey, w.Name, w.CreatedAt)
	observability.RecordDBQuery("postgres", "insert_wallet", time.Since(start).Seconds(), err)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// Get retrieves a wallet by public key. Returns ErrNotFound if not exists.
func (s *WalletStore) Get(ctx context.Context, publicKey string) (*domain.Wallet, error) {
	query := `
		SELECT public_key, secret_key, name, created_at
		FROM wallets
		WHERE public_key = $1
	`

	start := time.Now()
	row := s.pool.QueryRow(ctx, query, publicKey)

	var w domain.Wallet
	err := row.Scan(&w.PublicKey, &w.SecretKey, &w.Name, &w.CreatedAt)
	observability.RecordDBQuery("postgres", "get_wallet", time.Since(start).Seconds(), err)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return &w, nil
}

// List retrieves all wallets ordered by creation time ascending.
func (s *WalletStore) List(ctx context.Context) ([]*domain.Wallet, error) {
	query := `
		SELECT public_key, secret_key, name, created_at
		FROM wallets
		ORDER BY created_at ASC, public_key ASC
	`

	start := time.Now()
	rows, err := s.pool.Query(ctx, query)
	observability.RecordDBQuery("postgres", "list_wallets", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []*domain.Wallet
	for rows.Next() {
		var w domain.Wallet
		if err := rows.Scan(&w.PublicKey, &w.SecretKey, &w.Name, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		wallets = append(wallets, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallets: %w", err)
	}

	return wallets, nil
}
