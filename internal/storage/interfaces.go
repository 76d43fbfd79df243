package storage

import (
	"context"
	"time"

	"solana-wallet-backend/internal/domain"
)

// WalletStore provides access to wallet records. The chain aggregation
// core only ever reads public keys from it; secret material stays behind
// this boundary.
type WalletStore interface {
	// Insert adds a new wallet. Returns ErrDuplicateKey if the public key exists.
	Insert(ctx context.Context, w *domain.Wallet) error

	// Get retrieves a wallet by public key. Returns ErrNotFound if not exists.
	Get(ctx context.Context, publicKey string) (*domain.Wallet, error)

	// List retrieves all wallets ordered by creation time ascending.
	List(ctx context.Context) ([]*domain.Wallet, error)
}

// TrendingSnapshotStore records the ranked outcome of trending scans for
// offline analysis. Writes are best-effort; a failed append never fails
// the scan that produced it.
type TrendingSnapshotStore interface {
	// InsertScan appends one row per ranked candidate of a completed scan.
	InsertScan(ctx context.Context, scannedAt time.Time, ranked []domain.CandidateToken) error
}
