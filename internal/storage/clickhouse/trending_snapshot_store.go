package clickhouse

import (
	"context"
	"fmt"
	"time"

	"solana-wallet-backend/internal/domain"
	"solana-wallet-backend/internal/observability"
	"solana-wallet-backend/internal/storage"
)

// TrendingSnapshotStore implements storage.TrendingSnapshotStore using
// ClickHouse. Rows are append-only; scans are identified by scanned_at.
type TrendingSnapshotStore struct {
	conn *Conn
}

// NewTrendingSnapshotStore creates a new TrendingSnapshotStore.
func NewTrendingSnapshotStore(conn *Conn) *TrendingSnapshotStore {
	return &TrendingSnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TrendingSnapshotStore = (*TrendingSnapshotStore)(nil)

// InsertScan appends one row per ranked candidate of a completed scan.
func (s *TrendingSnapshotStore) InsertScan(ctx context.Context, scannedAt time.Time, ranked []domain.CandidateToken) error {
	if len(ranked) == 0 {
		return nil
	}

	start := time.Now()
	err := s.insertScan(ctx, scannedAt, ranked)
	observability.RecordDBQuery("clickhouse", "insert_trending_scan", time.Since(start).Seconds(), err)
	return err
}

func (s *TrendingSnapshotStore) insertScan(ctx context.Context, scannedAt time.Time, ranked []domain.CandidateToken) error {
	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trending_snapshots (
			scanned_at, rank, mint, participation_count, supply, decimals
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for i, c := range ranked {
		err = batch.Append(
			scannedAt, uint32(i+1), c.Address,
			c.ParticipationCount, c.Supply, c.Decimals,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}
