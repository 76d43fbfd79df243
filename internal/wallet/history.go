package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"solana-wallet-backend/internal/domain"
	"solana-wallet-backend/internal/observability"
	"solana-wallet-backend/internal/solana"
)

// DefaultHistoryLimit is used when the caller does not bound a history page.
const DefaultHistoryLimit = 10

// HistoryReader reconstructs a wallet's transfer history from the ledger.
type HistoryReader struct {
	rpc    solana.RPCClient
	logger zerolog.Logger
}

// NewHistoryReader creates a HistoryReader over the given RPC client.
func NewHistoryReader(rpc solana.RPCClient, logger zerolog.Logger) *HistoryReader {
	return &HistoryReader{
		rpc:    rpc,
		logger: logger.With().Str("component", "history").Logger(),
	}
}

// GetTransactions returns up to limit classified native transfers for the
// address, newest first, starting strictly after the before cursor when
// one is given. Signatures whose transactions cannot be fetched or whose
// first instruction is not a native transfer are skipped, so a page may
// come back shorter than limit without being the last page.
func (r *HistoryReader) GetTransactions(ctx context.Context, address string, limit int, before string) ([]domain.TransactionRecord, error) {
	if err := ValidateAddress(address); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	sigs, err := r.rpc.GetSignaturesForAddress(ctx, address, &solana.SignaturesOpts{
		Limit:  limit,
		Before: before,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch signatures for %s: %w", address, err)
	}

	records := make([]domain.TransactionRecord, 0, len(sigs))
	for _, sig := range sigs {
		tx, err := r.rpc.GetTransaction(ctx, sig.Signature)
		if err != nil {
			r.logger.Warn().Err(err).Str("signature", sig.Signature).Msg("transaction fetch failed, skipping")
			observability.RecordHistoryTxSkipped("fetch_failed")
			continue
		}
		if tx == nil {
			r.logger.Debug().Str("signature", sig.Signature).Msg("transaction not indexed, skipping")
			observability.RecordHistoryTxSkipped("not_indexed")
			continue
		}
		if tx.Transfer == nil {
			observability.RecordHistoryTxSkipped("not_a_transfer")
			continue
		}
		records = append(records, classify(address, sig, tx))
	}
	return records, nil
}

// classify builds a TransactionRecord from the queried wallet's point of
// view: a transfer whose destination is the wallet is a receive, anything
// else it signed is a send.
func classify(address string, sig solana.SignatureInfo, tx *solana.Transaction) domain.TransactionRecord {
	direction := domain.DirectionSend
	if tx.Transfer.Destination == address {
		direction = domain.DirectionReceive
	}

	status := domain.TxStatusPending
	switch sig.ConfirmationStatus {
	case string(solana.CommitmentConfirmed), string(solana.CommitmentFinalized):
		status = domain.TxStatusConfirmed
	}

	blockTime := tx.BlockTime
	if sig.BlockTime != nil {
		blockTime = *sig.BlockTime
	}

	return domain.TransactionRecord{
		Signature:   sig.Signature,
		Timestamp:   time.Unix(blockTime, 0).UTC(),
		Direction:   direction,
		Amount:      domain.LamportsToSOL(tx.Transfer.Lamports),
		TokenSymbol: "SOL",
		FromAddress: tx.Transfer.Source,
		ToAddress:   tx.Transfer.Destination,
		Status:      status,
	}
}
