package wallet

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"solana-wallet-backend/internal/domain"
	"solana-wallet-backend/internal/observability"
	"solana-wallet-backend/internal/solana"
)

// BalanceReader reconstructs a wallet's holdings from chain state on
// every request. Nothing is cached.
type BalanceReader struct {
	rpc    solana.RPCClient
	logger zerolog.Logger
}

// NewBalanceReader creates a BalanceReader over the given RPC client.
func NewBalanceReader(rpc solana.RPCClient, logger zerolog.Logger) *BalanceReader {
	return &BalanceReader{
		rpc:    rpc,
		logger: logger.With().Str("component", "balance").Logger(),
	}
}

// GetBalance returns the native balance and token holdings of the address.
// The native balance is mandatory: a wallet always has one, so failure to
// read it fails the request. Individual token accounts that come back
// incomplete are dropped, never zero-filled.
func (r *BalanceReader) GetBalance(ctx context.Context, address string) (*domain.WalletBalanceView, error) {
	if err := ValidateAddress(address); err != nil {
		return nil, err
	}

	lamports, err := r.rpc.GetBalance(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("fetch native balance for %s: %w", address, err)
	}

	accounts, err := r.rpc.GetTokenAccountsByOwner(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("fetch token accounts for %s: %w", address, err)
	}

	view := &domain.WalletBalanceView{
		NativeBalance: domain.LamportsToSOL(lamports),
		Tokens:        make([]domain.TokenBalance, 0, len(accounts)),
	}
	for _, acct := range accounts {
		if acct.Mint == "" || acct.UIAmount == nil {
			r.logger.Debug().Str("account", acct.Pubkey).Msg("incomplete token account, skipping")
			observability.RecordBalanceEntrySkipped()
			continue
		}
		view.Tokens = append(view.Tokens, domain.TokenBalance{
			Mint:     acct.Mint,
			UIAmount: *acct.UIAmount,
		})
	}
	return view, nil
}
