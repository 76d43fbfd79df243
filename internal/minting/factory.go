// Package minting builds and submits SPL mint-creation transactions.
package minting

import (
	"context"
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	ata "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"

	"solana-wallet-backend/internal/domain"
)

// Factory creates new SPL mints funded and controlled by a payer keypair.
// It talks to the chain through the SDK RPC client rather than the
// aggregation gateway: transaction assembly needs blockhash and rent
// queries plus signing, which the gateway does not expose.
type Factory struct {
	client *rpc.Client
	logger zerolog.Logger
}

// NewFactory creates a Factory against the given RPC endpoint.
func NewFactory(endpoint string, logger zerolog.Logger) *Factory {
	return &Factory{
		client: rpc.New(endpoint),
		logger: logger.With().Str("component", "minting").Logger(),
	}
}

// CreateMint creates an initialized SPL mint with the payer as mint
// authority, then mints the full supply to the payer's associated token
// account. It returns the mint address and the creation signature.
func (f *Factory) CreateMint(ctx context.Context, payerSecret string, params domain.TokenParams) (string, string, error) {
	payer, err := solanago.PrivateKeyFromBase58(payerSecret)
	if err != nil {
		return "", "", fmt.Errorf("decode payer key: %w", err)
	}
	mint := solanago.NewWallet()

	rent, err := f.client.GetMinimumBalanceForRentExemption(ctx, token.MINT_SIZE, rpc.CommitmentFinalized)
	if err != nil {
		return "", "", fmt.Errorf("rent exemption query: %w", err)
	}
	blockhash, err := f.client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", "", fmt.Errorf("latest blockhash: %w", err)
	}
	holding, _, err := solanago.FindAssociatedTokenAddress(payer.PublicKey(), mint.PublicKey())
	if err != nil {
		return "", "", fmt.Errorf("derive holding account: %w", err)
	}

	instructions := []solanago.Instruction{
		system.NewCreateAccountInstruction(
			rent,
			token.MINT_SIZE,
			token.ProgramID,
			payer.PublicKey(),
			mint.PublicKey(),
		).Build(),
		token.NewInitializeMintInstruction(
			params.Decimals,
			payer.PublicKey(),
			payer.PublicKey(),
			mint.PublicKey(),
			solanago.SysVarRentPubkey,
		).Build(),
		ata.NewCreateInstruction(
			payer.PublicKey(),
			payer.PublicKey(),
			mint.PublicKey(),
		).Build(),
		token.NewMintToInstruction(
			params.TotalSupply,
			mint.PublicKey(),
			holding,
			payer.PublicKey(),
			nil,
		).Build(),
	}

	tx, err := solanago.NewTransaction(instructions, blockhash.Value.Blockhash, solanago.TransactionPayer(payer.PublicKey()))
	if err != nil {
		return "", "", fmt.Errorf("assemble transaction: %w", err)
	}
	_, err = tx.Sign(func(key solanago.PublicKey) *solanago.PrivateKey {
		switch key {
		case payer.PublicKey():
			return &payer
		case mint.PublicKey():
			return &mint.PrivateKey
		}
		return nil
	})
	if err != nil {
		return "", "", fmt.Errorf("sign transaction: %w", err)
	}

	sig, err := f.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return "", "", fmt.Errorf("send transaction: %w", err)
	}

	f.logger.Info().
		Str("mint", mint.PublicKey().String()).
		Str("authority", payer.PublicKey().String()).
		Str("signature", sig.String()).
		Uint64("supply", params.TotalSupply).
		Msg("mint created")
	return mint.PublicKey().String(), sig.String(), nil
}
