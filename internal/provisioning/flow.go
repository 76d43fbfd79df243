// Package provisioning drives the funded-account token creation flow:
// generate an authority wallet, fund it, wait for the funding to settle,
// then mint the requested token from that wallet.
package provisioning

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"solana-wallet-backend/internal/domain"
	"solana-wallet-backend/internal/observability"
	"solana-wallet-backend/internal/solana"
	"solana-wallet-backend/internal/wallet"
)

// State is a provisioning flow stage. Failed is terminal; the rest are
// passed through in order.
type State string

const (
	StateRequested            State = "requested"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateConfirmed            State = "confirmed"
	StateFunded               State = "funded"
	StateTokenCreated         State = "token_created"
	StateFailed               State = "failed"
)

// TokenCreator mints a new token paid for and controlled by the payer key.
type TokenCreator interface {
	CreateMint(ctx context.Context, payerSecret string, params domain.TokenParams) (mintAddress, signature string, err error)
}

const (
	defaultAirdropLamports = 1 * domain.LamportsPerSOL
	defaultConfirmTimeout  = 90 * time.Second
	defaultInitialBackoff  = 500 * time.Millisecond
	defaultMaxBackoff      = 8 * time.Second
)

// Flow orchestrates token provisioning.
type Flow struct {
	rpc     solana.RPCClient
	wallets *wallet.Service
	creator TokenCreator
	waiter  solana.SignatureWaiter // optional push-based confirmation
	logger  zerolog.Logger

	airdropLamports uint64
	confirmTimeout  time.Duration
	initialBackoff  time.Duration
	maxBackoff      time.Duration
}

// Option configures a Flow.
type Option func(*Flow)

// WithAirdropLamports overrides the funding amount.
func WithAirdropLamports(lamports uint64) Option {
	return func(f *Flow) { f.airdropLamports = lamports }
}

// WithConfirmTimeout bounds how long the flow waits for funding to settle.
func WithConfirmTimeout(d time.Duration) Option {
	return func(f *Flow) { f.confirmTimeout = d }
}

// WithBackoff overrides the confirmation polling backoff range.
func WithBackoff(initial, max time.Duration) Option {
	return func(f *Flow) {
		f.initialBackoff = initial
		f.maxBackoff = max
	}
}

// WithSignatureWaiter enables push-based confirmation. Polling remains the
// fallback when the subscription fails.
func WithSignatureWaiter(w solana.SignatureWaiter) Option {
	return func(f *Flow) { f.waiter = w }
}

// NewFlow creates a provisioning Flow.
func NewFlow(rpc solana.RPCClient, wallets *wallet.Service, creator TokenCreator, logger zerolog.Logger, opts ...Option) *Flow {
	f := &Flow{
		rpc:             rpc,
		wallets:         wallets,
		creator:         creator,
		logger:          logger.With().Str("component", "provisioning").Logger(),
		airdropLamports: defaultAirdropLamports,
		confirmTimeout:  defaultConfirmTimeout,
		initialBackoff:  defaultInitialBackoff,
		maxBackoff:      defaultMaxBackoff,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ProvisionToken runs the full flow and returns the created token. Any
// failure before mint creation surfaces as ErrProvisioningFailed; failures
// during mint creation surface as ErrTokenCreationFailed. Mint creation is
// never attempted on an unconfirmed funding.
func (f *Flow) ProvisionToken(ctx context.Context, params domain.TokenParams) (*domain.ProvisionedToken, error) {
	start := time.Now()
	state := StateRequested
	logger := f.logger.With().Str("symbol", params.Symbol).Logger()

	fail := func(err error) (*domain.ProvisionedToken, error) {
		logger.Error().Err(err).Str("state", string(state)).Msg("provisioning failed")
		observability.RecordProvisioningOutcome(string(StateFailed), time.Since(start).Seconds())
		return nil, err
	}

	authority, err := f.wallets.CreateWallet(ctx, "authority:"+params.Symbol)
	if err != nil {
		return fail(fmt.Errorf("%w: create authority wallet: %v", domain.ErrProvisioningFailed, err))
	}
	logger = logger.With().Str("authority", authority.PublicKey).Logger()

	fundingSig, err := f.rpc.RequestAirdrop(ctx, authority.PublicKey, f.airdropLamports)
	if err != nil {
		return fail(fmt.Errorf("%w: request airdrop: %v", domain.ErrProvisioningFailed, err))
	}
	if fundingSig == "" {
		return fail(fmt.Errorf("%w: airdrop returned no signature", domain.ErrProvisioningFailed))
	}

	state = StateAwaitingConfirmation
	logger.Info().Str("signature", fundingSig).Msg("funding requested")

	if err := f.awaitConfirmation(ctx, fundingSig); err != nil {
		return fail(fmt.Errorf("%w: confirm funding %s: %v", domain.ErrProvisioningFailed, fundingSig, err))
	}
	state = StateConfirmed

	// The settled balance is informational; a read failure here does not
	// abort a confirmed funding.
	if lamports, err := f.rpc.GetBalance(ctx, authority.PublicKey); err != nil {
		logger.Warn().Err(err).Msg("post-funding balance read failed")
	} else {
		logger.Info().Float64("balance_sol", domain.LamportsToSOL(lamports)).Msg("authority funded")
	}
	state = StateFunded

	mintAddr, mintSig, err := f.creator.CreateMint(ctx, authority.SecretKey, params)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", domain.ErrTokenCreationFailed, err))
	}
	state = StateTokenCreated

	logger.Info().
		Str("mint", mintAddr).
		Str("mint_signature", mintSig).
		Dur("elapsed", time.Since(start)).
		Msg("token provisioned")
	observability.RecordProvisioningOutcome(string(StateTokenCreated), time.Since(start).Seconds())

	return &domain.ProvisionedToken{
		Name:             params.Name,
		Symbol:           params.Symbol,
		Decimals:         params.Decimals,
		TotalSupply:      params.TotalSupply,
		MintAddress:      mintAddr,
		Authority:        authority.PublicKey,
		FundingSignature: fundingSig,
	}, nil
}

// awaitConfirmation waits for the signature to reach confirmed commitment,
// preferring the push subscription when one is wired and falling back to
// polling with capped exponential backoff.
func (f *Flow) awaitConfirmation(ctx context.Context, signature string) error {
	ctx, cancel := context.WithTimeout(ctx, f.confirmTimeout)
	defer cancel()

	if f.waiter != nil {
		ok, err := f.waiter.WaitForSignature(ctx, signature, solana.CommitmentConfirmed)
		if err == nil {
			if !ok {
				return fmt.Errorf("funding transaction failed on chain")
			}
			return nil
		}
		f.logger.Warn().Err(err).Msg("signature subscription failed, falling back to polling")
	}

	backoff := f.initialBackoff
	for {
		confirmed, err := f.rpc.ConfirmTransaction(ctx, signature, solana.CommitmentConfirmed)
		if err != nil {
			return err
		}
		if confirmed {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("confirmation timed out: %w", ctx.Err())
		case <-time.After(backoff):
		}
		if backoff *= 2; backoff > f.maxBackoff {
			backoff = f.maxBackoff
		}
	}
}
