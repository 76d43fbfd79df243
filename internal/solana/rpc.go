package solana

import "context"

// RPCClient defines the Solana RPC HTTP interface consumed by the
// aggregation components. Methods returning a pointer yield (nil, nil)
// when the requested resource is absent (pruned block, unknown account,
// not-yet-indexed transaction); absence is not an error and callers skip
// the affected unit of work unless it is the primary requested resource.
type RPCClient interface {
	// GetRecentPerformanceSamples retrieves up to limit recent samples,
	// newest first.
	GetRecentPerformanceSamples(ctx context.Context, limit int) ([]PerfSample, error)

	// GetBlock retrieves a block by slot number with full transactions.
	GetBlock(ctx context.Context, slot uint64) (*Block, error)

	// GetAccountInfo retrieves account info by public key.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)

	// GetBalance retrieves the native balance in lamports.
	GetBalance(ctx context.Context, pubkey string) (uint64, error)

	// GetTokenAccountsByOwner retrieves parsed SPL token accounts owned
	// by the address, in the order the ledger returns them.
	GetTokenAccountsByOwner(ctx context.Context, owner string) ([]TokenAccount, error)

	// GetSignaturesForAddress retrieves signatures for an address with
	// cursor pagination, newest first.
	GetSignaturesForAddress(ctx context.Context, address string, opts *SignaturesOpts) ([]SignatureInfo, error)

	// GetTransaction retrieves a transaction by signature.
	GetTransaction(ctx context.Context, signature string) (*Transaction, error)

	// RequestAirdrop requests lamports for an address and returns the
	// funding transaction signature. An empty signature with nil error
	// means the endpoint accepted the call but returned nothing.
	RequestAirdrop(ctx context.Context, pubkey string, lamports uint64) (string, error)

	// ConfirmTransaction reports whether the signature has settled at the
	// given commitment level.
	ConfirmTransaction(ctx context.Context, signature string, commitment Commitment) (bool, error)
}
