package domain

import "errors"

// Failure taxonomy for chain-facing operations. Per-item failures inside a
// scan (missing block, unparseable token account, pruned transaction) are
// skipped at the item boundary and never surface as these errors.
var (
	// ErrRPCUnavailable indicates the remote RPC endpoint could not be
	// reached (network error or timeout after retries were exhausted).
	ErrRPCUnavailable = errors.New("rpc endpoint unavailable")

	// ErrUpstreamDataUnavailable indicates the endpoint was reachable but
	// returned no usable base data, e.g. empty performance samples.
	ErrUpstreamDataUnavailable = errors.New("upstream returned no usable data")

	// ErrBalanceFetch indicates the native balance for a wallet could not
	// be determined. A wallet always has a defined (possibly zero) balance,
	// so an absent result here is a gateway malfunction.
	ErrBalanceFetch = errors.New("native balance fetch failed")

	// ErrProvisioningFailed indicates the funding request or its
	// confirmation failed before token creation was attempted.
	ErrProvisioningFailed = errors.New("funding provisioning failed")

	// ErrTokenCreationFailed indicates the mint creation step failed after
	// the funding account was provisioned.
	ErrTokenCreationFailed = errors.New("token mint creation failed")

	// ErrWalletNotFound indicates the referenced wallet does not exist in
	// the wallet store.
	ErrWalletNotFound = errors.New("wallet not found")
)
