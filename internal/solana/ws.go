package solana

import "context"

// SignatureWaiter waits for transaction settlement notifications pushed
// over a WebSocket subscription, avoiding status polling when the endpoint
// offers a WS port.
type SignatureWaiter interface {
	// WaitForSignature blocks until the signature reaches the commitment
	// level, the subscription fails, or ctx is done. The returned bool is
	// false when the transaction settled with a ledger error.
	WaitForSignature(ctx context.Context, signature string, commitment Commitment) (bool, error)

	// Close closes the WebSocket connection.
	Close() error
}
