package domain

import "time"

// Wallet represents a locally managed keypair.
// Corresponds to wallets table in PostgreSQL.
type Wallet struct {
	PublicKey string    // base58-encoded ed25519 public key, PRIMARY KEY
	SecretKey string    // base58-encoded private key; never crosses the API boundary after creation
	Name      string    // user-assigned label
	CreatedAt time.Time // record creation time
}
