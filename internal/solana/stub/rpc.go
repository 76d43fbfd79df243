// Package stub provides an in-memory RPCClient for tests.
package stub

import (
	"context"
	"errors"

	"solana-wallet-backend/internal/solana"
)

// ErrUnavailable simulates a transport-level failure.
var ErrUnavailable = errors.New("stub: endpoint unavailable")

// RPCClient implements solana.RPCClient for testing. Absent entries behave
// like the real client: nil result, nil error. Err fields inject failures.
type RPCClient struct {
	PerfSamples []solana.PerfSample
	PerfErr     error

	Blocks    map[uint64]*solana.Block
	BlockErrs map[uint64]error

	Accounts    map[string]*solana.AccountInfo
	AccountErrs map[string]error

	Balances    map[string]uint64
	BalanceErrs map[string]error

	TokenAccounts    map[string][]solana.TokenAccount
	TokenAccountErrs map[string]error

	Signatures   map[string][]solana.SignatureInfo
	Transactions map[string]*solana.Transaction

	AirdropSignature string
	AirdropErr       error
	AirdropRequests  int

	Confirmed    map[string]bool
	ConfirmErr   error
	ConfirmCalls int
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Blocks:           make(map[uint64]*solana.Block),
		BlockErrs:        make(map[uint64]error),
		Accounts:         make(map[string]*solana.AccountInfo),
		AccountErrs:      make(map[string]error),
		Balances:         make(map[string]uint64),
		BalanceErrs:      make(map[string]error),
		TokenAccounts:    make(map[string][]solana.TokenAccount),
		TokenAccountErrs: make(map[string]error),
		Signatures:       make(map[string][]solana.SignatureInfo),
		Transactions:     make(map[string]*solana.Transaction),
		Confirmed:        make(map[string]bool),
	}
}

// Compile-time interface check.
var _ solana.RPCClient = (*RPCClient)(nil)

func (c *RPCClient) GetRecentPerformanceSamples(_ context.Context, limit int) ([]solana.PerfSample, error) {
	if c.PerfErr != nil {
		return nil, c.PerfErr
	}
	if limit > 0 && limit < len(c.PerfSamples) {
		return c.PerfSamples[:limit], nil
	}
	return c.PerfSamples, nil
}

func (c *RPCClient) GetBlock(_ context.Context, slot uint64) (*solana.Block, error) {
	if err, ok := c.BlockErrs[slot]; ok {
		return nil, err
	}
	return c.Blocks[slot], nil
}

func (c *RPCClient) GetAccountInfo(_ context.Context, pubkey string) (*solana.AccountInfo, error) {
	if err, ok := c.AccountErrs[pubkey]; ok {
		return nil, err
	}
	return c.Accounts[pubkey], nil
}

func (c *RPCClient) GetBalance(_ context.Context, pubkey string) (uint64, error) {
	if err, ok := c.BalanceErrs[pubkey]; ok {
		return 0, err
	}
	return c.Balances[pubkey], nil
}

func (c *RPCClient) GetTokenAccountsByOwner(_ context.Context, owner string) ([]solana.TokenAccount, error) {
	if err, ok := c.TokenAccountErrs[owner]; ok {
		return nil, err
	}
	return c.TokenAccounts[owner], nil
}

func (c *RPCClient) GetSignaturesForAddress(_ context.Context, address string, opts *solana.SignaturesOpts) ([]solana.SignatureInfo, error) {
	sigs := c.Signatures[address]

	// Cursor pagination: start strictly after the Before signature.
	if opts != nil && opts.Before != "" {
		start := len(sigs)
		for i, s := range sigs {
			if s.Signature == opts.Before {
				start = i + 1
				break
			}
		}
		sigs = sigs[start:]
	}

	if opts != nil && opts.Limit > 0 && opts.Limit < len(sigs) {
		return sigs[:opts.Limit], nil
	}
	return sigs, nil
}

func (c *RPCClient) GetTransaction(_ context.Context, signature string) (*solana.Transaction, error) {
	return c.Transactions[signature], nil
}

func (c *RPCClient) RequestAirdrop(_ context.Context, _ string, _ uint64) (string, error) {
	c.AirdropRequests++
	if c.AirdropErr != nil {
		return "", c.AirdropErr
	}
	return c.AirdropSignature, nil
}

func (c *RPCClient) ConfirmTransaction(_ context.Context, signature string, _ solana.Commitment) (bool, error) {
	c.ConfirmCalls++
	if c.ConfirmErr != nil {
		return false, c.ConfirmErr
	}
	return c.Confirmed[signature], nil
}

// AddBlock adds a block to the stub store.
func (c *RPCClient) AddBlock(block *solana.Block) {
	c.Blocks[block.Slot] = block
}

// AddTransaction adds a transaction to the stub store.
func (c *RPCClient) AddTransaction(tx *solana.Transaction) {
	c.Transactions[tx.Signature] = tx
}

// AddSignatures adds signatures for an address to the stub store.
func (c *RPCClient) AddSignatures(address string, sigs []solana.SignatureInfo) {
	c.Signatures[address] = sigs
}
