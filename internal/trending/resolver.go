package trending

import (
	"context"
	"encoding/base64"
	"encoding/binary"

	"solana-wallet-backend/internal/domain"
	"solana-wallet-backend/internal/solana"
)

// SPL mint account layout:
// mint_authority_option(4) | mint_authority(32) | supply(8 LE) | decimals(1) | is_initialized(1) | ...
const (
	mintAccountSize   = 82
	mintSupplyOffset  = 36
	mintDecimalsIndex = 44
	mintInitIndex     = 45
)

// ResolutionStatus classifies a mint-metadata lookup outcome.
type ResolutionStatus int

const (
	// ResolutionResolved means the address is an initialized mint and
	// supply/decimals were decoded.
	ResolutionResolved ResolutionStatus = iota
	// ResolutionNotAToken means the address exists but is not a mint, or
	// does not exist at all. Permanent within a scan.
	ResolutionNotAToken
	// ResolutionUnavailable means the lookup failed transiently; the
	// address may still be a valid mint.
	ResolutionUnavailable
)

// Resolution is the outcome of a mint-metadata lookup.
type Resolution struct {
	Status   ResolutionStatus
	Supply   uint64
	Decimals uint8
}

// MintResolver fetches and decodes mint accounts.
type MintResolver struct {
	rpc solana.RPCClient
}

// NewMintResolver creates a new MintResolver.
func NewMintResolver(rpc solana.RPCClient) *MintResolver {
	return &MintResolver{rpc: rpc}
}

// Resolve looks up the address and decodes it as an SPL mint. It separates
// "not a token" from "could not find out right now" so callers can decide
// whether a candidate is permanently discarded.
func (r *MintResolver) Resolve(ctx context.Context, address string) Resolution {
	info, err := r.rpc.GetAccountInfo(ctx, address)
	if err != nil {
		return Resolution{Status: ResolutionUnavailable}
	}
	if info == nil || info.Owner != domain.TokenProgramID {
		return Resolution{Status: ResolutionNotAToken}
	}

	supply, decimals, ok := decodeMint(info.Data)
	if !ok {
		return Resolution{Status: ResolutionNotAToken}
	}

	return Resolution{
		Status:   ResolutionResolved,
		Supply:   supply,
		Decimals: decimals,
	}
}

// decodeMint parses base64 SPL mint account data.
func decodeMint(data string) (supply uint64, decimals uint8, ok bool) {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return 0, 0, false
	}
	if len(decoded) < mintAccountSize {
		return 0, 0, false
	}
	if decoded[mintInitIndex] == 0 {
		return 0, 0, false
	}

	supply = binary.LittleEndian.Uint64(decoded[mintSupplyOffset : mintSupplyOffset+8])
	decimals = decoded[mintDecimalsIndex]
	return supply, decimals, true
}
