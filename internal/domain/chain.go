package domain

// TokenProgramID is the SPL token program address. Its presence among a
// transaction's account keys marks the transaction as token-related.
const TokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

// LamportsPerSOL is the fixed scale between the smallest native unit and
// the display unit.
const LamportsPerSOL = 1_000_000_000

// LamportsToSOL converts a smallest-unit amount to display units.
func LamportsToSOL(lamports uint64) float64 {
	return float64(lamports) / float64(LamportsPerSOL)
}
