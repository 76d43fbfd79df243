package domain

// CandidateToken is a token observed in the recent scan window, ranked by
// how often it was referenced in token-program transactions. Accumulated
// during a single scan and discarded after ranking.
type CandidateToken struct {
	Address            string // mint address
	ParticipationCount uint32 // sightings within the scan window
	Supply             uint64 // decoded from mint account
	Decimals           uint8  // decoded from mint account
}

// TokenParams carries caller-supplied parameters for custom token creation.
type TokenParams struct {
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply uint64
}

// ProvisionedToken is the result of a completed provisioning flow.
type ProvisionedToken struct {
	Name             string
	Symbol           string
	Decimals         uint8
	TotalSupply      uint64 // minted to the authority's holding account
	MintAddress      string // address of the created mint
	Authority        string // public key of the funded authority account
	FundingSignature string // airdrop transaction signature
}
