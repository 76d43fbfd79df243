package solana

// Commitment is a confirmation-finality tier.
type Commitment string

const (
	CommitmentProcessed Commitment = "processed"
	CommitmentConfirmed Commitment = "confirmed"
	CommitmentFinalized Commitment = "finalized"
)

// commitmentRank orders commitment levels for settlement checks.
var commitmentRank = map[Commitment]int{
	CommitmentProcessed: 1,
	CommitmentConfirmed: 2,
	CommitmentFinalized: 3,
}

// PerfSample from getRecentPerformanceSamples.
type PerfSample struct {
	Slot            uint64
	NumTransactions uint32
}

// SignatureInfo from getSignaturesForAddress.
type SignatureInfo struct {
	Signature          string
	Slot               uint64
	BlockTime          *int64
	Err                interface{}
	ConfirmationStatus string // "processed" | "confirmed" | "finalized" | ""
}

// SignaturesOpts defines optional pagination parameters for getSignaturesForAddress.
type SignaturesOpts struct {
	Before string // Start searching backwards from this signature
	Until  string // Search until this signature
	Limit  int    // Maximum number of signatures to return
}

// Block represents a Solana block.
type Block struct {
	Slot         uint64
	BlockTime    *int64
	Transactions []Transaction
}

// Transaction represents a Solana transaction.
type Transaction struct {
	Slot      uint64
	Signature string
	BlockTime int64 // Unix timestamp (seconds)
	Meta      *TransactionMeta
	Message   *TransactionMessage
	// Transfer is the first instruction decoded as a simple system
	// transfer, nil when the first instruction is anything else.
	Transfer *TransferInstruction
}

// TransactionMeta contains transaction metadata.
type TransactionMeta struct {
	Err         interface{}
	LogMessages []string
}

// TransactionMessage contains parsed transaction message.
type TransactionMessage struct {
	AccountKeys []string
}

// TransferInstruction is a parsed native transfer.
type TransferInstruction struct {
	Source      string
	Destination string
	Lamports    uint64
}

// AccountInfo represents Solana account information.
type AccountInfo struct {
	Lamports   uint64
	Owner      string
	Data       string // base64 encoded
	Executable bool
	RentEpoch  uint64
}

// TokenAccount is a jsonParsed SPL token account. Fields are pointers
// where the parsed payload may be partially absent; callers decide how
// to treat incomplete entries.
type TokenAccount struct {
	Pubkey   string
	Mint     string
	UIAmount *float64
}
