package domain

import "time"

// Direction classifies a transfer relative to the queried wallet.
type Direction string

const (
	DirectionSend    Direction = "send"
	DirectionReceive Direction = "receive"
)

// TxStatus is the ledger confirmation state of a transaction.
type TxStatus string

const (
	TxStatusConfirmed TxStatus = "confirmed"
	TxStatusPending   TxStatus = "pending"
)

// TransactionRecord is a classified ledger entry for a wallet, ordered
// newest-first as the ledger returns signatures.
type TransactionRecord struct {
	Signature   string
	Timestamp   time.Time
	Direction   Direction
	Amount      float64 // display units
	TokenSymbol string
	FromAddress string
	ToAddress   string
	Status      TxStatus
}
