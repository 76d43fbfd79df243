package domain

// TokenBalance is a single token holding, recomputed on every balance
// request. USDValue stays nil until a price feed is wired in.
type TokenBalance struct {
	Mint     string   // token mint address
	UIAmount float64  // display-unit amount as reported by the ledger
	USDValue *float64 // always nil for now
}

// WalletBalanceView combines the native balance with token holdings.
// Token ordering follows the gateway's returned account order.
type WalletBalanceView struct {
	NativeBalance float64 // SOL
	USDValue      *float64
	Tokens        []TokenBalance
}
