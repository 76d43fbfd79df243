package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"solana-wallet-backend/internal/domain"
	"solana-wallet-backend/internal/storage"
	"solana-wallet-backend/internal/wallet"
)

// errorEnvelope is the JSON body of every non-2xx response.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type tokenJSON struct {
	Address            string `json:"address"`
	ParticipationCount uint32 `json:"participation_count"`
	Supply             uint64 `json:"supply"`
	Decimals           uint8  `json:"decimals"`
}

type trendingResponse struct {
	Tokens []tokenJSON `json:"tokens"`
}

type walletJSON struct {
	PublicKey string    `json:"public_key"`
	SecretKey string    `json:"secret_key,omitempty"` // only on creation
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type walletListResponse struct {
	Wallets []walletJSON `json:"wallets"`
}

type tokenBalanceJSON struct {
	Mint     string   `json:"mint"`
	UIAmount float64  `json:"ui_amount"`
	USDValue *float64 `json:"usd_value"`
}

type balanceResponse struct {
	NativeBalance float64            `json:"native_balance"`
	USDValue      *float64           `json:"usd_value"`
	Tokens        []tokenBalanceJSON `json:"tokens"`
}

type transactionJSON struct {
	Signature   string    `json:"signature"`
	Timestamp   time.Time `json:"timestamp"`
	Direction   string    `json:"direction"`
	Amount      float64   `json:"amount"`
	TokenSymbol string    `json:"token_symbol"`
	FromAddress string    `json:"from_address"`
	ToAddress   string    `json:"to_address"`
	Status      string    `json:"status"`
}

type transactionsResponse struct {
	Transactions []transactionJSON `json:"transactions"`
}

type createTokenRequest struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    uint8  `json:"decimals"`
	TotalSupply uint64 `json:"total_supply"`
}

type provisionedTokenJSON struct {
	Name             string `json:"name"`
	Symbol           string `json:"symbol"`
	Decimals         uint8  `json:"decimals"`
	TotalSupply      uint64 `json:"total_supply"`
	MintAddress      string `json:"mint_address"`
	Authority        string `json:"authority"`
	FundingSignature string `json:"funding_signature"`
}

type createWalletRequest struct {
	Name string `json:"name"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// writeDomainError maps the failure taxonomy onto HTTP statuses. Unknown
// errors deliberately collapse to a bare 500 so internals never leak.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wallet.ErrInvalidAddress), errors.Is(err, storage.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_address", err.Error())
	case errors.Is(err, domain.ErrWalletNotFound):
		writeError(w, http.StatusNotFound, "wallet_not_found", err.Error())
	case errors.Is(err, domain.ErrRPCUnavailable):
		writeError(w, http.StatusServiceUnavailable, "rpc_unavailable", "chain RPC endpoint is unreachable")
	case errors.Is(err, domain.ErrUpstreamDataUnavailable), errors.Is(err, domain.ErrBalanceFetch):
		writeError(w, http.StatusBadGateway, "upstream_data_unavailable", "chain RPC endpoint returned no usable data")
	case errors.Is(err, domain.ErrProvisioningFailed):
		writeError(w, http.StatusInternalServerError, "provisioning_failed", "token provisioning failed")
	case errors.Is(err, domain.ErrTokenCreationFailed):
		writeError(w, http.StatusInternalServerError, "token_creation_failed", "token mint creation failed")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
