package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"solana-wallet-backend/internal/domain"
)

// TrendingFinder discovers ranked candidate tokens from recent activity.
type TrendingFinder interface {
	FindTrendingTokens(ctx context.Context, limit int) ([]domain.CandidateToken, error)
}

// TokenProvisioner runs the funded-account token creation flow.
type TokenProvisioner interface {
	ProvisionToken(ctx context.Context, params domain.TokenParams) (*domain.ProvisionedToken, error)
}

// WalletManager handles wallet lifecycle.
type WalletManager interface {
	CreateWallet(ctx context.Context, name string) (*domain.Wallet, error)
	GetWallet(ctx context.Context, publicKey string) (*domain.Wallet, error)
	ListWallets(ctx context.Context) ([]*domain.Wallet, error)
}

// BalanceProvider reconstructs wallet holdings from chain state.
type BalanceProvider interface {
	GetBalance(ctx context.Context, address string) (*domain.WalletBalanceView, error)
}

// HistoryProvider reconstructs classified transfer history.
type HistoryProvider interface {
	GetTransactions(ctx context.Context, address string, limit int, before string) ([]domain.TransactionRecord, error)
}

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	trending    TrendingFinder
	provisioner TokenProvisioner
	wallets     WalletManager
	balances    BalanceProvider
	history     HistoryProvider
	logger      zerolog.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(trending TrendingFinder, provisioner TokenProvisioner, wallets WalletManager, balances BalanceProvider, history HistoryProvider, logger zerolog.Logger) *Handlers {
	return &Handlers{
		trending:    trending,
		provisioner: provisioner,
		wallets:     wallets,
		balances:    balances,
		history:     history,
		logger:      logger.With().Str("component", "api").Logger(),
	}
}

// TrendingTokens handles GET /tokens/trending.
func (h *Handlers) TrendingTokens(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", 0)
	if !ok {
		return
	}
	tokens, err := h.trending.FindTrendingTokens(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("trending scan failed")
		writeDomainError(w, err)
		return
	}

	resp := trendingResponse{Tokens: make([]tokenJSON, len(tokens))}
	for i, t := range tokens {
		resp.Tokens[i] = tokenJSON{
			Address:            t.Address,
			ParticipationCount: t.ParticipationCount,
			Supply:             t.Supply,
			Decimals:           t.Decimals,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateCustomToken handles POST /tokens/custom.
func (h *Handlers) CreateCustomToken(w http.ResponseWriter, r *http.Request) {
	var req createTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body is not valid JSON")
		return
	}
	if req.Name == "" || req.Symbol == "" || req.TotalSupply == 0 {
		writeError(w, http.StatusBadRequest, "invalid_body", "name, symbol and total_supply are required")
		return
	}

	tok, err := h.provisioner.ProvisionToken(r.Context(), domain.TokenParams{
		Name:        req.Name,
		Symbol:      req.Symbol,
		Decimals:    req.Decimals,
		TotalSupply: req.TotalSupply,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("symbol", req.Symbol).Msg("token provisioning failed")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, provisionedTokenJSON{
		Name:             tok.Name,
		Symbol:           tok.Symbol,
		Decimals:         tok.Decimals,
		TotalSupply:      tok.TotalSupply,
		MintAddress:      tok.MintAddress,
		Authority:        tok.Authority,
		FundingSignature: tok.FundingSignature,
	})
}

// CreateWallet handles POST /wallets. The secret key appears in this
// response and nowhere else.
func (h *Handlers) CreateWallet(w http.ResponseWriter, r *http.Request) {
	var req createWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body is not valid JSON")
		return
	}

	created, err := h.wallets.CreateWallet(r.Context(), req.Name)
	if err != nil {
		h.logger.Error().Err(err).Msg("wallet creation failed")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, walletJSON{
		PublicKey: created.PublicKey,
		SecretKey: created.SecretKey,
		Name:      created.Name,
		CreatedAt: created.CreatedAt,
	})
}

// ListWallets handles GET /wallets.
func (h *Handlers) ListWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.wallets.ListWallets(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("wallet listing failed")
		writeDomainError(w, err)
		return
	}

	resp := walletListResponse{Wallets: make([]walletJSON, len(wallets))}
	for i, wlt := range wallets {
		resp.Wallets[i] = walletJSON{
			PublicKey: wlt.PublicKey,
			Name:      wlt.Name,
			CreatedAt: wlt.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetWallet handles GET /wallets/{address}.
func (h *Handlers) GetWallet(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]
	wlt, err := h.wallets.GetWallet(r.Context(), address)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, walletJSON{
		PublicKey: wlt.PublicKey,
		Name:      wlt.Name,
		CreatedAt: wlt.CreatedAt,
	})
}

// WalletBalance handles GET /wallets/{address}/balance.
func (h *Handlers) WalletBalance(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]
	view, err := h.balances.GetBalance(r.Context(), address)
	if err != nil {
		h.logger.Error().Err(err).Str("address", address).Msg("balance fetch failed")
		writeDomainError(w, err)
		return
	}

	resp := balanceResponse{
		NativeBalance: view.NativeBalance,
		USDValue:      view.USDValue,
		Tokens:        make([]tokenBalanceJSON, len(view.Tokens)),
	}
	for i, t := range view.Tokens {
		resp.Tokens[i] = tokenBalanceJSON{
			Mint:     t.Mint,
			UIAmount: t.UIAmount,
			USDValue: t.USDValue,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// WalletTransactions handles GET /wallets/{address}/transactions.
func (h *Handlers) WalletTransactions(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]
	limit, ok := queryInt(w, r, "limit", 0)
	if !ok {
		return
	}
	before := r.URL.Query().Get("before")

	records, err := h.history.GetTransactions(r.Context(), address, limit, before)
	if err != nil {
		h.logger.Error().Err(err).Str("address", address).Msg("history fetch failed")
		writeDomainError(w, err)
		return
	}

	resp := transactionsResponse{Transactions: make([]transactionJSON, len(records))}
	for i, rec := range records {
		resp.Transactions[i] = transactionJSON{
			Signature:   rec.Signature,
			Timestamp:   rec.Timestamp,
			Direction:   string(rec.Direction),
			Amount:      rec.Amount,
			TokenSymbol: rec.TokenSymbol,
			FromAddress: rec.FromAddress,
			ToAddress:   rec.ToAddress,
			Status:      string(rec.Status),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound is the router fallback.
func (h *Handlers) NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "not_found", "unknown route")
}

// queryInt parses an optional non-negative integer query parameter. It
// writes a 400 and returns false on malformed input.
func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		writeError(w, http.StatusBadRequest, "invalid_query", name+" must be a non-negative integer")
		return 0, false
	}
	return v, true
}
