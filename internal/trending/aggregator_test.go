package trending

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"solana-wallet-backend/internal/domain"
	"solana-wallet-backend/internal/solana"
	"solana-wallet-backend/internal/solana/stub"
)

func tokenTx(keys ...string) solana.Transaction {
	return solana.Transaction{
		Message: &solana.TransactionMessage{
			AccountKeys: append(keys, domain.TokenProgramID),
		},
	}
}

func addMint(rpc *stub.RPCClient, address string, supply uint64, decimals uint8) {
	rpc.Accounts[address] = &solana.AccountInfo{
		Owner: domain.TokenProgramID,
		Data:  mintData(supply, decimals, true),
	}
}

func TestFindTrendingTokensRanksByParticipation(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.PerfSamples = []solana.PerfSample{{Slot: 100}, {Slot: 101}}
	addMint(rpc, "mintA", 1000, 9)
	addMint(rpc, "mintB", 2000, 6)
	rpc.AddBlock(&solana.Block{Slot: 100, Transactions: []solana.Transaction{
		tokenTx("mintA", "mintB"),
		tokenTx("mintA"),
	}})
	rpc.AddBlock(&solana.Block{Slot: 101, Transactions: []solana.Transaction{
		tokenTx("mintA"),
	}})

	tokens, err := NewAggregator(rpc, zerolog.Nop()).FindTrendingTokens(context.Background(), 10)
	if err != nil {
		t.Fatalf("FindTrendingTokens: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("len(tokens) = %d, want 2", len(tokens))
	}
	if tokens[0].Address != "mintA" || tokens[0].ParticipationCount != 3 {
		t.Errorf("tokens[0] = %+v, want mintA with count 3", tokens[0])
	}
	if tokens[1].Address != "mintB" || tokens[1].ParticipationCount != 1 {
		t.Errorf("tokens[1] = %+v, want mintB with count 1", tokens[1])
	}
	if tokens[0].Supply != 1000 || tokens[0].Decimals != 9 {
		t.Errorf("mintA metadata = supply %d decimals %d, want 1000/9", tokens[0].Supply, tokens[0].Decimals)
	}
}

func TestFindTrendingTokensTieBreaksByFirstSeen(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.PerfSamples = []solana.PerfSample{{Slot: 50}}
	addMint(rpc, "first", 1, 0)
	addMint(rpc, "second", 1, 0)
	rpc.AddBlock(&solana.Block{Slot: 50, Transactions: []solana.Transaction{
		tokenTx("first", "second"),
	}})

	tokens, err := NewAggregator(rpc, zerolog.Nop()).FindTrendingTokens(context.Background(), 10)
	if err != nil {
		t.Fatalf("FindTrendingTokens: %v", err)
	}
	if len(tokens) != 2 || tokens[0].Address != "first" || tokens[1].Address != "second" {
		t.Fatalf("tie-break order = %+v, want first then second", tokens)
	}
}

func TestFindTrendingTokensHonorsLimit(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.PerfSamples = []solana.PerfSample{{Slot: 7}}
	addMint(rpc, "a", 1, 0)
	addMint(rpc, "b", 1, 0)
	addMint(rpc, "c", 1, 0)
	rpc.AddBlock(&solana.Block{Slot: 7, Transactions: []solana.Transaction{
		tokenTx("a", "b", "c"),
		tokenTx("a", "b"),
		tokenTx("a"),
	}})

	tokens, err := NewAggregator(rpc, zerolog.Nop()).FindTrendingTokens(context.Background(), 2)
	if err != nil {
		t.Fatalf("FindTrendingTokens: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("len(tokens) = %d, want 2", len(tokens))
	}
	if tokens[0].Address != "a" || tokens[1].Address != "b" {
		t.Errorf("top 2 = %s, %s; want a, b", tokens[0].Address, tokens[1].Address)
	}
}

func TestFindTrendingTokensSkipsUnavailableBlocks(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.PerfSamples = []solana.PerfSample{{Slot: 1}, {Slot: 2}, {Slot: 3}}
	addMint(rpc, "mintA", 10, 2)
	// Slots 1 and 3 are pruned; only slot 2 resolves.
	rpc.AddBlock(&solana.Block{Slot: 2, Transactions: []solana.Transaction{
		tokenTx("mintA"),
	}})

	tokens, err := NewAggregator(rpc, zerolog.Nop()).FindTrendingTokens(context.Background(), 10)
	if err != nil {
		t.Fatalf("FindTrendingTokens: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Address != "mintA" {
		t.Fatalf("tokens = %+v, want just mintA", tokens)
	}
}

func TestFindTrendingTokensAllBlocksUnavailable(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.PerfSamples = []solana.PerfSample{{Slot: 1}, {Slot: 2}}

	_, err := NewAggregator(rpc, zerolog.Nop()).FindTrendingTokens(context.Background(), 10)
	if !errors.Is(err, domain.ErrUpstreamDataUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamDataUnavailable", err)
	}
}

func TestFindTrendingTokensNoSamples(t *testing.T) {
	rpc := stub.NewRPCClient()

	_, err := NewAggregator(rpc, zerolog.Nop()).FindTrendingTokens(context.Background(), 10)
	if !errors.Is(err, domain.ErrUpstreamDataUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamDataUnavailable", err)
	}
}

func TestFindTrendingTokensSampleFetchError(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.PerfErr = stub.ErrUnavailable

	_, err := NewAggregator(rpc, zerolog.Nop()).FindTrendingTokens(context.Background(), 10)
	if !errors.Is(err, stub.ErrUnavailable) {
		t.Fatalf("err = %v, want wrapped stub.ErrUnavailable", err)
	}
}

func TestFindTrendingTokensIgnoresNonTokenTransactions(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.PerfSamples = []solana.PerfSample{{Slot: 9}}
	addMint(rpc, "mintA", 1, 0)
	rpc.AddBlock(&solana.Block{Slot: 9, Transactions: []solana.Transaction{
		// Plain transfer, no token program involvement.
		{Message: &solana.TransactionMessage{AccountKeys: []string{"mintA", "somebody"}}},
	}})

	tokens, err := NewAggregator(rpc, zerolog.Nop()).FindTrendingTokens(context.Background(), 10)
	if err != nil {
		t.Fatalf("FindTrendingTokens: %v", err)
	}
	if len(tokens) != 0 {
		t.Fatalf("tokens = %+v, want none", tokens)
	}
}

func TestFindTrendingTokensDiscardsNonMints(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.PerfSamples = []solana.PerfSample{{Slot: 4}}
	addMint(rpc, "mintA", 1, 0)
	rpc.Accounts["wallet1"] = &solana.AccountInfo{Owner: "11111111111111111111111111111111"}
	rpc.AddBlock(&solana.Block{Slot: 4, Transactions: []solana.Transaction{
		tokenTx("wallet1", "mintA"),
		tokenTx("wallet1", "mintA"),
	}})

	tokens, err := NewAggregator(rpc, zerolog.Nop()).FindTrendingTokens(context.Background(), 10)
	if err != nil {
		t.Fatalf("FindTrendingTokens: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Address != "mintA" || tokens[0].ParticipationCount != 2 {
		t.Fatalf("tokens = %+v, want mintA with count 2", tokens)
	}
}

func TestFindTrendingTokensRetriesUnavailableMetadata(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.PerfSamples = []solana.PerfSample{{Slot: 4}}
	rpc.AccountErrs["flaky"] = stub.ErrUnavailable
	addMint(rpc, "mintA", 1, 0)
	rpc.AddBlock(&solana.Block{Slot: 4, Transactions: []solana.Transaction{
		tokenTx("flaky", "mintA"),
	}})

	// A transient metadata failure drops the sighting but must not fail
	// the scan or poison the other candidates.
	tokens, err := NewAggregator(rpc, zerolog.Nop()).FindTrendingTokens(context.Background(), 10)
	if err != nil {
		t.Fatalf("FindTrendingTokens: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Address != "mintA" {
		t.Fatalf("tokens = %+v, want just mintA", tokens)
	}
}
