package trending

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"testing"

	"solana-wallet-backend/internal/domain"
	"solana-wallet-backend/internal/solana"
	"solana-wallet-backend/internal/solana/stub"
)

// mintData builds base64 SPL mint account data.
func mintData(supply uint64, decimals uint8, initialized bool) string {
	raw := make([]byte, mintAccountSize)
	binary.LittleEndian.PutUint64(raw[mintSupplyOffset:], supply)
	raw[mintDecimalsIndex] = decimals
	if initialized {
		raw[mintInitIndex] = 1
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func TestResolveMint(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.Accounts["mint1"] = &solana.AccountInfo{
		Owner: domain.TokenProgramID,
		Data:  mintData(1_000_000, 6, true),
	}

	res := NewMintResolver(rpc).Resolve(context.Background(), "mint1")
	if res.Status != ResolutionResolved {
		t.Fatalf("status = %v, want resolved", res.Status)
	}
	if res.Supply != 1_000_000 {
		t.Errorf("supply = %d, want 1000000", res.Supply)
	}
	if res.Decimals != 6 {
		t.Errorf("decimals = %d, want 6", res.Decimals)
	}
}

func TestResolveNotAToken(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.Accounts["sysacct"] = &solana.AccountInfo{
		Owner: "11111111111111111111111111111111",
		Data:  mintData(5, 0, true),
	}
	rpc.Accounts["short"] = &solana.AccountInfo{
		Owner: domain.TokenProgramID,
		Data:  base64.StdEncoding.EncodeToString([]byte{1, 2, 3}),
	}
	rpc.Accounts["uninit"] = &solana.AccountInfo{
		Owner: domain.TokenProgramID,
		Data:  mintData(5, 0, false),
	}
	rpc.Accounts["garbage"] = &solana.AccountInfo{
		Owner: domain.TokenProgramID,
		Data:  "not base64!!!",
	}

	r := NewMintResolver(rpc)
	for _, addr := range []string{"sysacct", "short", "uninit", "garbage", "missing"} {
		res := r.Resolve(context.Background(), addr)
		if res.Status != ResolutionNotAToken {
			t.Errorf("Resolve(%q).Status = %v, want not-a-token", addr, res.Status)
		}
	}
}

func TestResolveUnavailable(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.AccountErrs["flaky"] = stub.ErrUnavailable

	res := NewMintResolver(rpc).Resolve(context.Background(), "flaky")
	if res.Status != ResolutionUnavailable {
		t.Fatalf("status = %v, want unavailable", res.Status)
	}
}
