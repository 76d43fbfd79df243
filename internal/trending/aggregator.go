package trending

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"solana-wallet-backend/internal/domain"
	"solana-wallet-backend/internal/observability"
	"solana-wallet-backend/internal/solana"
	"solana-wallet-backend/internal/storage"
)

// perfSampleWindow is how many recent performance samples seed a scan.
const perfSampleWindow = 5

// DefaultLimit is the number of trending tokens returned when the caller
// does not specify one.
const DefaultLimit = 10

// Aggregator discovers trending tokens by scanning recent blocks for
// token-program activity and ranking mints by how often they appear.
type Aggregator struct {
	rpc       solana.RPCClient
	resolver  *MintResolver
	snapshots storage.TrendingSnapshotStore
	logger    zerolog.Logger
}

// NewAggregator creates an Aggregator over the given RPC client.
func NewAggregator(rpc solana.RPCClient, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		rpc:      rpc,
		resolver: NewMintResolver(rpc),
		logger:   logger.With().Str("component", "trending").Logger(),
	}
}

// WithSnapshotStore enables best-effort persistence of ranked scan results.
func (a *Aggregator) WithSnapshotStore(store storage.TrendingSnapshotStore) *Aggregator {
	a.snapshots = store
	return a
}

// candidate tracks a mint sighted during a scan. order preserves first-seen
// position so equally ranked tokens come out in a stable order.
type candidate struct {
	token domain.CandidateToken
	order int
}

// FindTrendingTokens scans the blocks referenced by the most recent
// performance samples and returns up to limit candidate tokens ranked by
// participation count, most active first. Blocks the RPC node has pruned
// are skipped; the scan fails only when no block could be read at all.
func (a *Aggregator) FindTrendingTokens(ctx context.Context, limit int) ([]domain.CandidateToken, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	start := time.Now()

	samples, err := a.rpc.GetRecentPerformanceSamples(ctx, perfSampleWindow)
	if err != nil {
		observability.RecordTrendingScan("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("fetch performance samples: %w", err)
	}
	if len(samples) == 0 {
		observability.RecordTrendingScan("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("no recent performance samples: %w", domain.ErrUpstreamDataUnavailable)
	}

	seen := make(map[string]*candidate)
	notAToken := make(map[string]bool)
	scannedBlocks := 0

	for _, sample := range samples {
		block, err := a.rpc.GetBlock(ctx, sample.Slot)
		if err != nil {
			observability.RecordTrendingScan("error", time.Since(start).Seconds())
			return nil, fmt.Errorf("fetch block %d: %w", sample.Slot, err)
		}
		if block == nil {
			a.logger.Debug().Uint64("slot", sample.Slot).Msg("block unavailable, skipping")
			observability.RecordBlockSkipped()
			continue
		}
		scannedBlocks++
		a.scanBlock(ctx, block, seen, notAToken)
	}

	if scannedBlocks == 0 {
		observability.RecordTrendingScan("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("no scannable blocks in sample window: %w", domain.ErrUpstreamDataUnavailable)
	}

	ranked := rank(seen, limit)

	a.logger.Info().
		Int("blocks", scannedBlocks).
		Int("candidates", len(seen)).
		Int("returned", len(ranked)).
		Dur("elapsed", time.Since(start)).
		Msg("trending scan complete")
	observability.RecordTrendingScan("ok", time.Since(start).Seconds())

	if a.snapshots != nil {
		if err := a.snapshots.InsertScan(ctx, start, ranked); err != nil {
			a.logger.Warn().Err(err).Msg("trending snapshot write failed")
		}
	}
	return ranked, nil
}

// scanBlock counts one sighting per mint per transaction that touches the
// token program. Addresses proven not to be mints are discarded for the
// rest of the scan; transient resolution failures are retried on the next
// sighting.
func (a *Aggregator) scanBlock(ctx context.Context, block *solana.Block, seen map[string]*candidate, notAToken map[string]bool) {
	for _, tx := range block.Transactions {
		if tx.Message == nil || !touchesTokenProgram(tx.Message.AccountKeys) {
			continue
		}
		for _, key := range tx.Message.AccountKeys {
			if key == domain.TokenProgramID || notAToken[key] {
				continue
			}
			if c, ok := seen[key]; ok {
				c.token.ParticipationCount++
				continue
			}

			res := a.resolver.Resolve(ctx, key)
			switch res.Status {
			case ResolutionNotAToken:
				notAToken[key] = true
				observability.RecordCandidateDiscarded("not_a_token")
			case ResolutionUnavailable:
				a.logger.Debug().Str("address", key).Msg("mint metadata unavailable, deferring")
				observability.RecordCandidateDiscarded("metadata_unavailable")
			case ResolutionResolved:
				seen[key] = &candidate{
					token: domain.CandidateToken{
						Address:            key,
						ParticipationCount: 1,
						Supply:             res.Supply,
						Decimals:           res.Decimals,
					},
					order: len(seen),
				}
			}
		}
	}
}

// touchesTokenProgram reports whether the token program appears in a
// transaction's account keys.
func touchesTokenProgram(keys []string) bool {
	for _, key := range keys {
		if key == domain.TokenProgramID {
			return true
		}
	}
	return false
}

// rank orders candidates by participation count descending, breaking ties
// by first-seen order, and truncates to limit.
func rank(seen map[string]*candidate, limit int) []domain.CandidateToken {
	ordered := make([]*candidate, 0, len(seen))
	for _, c := range seen {
		ordered = append(ordered, c)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].token.ParticipationCount != ordered[j].token.ParticipationCount {
			return ordered[i].token.ParticipationCount > ordered[j].token.ParticipationCount
		}
		return ordered[i].order < ordered[j].order
	})

	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	out := make([]domain.CandidateToken, len(ordered))
	for i, c := range ordered {
		out[i] = c.token
	}
	return out
}
