package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"SwingPull/internal/domain/models"
	drepo "SwingPull/internal/domain/repository"
	"SwingPull/internal/services/macro"
	"SwingPull/internal/services/scoring"
	"SwingPull/pkg/config"
	"SwingPull/pkg/logger"
)

// Refresher coordinates one full refresh cycle: pull quotes concurrently,
// score, build the macro context, rank, publish into the snapshot cache.
// At most one cycle is in flight process-wide; a duplicate trigger gets
// ErrRefreshInProgress immediately instead of starting a second fetch burst.
type Refresher struct {
	provider drepo.QuoteProvider
	engine   *scoring.Engine
	macro    *macro.Service
	cache    *SnapshotCache
	events   drepo.SnapshotPublisher // optional
	metrics  drepo.Metrics
	log      *logger.Logger

	symbols      []string
	sectors      map[string]string
	fetchTimeout time.Duration
	loc          *time.Location

	gate sync.Mutex // held for the duration of a cycle
}

func NewRefresher(
	cfg *config.Config,
	provider drepo.QuoteProvider,
	engine *scoring.Engine,
	macroSvc *macro.Service,
	cache *SnapshotCache,
	events drepo.SnapshotPublisher,
	metrics drepo.Metrics,
	log *logger.Logger,
) *Refresher {
	return &Refresher{
		provider:     provider,
		engine:       engine,
		macro:        macroSvc,
		cache:        cache,
		events:       events,
		metrics:      metrics,
		log:          log,
		symbols:      cfg.Watchlist.Symbols,
		sectors:      cfg.Watchlist.Sectors,
		fetchTimeout: cfg.Provider.Timeout,
		loc:          cfg.Location(),
	}
}

type fetchResult struct {
	symbol string
	quote  *models.InstrumentQuote
	err    error
}

// Refresh runs one cycle and returns the published snapshot. Per-symbol
// failures are partial: the cycle proceeds with whatever succeeded and the
// failed symbols are recorded on the snapshot. Only a total fetch failure is
// fatal, in which case nothing is published and the prior snapshot survives.
func (r *Refresher) Refresh(ctx context.Context) (*models.MarketSnapshot, error) {
	if !r.gate.TryLock() {
		r.metrics.RecordRefresh("in_progress")
		return nil, ErrRefreshInProgress
	}
	defer r.gate.Unlock()

	start := time.Now()
	r.log.Info("refresh cycle started", logger.Int("symbols", len(r.symbols)))

	// Macro context builds concurrently with the quote burst; it can never
	// fail the cycle.
	macroCh := make(chan models.MacroSnapshot, 1)
	go func() { macroCh <- r.macro.Build(ctx) }()

	results := r.fetchAll(ctx)

	scores := make([]models.InstrumentScore, 0, len(results))
	var failed []string
	for _, res := range results {
		if res.err != nil {
			fe := &FetchError{Symbol: res.symbol, Err: res.err}
			r.log.Warn("symbol fetch failed", logger.String("symbol", res.symbol), logger.Error(fe.Err))
			r.metrics.RecordFetchError(res.symbol)
			failed = append(failed, res.symbol)
			continue
		}
		q := res.quote
		if q.Sector == "" {
			q.Sector = r.sectors[q.Symbol]
		}
		scores = append(scores, r.engine.Score(q))
	}
	sort.Strings(failed)

	if len(scores) == 0 {
		<-macroCh // drain; macro goroutine must not leak
		r.metrics.RecordRefresh("failed")
		r.metrics.RecordCycleDuration(time.Since(start).Seconds())
		r.log.Error("refresh cycle failed, previous snapshot retained",
			logger.Int("attempted", len(r.symbols)))
		return nil, ErrAllSymbolsFailed
	}

	snap := &models.MarketSnapshot{
		Instruments: scoring.Rank(scores),
		Macro:       <-macroCh,
		Failed:      failed,
	}
	snap.GeneratedAt = time.Now().In(r.loc)

	r.cache.Publish(snap)
	r.recordScores(snap)
	r.metrics.RecordRefresh("ok")
	r.metrics.RecordCycleDuration(time.Since(start).Seconds())
	r.log.Info("refresh cycle published",
		logger.Int("scored", len(snap.Instruments)),
		logger.Int("failed", len(failed)),
		logger.Duration("took", time.Since(start)))

	if r.events != nil {
		if err := r.events.PublishSnapshot(ctx, snap); err != nil {
			// best effort: the bus is a secondary consumer
			r.log.Warn("snapshot event publish failed", logger.Error(err))
		}
	}
	return snap, nil
}

// fetchAll issues the per-symbol quote requests concurrently, each bounded
// by its own timeout, and joins them before scoring proceeds.
func (r *Refresher) fetchAll(ctx context.Context) []fetchResult {
	out := make([]fetchResult, len(r.symbols))

	var wg sync.WaitGroup
	for i, symbol := range r.symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			fctx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
			defer cancel()
			q, err := r.provider.FetchQuote(fctx, symbol)
			out[i] = fetchResult{symbol: symbol, quote: q, err: err}
		}(i, symbol)
	}
	wg.Wait()
	return out
}

func (r *Refresher) recordScores(snap *models.MarketSnapshot) {
	for _, s := range snap.Instruments {
		r.metrics.RecordComposite(s.Symbol, s.Composite)
		r.metrics.RecordLastPrice(s.Symbol, s.Last)
	}
}
