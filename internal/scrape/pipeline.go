package scrape

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"recruitwatch/internal/domain"
	"recruitwatch/internal/events"
	"recruitwatch/internal/match"
	"recruitwatch/internal/notify"
	"recruitwatch/internal/store"
)

// Pipeline runs one scrape cycle: fetch all sources concurrently, match,
// drop already-seen postings, persist and notify the rest.
type Pipeline struct {
	Sources       []Source
	Matcher       *match.Matcher
	Store         *store.Store
	Notify        *notify.Multi
	Hub           *events.Hub
	Log           *zap.Logger
	SourceTimeout time.Duration
}

type RunStats struct {
	Fetched      int `json:"fetched"`
	Matched      int `json:"matched"`
	New          int `json:"new"`
	SourceErrors int `json:"sourceErrors"`
}

// Run never fails the whole cycle on a single source: errors are counted,
// logged, and the remaining sources still contribute.
func (p *Pipeline) Run(ctx context.Context) RunStats {
	var stats RunStats
	started := time.Now()
	p.Hub.Publish(events.Make(events.TypeRunStarted, nil))

	records := p.fetchAll(ctx, &stats)
	stats.Fetched = len(records)

	results := p.Matcher.FilterRecords(records)
	stats.Matched = len(results)

	var fresh []domain.MatchResult
	for _, res := range results {
		isNew, err := p.Store.MarkSeenIfNew(ctx, res.Record.SeenID())
		if err != nil {
			p.Log.Error("seen ledger write failed", zap.String("link", res.Record.Link), zap.Error(err))
			continue
		}
		if !isNew {
			continue
		}
		if err := p.Store.SaveMatch(ctx, res); err != nil {
			p.Log.Error("save match failed", zap.String("link", res.Record.Link), zap.Error(err))
		}
		p.Hub.Publish(events.Make(events.TypeMatchFound, res))
		fresh = append(fresh, res)
	}
	stats.New = len(fresh)

	p.Notify.Notify(ctx, fresh)
	p.Hub.Publish(events.Make(events.TypeRunFinished, stats))
	p.Log.Info("run finished",
		zap.Int("fetched", stats.Fetched),
		zap.Int("matched", stats.Matched),
		zap.Int("new", stats.New),
		zap.Int("source_errors", stats.SourceErrors),
		zap.Duration("took", time.Since(started)),
	)
	return stats
}

// fetchAll fans out across sources and merges their records, deduping by
// canonical link; the first source to report a link wins.
func (p *Pipeline) fetchAll(ctx context.Context, stats *RunStats) []domain.JobRecord {
	var mu sync.Mutex
	var all []domain.JobRecord
	seen := map[string]bool{}

	g := new(errgroup.Group)
	for _, src := range p.Sources {
		src := src
		g.Go(func() error {
			sctx := ctx
			if p.SourceTimeout > 0 {
				var cancel context.CancelFunc
				sctx, cancel = context.WithTimeout(ctx, p.SourceTimeout)
				defer cancel()
			}

			recs, err := src.Fetch(sctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.SourceErrors++
				p.Log.Warn("source failed", zap.String("source", src.Name()), zap.Error(err))
			}
			for _, r := range recs {
				key := canonicalizeURL(r.Link)
				if key == "" || seen[key] {
					continue
				}
				seen[key] = true
				all = append(all, r)
			}
			return nil
		})
	}
	_ = g.Wait()
	return all
}
