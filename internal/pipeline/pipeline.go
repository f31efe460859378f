// Package pipeline sequences one reconciliation run: load the editable
// table, fetch and parse the feed, resolve identities, merge, filter expired
// events, and write the table back. A run is a single linear pass with no
// internal concurrency; repeating it against an unchanged feed reproduces the
// output byte for byte.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"marquee/internal/config"
	"marquee/internal/directive"
	"marquee/internal/feed"
	"marquee/internal/identity"
	"marquee/internal/journal"
	"marquee/internal/lifecycle"
	"marquee/internal/logging"
	"marquee/internal/merge"
	"marquee/internal/record"
	"marquee/internal/store"
	"marquee/internal/textnorm"
)

// Summary reports what one run did.
type Summary struct {
	ExistingRows int
	FeedEntries  int
	Merged       int
	Retained     int
	Expired      int
	FromCache    bool
}

// Fetcher abstracts the feed transport so tests can stub it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (body []byte, fromCache bool, err error)
}

// Pipeline runs reconciliation passes for one configuration.
type Pipeline struct {
	cfg     *config.Config
	logger  *slog.Logger
	fetcher Fetcher
	journal *journal.Store
	now     func() time.Time
}

// Option customizes pipeline construction.
type Option func(*Pipeline)

// WithJournal records run outcomes in the given journal. The journal is
// best-effort; its failures are logged, never returned.
func WithJournal(j *journal.Store) Option {
	return func(p *Pipeline) { p.journal = j }
}

// WithFetcher replaces the default HTTP fetcher.
func WithFetcher(f Fetcher) Option {
	return func(p *Pipeline) { p.fetcher = f }
}

// WithClock replaces the time source used by the lifecycle filter.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New constructs a pipeline.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:     cfg,
		logger:  logger,
		fetcher: feed.NewFetcher(cfg.FeedTimeout(), cfg.Feed.CacheDir),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Run executes one reconciliation pass. Fetch failures are fatal for the run;
// per-entry and per-row problems are recovered by skipping the offender.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	lock := flock.New(p.cfg.Store.LockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return Summary{}, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return Summary{}, fmt.Errorf("another reconciliation run holds %s", p.cfg.Store.LockPath)
	}
	defer func() { _ = lock.Unlock() }()

	run := p.beginJournal(ctx)
	summary, err := p.reconcile(ctx)
	p.finishJournal(ctx, run, summary, err)
	return summary, err
}

func (p *Pipeline) reconcile(ctx context.Context) (Summary, error) {
	var summary Summary

	existing, err := store.Load(p.cfg.Store.Path, p.cfg.Location())
	if err != nil {
		return summary, fmt.Errorf("load store: %w", err)
	}
	summary.ExistingRows = len(existing)

	body, fromCache, err := p.fetcher.Fetch(ctx, p.cfg.Feed.URL)
	if err != nil {
		return summary, err
	}
	summary.FromCache = fromCache

	entries, err := feed.Parse(body, p.cfg.Location(), p.logger)
	if err != nil {
		return summary, err
	}
	summary.FeedEntries = len(entries)

	merged := p.union(existing, entries)
	summary.Merged = len(merged)

	live := lifecycle.Filter(merged, p.now(), p.cfg.GracePeriod())
	summary.Retained = len(live)
	summary.Expired = summary.Merged - summary.Retained

	sortRecords(live)

	if err := store.Save(p.cfg.Store.Path, live); err != nil {
		return summary, fmt.Errorf("save store: %w", err)
	}

	p.logger.Info("reconcile complete",
		logging.Int("existing", summary.ExistingRows),
		logging.Int("feed_entries", summary.FeedEntries),
		logging.Int("retained", summary.Retained),
		logging.Int("expired", summary.Expired),
		logging.Bool("from_cache", summary.FromCache),
	)
	return summary, nil
}

// union folds the feed into the existing population, one record per resolved
// identity, merging collisions pairwise in encounter order.
func (p *Pipeline) union(existing []record.Record, entries []feed.Entry) []record.Record {
	resolver := identity.NewResolver(existing)
	byKey := make(map[string]record.Record, len(existing)+len(entries))
	order := make([]string, 0, len(existing)+len(entries))

	for _, rec := range existing {
		key := identity.Key(rec)
		if cur, ok := byKey[key]; ok {
			byKey[key] = merge.Merge(cur, rec)
			continue
		}
		byKey[key] = rec
		order = append(order, key)
	}

	for _, entry := range entries {
		incoming := p.fromEntry(entry)
		key := resolver.Resolve(incoming)
		if cur, ok := byKey[key]; ok {
			byKey[key] = merge.Merge(cur, incoming)
		} else {
			// New records still pass through the merge policy so lock
			// markers and placeholder covers get resolved.
			byKey[key] = merge.Merge(record.Record{}, incoming)
			order = append(order, key)
		}
		resolver.Add(key, incoming)
	}

	out := make([]record.Record, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out
}

// fromEntry shapes one feed entry into a record: directives beat heuristics
// beat the entry's native fields, and every URL is canonicalized before it
// can reach identity computation or storage.
func (p *Pipeline) fromEntry(entry feed.Entry) record.Record {
	rec := record.Record{
		ID:     entry.UID,
		Title:  entry.Title,
		Start:  entry.Start,
		Place:  entry.Location,
		Origin: record.OriginAutomatic,
	}

	overrides := directive.Extract(entry.Description)
	origin := p.cfg.Events.SiteOrigin

	switch {
	case overrides.Cover.Set:
		rec.Cover = textnorm.NormalizeCoverURL(overrides.Cover.Text, origin)
		if overrides.Cover.Locked {
			rec.Lock(record.FieldCover)
		}
	default:
		rec.Cover = textnorm.NormalizeCoverURL(directive.CoverCandidate(entry.Description), origin)
	}

	switch {
	case overrides.TicketURL.Set:
		rec.TicketURL = textnorm.NormalizeURL(overrides.TicketURL.Text)
		if overrides.TicketURL.Locked {
			rec.Lock(record.FieldTicketURL)
		}
	default:
		rec.TicketURL = textnorm.NormalizeURL(directive.TicketCandidate(entry.Description))
	}

	if overrides.EventURL.Set {
		rec.EventURL = textnorm.NormalizeURL(overrides.EventURL.Text)
		if overrides.EventURL.Locked {
			rec.Lock(record.FieldEventURL)
		}
	} else {
		rec.EventURL = textnorm.NormalizeURL(entry.URL)
	}

	if overrides.Place.Set {
		rec.Place = overrides.Place.Text
		if overrides.Place.Locked {
			rec.Lock(record.FieldPlace)
		}
	}

	return rec
}

// sortRecords orders the output table by start time ascending, with title and
// identifier as tie-breakers so runs stay byte-for-byte reproducible.
func sortRecords(recs []record.Record) {
	slices.SortStableFunc(recs, func(a, b record.Record) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		if c := strings.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func (p *Pipeline) beginJournal(ctx context.Context) *journal.Run {
	if p.journal == nil {
		return nil
	}
	run, err := p.journal.Begin(ctx)
	if err != nil {
		p.logger.Warn("journal unavailable", logging.Error(err))
		return nil
	}
	return run
}

func (p *Pipeline) finishJournal(ctx context.Context, run *journal.Run, summary Summary, runErr error) {
	if p.journal == nil || run == nil {
		return
	}
	run.FeedEntries = summary.FeedEntries
	run.Merged = summary.Merged
	run.Retained = summary.Retained
	run.Expired = summary.Expired
	run.FromCache = summary.FromCache
	if runErr != nil {
		run.Status = journal.StatusFailed
		run.Error = runErr.Error()
	} else {
		run.Status = journal.StatusSucceeded
	}
	if err := p.journal.Finish(ctx, run); err != nil {
		p.logger.Warn("journal write failed", logging.Error(err))
	}
}
