package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	channeldomain "github.com/reshetovitsme/channel-scout/internal/modules/channel/domain"
	channelService "github.com/reshetovitsme/channel-scout/internal/modules/channel/service"
	historydomain "github.com/reshetovitsme/channel-scout/internal/modules/history/domain"
	quotadomain "github.com/reshetovitsme/channel-scout/internal/modules/quota/domain"
	quotaService "github.com/reshetovitsme/channel-scout/internal/modules/quota/service"
	"github.com/reshetovitsme/channel-scout/internal/modules/search/domain"
	"github.com/reshetovitsme/channel-scout/internal/shared/errors"
	"github.com/samber/oops"
)

// CacheMaintainer purges stale cache entries at the start of a run.
type CacheMaintainer interface {
	EvictExpired(ctx context.Context) int
}

// Recorder persists finished runs.
type Recorder interface {
	SaveRun(run *historydomain.Run) error
}

type Options struct {
	// InitialBatch is how many top-ranked channels a search enriches; capped at 10.
	InitialBatch int
	// BatchSize is how many pending channels LoadMore enriches.
	BatchSize  int
	DailyLimit int64
	Enricher   Enricher
	// Owner labels recorded runs.
	Owner    string
	Recorder Recorder
	Now      func() time.Time
}

// Orchestrator runs the discovery and enrichment pipeline for one session and keeps
// its accumulated results. At most one Search or LoadMore runs at a time.
type Orchestrator struct {
	opts    Options
	factory ResourceFactory
	cache   CacheMaintainer
	meter   *quotaService.Meter
	bus     *Bus

	searching atomic.Bool

	mu        sync.RWMutex
	stage     domain.Stage
	message   string
	progress  domain.Progress
	request   domain.Request
	resources Resources
	results   []channeldomain.EnrichedInfo
	logs      []channeldomain.LogEntry
	pending   []channeldomain.BasicInfo
	summary   *domain.Summary
	lastErr   error
	updatedAt time.Time
}

func NewOrchestrator(opts Options, factory ResourceFactory, cache CacheMaintainer, meter *quotaService.Meter, bus *Bus) *Orchestrator {
	if opts.InitialBatch <= 0 || opts.InitialBatch > domain.MaxInitialBatch {
		opts.InitialBatch = domain.MaxInitialBatch
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = domain.DefaultBatchSize
	}
	if opts.DailyLimit <= 0 {
		opts.DailyLimit = quotadomain.DefaultDailyLimit
	}
	if opts.Enricher == (Enricher{}) {
		opts.Enricher = Enricher{GroupSize: DefaultGroupSize, Pause: DefaultGroupPause}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if bus == nil {
		bus = NewBus()
	}
	return &Orchestrator{
		opts:    opts,
		factory: factory,
		cache:   cache,
		meter:   meter,
		bus:     bus,
		stage:   domain.StageIdle,
	}
}

// Subscribe streams the session's events.
func (o *Orchestrator) Subscribe(buffer int) (<-chan domain.Event, func()) {
	return o.bus.Subscribe(buffer)
}

// Searching reports whether a run is in flight.
func (o *Orchestrator) Searching() bool {
	return o.searching.Load()
}

// Search runs the full pipeline for req: discover channels, fetch their basic info, filter,
// rank, and enrich the top of the ranking. The rest is kept for LoadMore.
func (o *Orchestrator) Search(ctx context.Context, req domain.Request) (domain.Summary, error) {
	if !o.searching.CompareAndSwap(false, true) {
		return domain.Summary{}, errors.ErrSearchInProgress
	}
	defer o.searching.Store(false)

	req, err := o.prepare(req)
	if err != nil {
		return domain.Summary{}, err
	}
	return o.search(ctx, req)
}

// StartSearch claims the session and runs Search in the background. It returns at once with
// ErrSearchInProgress or a validation error; otherwise done, if set, receives the outcome.
func (o *Orchestrator) StartSearch(ctx context.Context, req domain.Request, done func(domain.Summary, error)) error {
	if !o.searching.CompareAndSwap(false, true) {
		return errors.ErrSearchInProgress
	}

	req, err := o.prepare(req)
	if err != nil {
		o.searching.Store(false)
		return err
	}

	go func() {
		summary, err := o.search(ctx, req)
		o.searching.Store(false)
		if done != nil {
			done(summary, err)
		}
	}()
	return nil
}

func (o *Orchestrator) prepare(req domain.Request) (domain.Request, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		o.setMessage(errors.UserMessage(err))
		o.emitError(err)
		return req, err
	}
	return req, nil
}

func (o *Orchestrator) search(ctx context.Context, req domain.Request) (domain.Summary, error) {
	started := o.opts.Now()
	o.meter.Reset()
	if removed := o.cache.EvictExpired(ctx); removed > 0 {
		slog.Debug("search: purged expired cache entries", "removed", removed)
	}
	resources := o.factory(req.APIKey, o.meter)
	o.begin(req, resources)

	summary, err := o.run(ctx, req, resources)
	if err != nil {
		o.record(domain.RunKindSearch, req.SearchTerms, started, 0, o.summarize(domain.RunKindSearch, 0), err)
		return domain.Summary{}, err
	}
	o.record(domain.RunKindSearch, req.SearchTerms, started, 0, summary, nil)
	return summary, nil
}

func (o *Orchestrator) run(ctx context.Context, req domain.Request, resources Resources) (domain.Summary, error) {
	o.setStage(domain.StageDiscovering, "Searching for channels...")
	ids, err := Discover(ctx, resources, req.SearchTerms, req.MaxPagesPerTerm)
	if err != nil {
		return domain.Summary{}, o.fail(err, domain.StageDiscovering)
	}
	if len(ids) == 0 {
		return o.finishEmpty(), nil
	}

	o.setStage(domain.StageFetchingBasics, fmt.Sprintf("Fetching basic info for %d channels...", len(ids)))
	basics, err := FetchBasics(ctx, resources, ids)
	if err != nil {
		return domain.Summary{}, o.fail(err, domain.StageFetchingBasics)
	}

	o.setStage(domain.StageFiltering, "Filtering by criteria...")
	criteria := channeldomain.Criteria{
		MinSubscribers: req.MinSubscriberCount,
		MinViews:       req.MinViewCount,
		MaxAgeMonths:   req.ChannelAgeMonths,
	}
	qualified, rejected := channelService.Partition(basics, criteria, o.opts.Now())
	for _, entry := range rejected {
		o.appendLog(entry)
	}
	if len(qualified) == 0 {
		return o.finishEmpty(), nil
	}

	head, tail := channelService.Split(channelService.Rank(qualified), o.opts.InitialBatch)
	o.setPending(tail)

	o.setStage(domain.StageEnriching, fmt.Sprintf("Analyzing the top %d channels...", len(head)))
	matches := o.enrich(ctx, resources, head, req.SearchTerms, "Analyzing")

	summary := o.summarize(domain.RunKindSearch, matches)
	o.finish(summary)
	return summary, nil
}

// pendingBatch is the next slice of the pending queue and what is needed to enrich it.
type pendingBatch struct {
	request   domain.Request
	resources Resources
	batch     []channeldomain.BasicInfo
	rest      []channeldomain.BasicInfo
}

// LoadMore enriches the next batch of pending channels of the last completed search.
func (o *Orchestrator) LoadMore(ctx context.Context) (domain.Summary, error) {
	if !o.searching.CompareAndSwap(false, true) {
		return domain.Summary{}, errors.ErrSearchInProgress
	}
	defer o.searching.Store(false)

	next, err := o.nextBatch()
	if err != nil {
		return domain.Summary{}, err
	}
	return o.loadMore(ctx, next), nil
}

// StartLoadMore claims the session and runs LoadMore in the background. It returns at once with
// ErrSearchInProgress or ErrNoPendingChannels; otherwise done, if set, receives the outcome.
func (o *Orchestrator) StartLoadMore(ctx context.Context, done func(domain.Summary, error)) error {
	if !o.searching.CompareAndSwap(false, true) {
		return errors.ErrSearchInProgress
	}

	next, err := o.nextBatch()
	if err != nil {
		o.searching.Store(false)
		return err
	}

	go func() {
		summary := o.loadMore(ctx, next)
		o.searching.Store(false)
		if done != nil {
			done(summary, nil)
		}
	}()
	return nil
}

func (o *Orchestrator) nextBatch() (pendingBatch, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.stage != domain.StageDone || len(o.pending) == 0 || o.resources == nil {
		return pendingBatch{}, errors.ErrNoPendingChannels
	}
	batch, rest := channelService.Split(o.pending, o.opts.BatchSize)
	return pendingBatch{request: o.request, resources: o.resources, batch: batch, rest: rest}, nil
}

func (o *Orchestrator) loadMore(ctx context.Context, next pendingBatch) domain.Summary {
	started := o.opts.Now()
	// the meter keeps counting across load-more runs; only this run's spend is recorded
	before := o.meter.Snapshot().Total

	o.setStage(domain.StageEnriching, fmt.Sprintf("Analyzing %d more channels...", len(next.batch)))
	matches := o.enrich(ctx, next.resources, next.batch, next.request.SearchTerms, "Analyzing more")
	o.setPending(next.rest)

	summary := o.summarize(domain.RunKindLoadMore, matches)
	o.finish(summary)
	o.record(domain.RunKindLoadMore, next.request.SearchTerms, started, before, summary, nil)
	return summary
}

// Clear drops results, logs, pending channels and quota counters.
func (o *Orchestrator) Clear() error {
	if !o.searching.CompareAndSwap(false, true) {
		return errors.ErrSearchInProgress
	}
	defer o.searching.Store(false)

	o.meter.Reset()
	o.mu.Lock()
	o.stage = domain.StageIdle
	o.message = ""
	o.progress = domain.Progress{}
	o.results = nil
	o.logs = nil
	o.pending = nil
	o.summary = nil
	o.lastErr = nil
	o.resources = nil
	o.updatedAt = o.opts.Now()
	o.mu.Unlock()

	o.bus.Publish(domain.Event{Kind: domain.EventKindStage, Stage: domain.StageIdle})
	return nil
}

// Snapshot returns a copy of the session state.
func (o *Orchestrator) Snapshot() domain.Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()

	s := domain.Snapshot{
		Stage:          o.stage,
		Searching:      o.searching.Load(),
		Message:        o.message,
		Progress:       o.progress,
		SearchTerms:    slices.Clone(o.request.SearchTerms),
		Results:        slices.Clone(o.results),
		Logs:           slices.Clone(o.logs),
		PendingCount:   len(o.pending),
		HasMoreResults: len(o.pending) > 0,
		Quota:          o.meter.Snapshot(),
		UpdatedAt:      o.updatedAt,
	}
	if o.summary != nil {
		summary := *o.summary
		s.Summary = &summary
	}
	if o.lastErr != nil {
		s.Error = errors.UserMessage(o.lastErr)
	}
	return s
}

func (o *Orchestrator) enrich(ctx context.Context, resources Resources, batch []channeldomain.BasicInfo, terms []string, label string) int {
	o.setProgress(domain.Progress{Total: len(batch)})

	enriched := o.opts.Enricher.Enrich(ctx, resources, batch, terms, func(done, total int) {
		o.setProgress(domain.Progress{Current: done, Total: total})
		o.setMessage(fmt.Sprintf("%s... (%d/%d)", label, done, total))
	})

	matches := 0
	for _, ch := range enriched {
		o.appendLog(channeldomain.LogEntry{
			Channel:         ch,
			MeetsCriteria:   true,
			HasMatchingTags: ch.HasMatchingTags,
		})
		if ch.HasMatchingTags {
			o.appendResult(ch)
			matches++
		}
	}
	return matches
}

func (o *Orchestrator) summarize(kind domain.RunKind, newMatches int) domain.Summary {
	quota := o.meter.Snapshot()

	o.mu.RLock()
	summary := domain.Summary{
		Kind:            kind,
		Matches:         len(o.results),
		NewMatches:      newMatches,
		Examined:        len(o.logs),
		Pending:         len(o.pending),
		HasMore:         len(o.pending) > 0,
		Quota:           quota,
		DailyLimit:      o.opts.DailyLimit,
		CacheEfficiency: int(math.Round(quota.CacheHitRate())),
	}
	o.mu.RUnlock()

	summary.Message = SummaryMessage(summary)
	return summary
}

func (o *Orchestrator) begin(req domain.Request, resources Resources) {
	o.mu.Lock()
	o.request = req
	o.resources = resources
	o.results = nil
	o.logs = nil
	o.pending = nil
	o.summary = nil
	o.lastErr = nil
	o.progress = domain.Progress{}
	o.updatedAt = o.opts.Now()
	o.mu.Unlock()
}

func (o *Orchestrator) finishEmpty() domain.Summary {
	summary := o.summarize(domain.RunKindSearch, 0)
	summary.Message = NoChannelsMessage
	o.finish(summary)
	return summary
}

func (o *Orchestrator) finish(summary domain.Summary) {
	o.mu.Lock()
	o.stage = domain.StageDone
	o.message = summary.Message
	o.progress = domain.Progress{}
	o.summary = &summary
	o.updatedAt = o.opts.Now()
	o.mu.Unlock()

	o.bus.Publish(domain.Event{Kind: domain.EventKindStage, Stage: domain.StageDone, Message: summary.Message})
	o.bus.Publish(domain.Event{Kind: domain.EventKindSummary, Summary: &summary})
}

func (o *Orchestrator) fail(err error, stage domain.Stage) error {
	err = oops.With("stage", stage).Wrap(err)
	slog.Error("search: run failed", "stage", stage, "kind", errors.KindOf(err), "error", err)

	o.mu.Lock()
	o.stage = domain.StageError
	o.message = errors.UserMessage(err)
	o.progress = domain.Progress{}
	o.lastErr = err
	o.updatedAt = o.opts.Now()
	o.mu.Unlock()

	o.bus.Publish(domain.Event{Kind: domain.EventKindStage, Stage: domain.StageError})
	o.emitError(err)
	return err
}

func (o *Orchestrator) emitError(err error) {
	o.bus.Publish(domain.Event{
		Kind:      domain.EventKindError,
		Error:     errors.UserMessage(err),
		ErrorKind: errors.KindOf(err).String(),
	})
}

func (o *Orchestrator) setStage(stage domain.Stage, message string) {
	o.mu.Lock()
	o.stage = stage
	o.message = message
	o.updatedAt = o.opts.Now()
	o.mu.Unlock()

	o.bus.Publish(domain.Event{Kind: domain.EventKindStage, Stage: stage, Message: message})
}

func (o *Orchestrator) setMessage(message string) {
	o.mu.Lock()
	o.message = message
	o.mu.Unlock()

	o.bus.Publish(domain.Event{Kind: domain.EventKindMessage, Message: message})
}

func (o *Orchestrator) setProgress(p domain.Progress) {
	o.mu.Lock()
	o.progress = p
	o.mu.Unlock()

	o.bus.Publish(domain.Event{Kind: domain.EventKindProgress, Progress: &p})
}

func (o *Orchestrator) setPending(pending []channeldomain.BasicInfo) {
	o.mu.Lock()
	o.pending = slices.Clone(pending)
	o.mu.Unlock()
}

func (o *Orchestrator) appendLog(entry channeldomain.LogEntry) {
	o.mu.Lock()
	o.logs = append(o.logs, entry)
	o.mu.Unlock()

	o.bus.Publish(domain.Event{Kind: domain.EventKindLog, Log: &entry})
}

func (o *Orchestrator) appendResult(ch channeldomain.EnrichedInfo) {
	o.mu.Lock()
	o.results = append(o.results, ch)
	channelService.SortEnriched(o.results)
	o.mu.Unlock()

	o.bus.Publish(domain.Event{Kind: domain.EventKindResult, Result: &ch})
}

// record saves the run; quotaBefore is the meter total when the run started.
func (o *Orchestrator) record(kind domain.RunKind, terms []string, started time.Time, quotaBefore int64, summary domain.Summary, runErr error) {
	if o.opts.Recorder == nil {
		return
	}

	run := &historydomain.Run{
		Owner:           o.opts.Owner,
		Kind:            kind.String(),
		SearchTerms:     terms,
		StartedAt:       started,
		FinishedAt:      o.opts.Now(),
		Examined:        summary.Examined,
		Matches:         summary.Matches,
		Pending:         summary.Pending,
		QuotaUsed:       o.meter.Snapshot().Total - quotaBefore,
		CacheEfficiency: summary.CacheEfficiency,
	}
	if runErr != nil {
		run.Error = errors.UserMessage(runErr)
		run.ErrorKind = errors.KindOf(runErr).String()
	}
	if err := o.opts.Recorder.SaveRun(run); err != nil {
		slog.Error("search: failed to record run", "owner", o.opts.Owner, "error", err)
	}
}
