// Command search runs one channel search from config and prints the results.
//
// Search settings come from the search.* config keys, e.g.
//
//	YOUTUBE_API_KEY=... SEARCH__TERMS="lofi, study beats" SEARCH__LOAD_ALL=true go run ./cmd/search
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/reshetovitsme/channel-scout/internal/di"
	cacheService "github.com/reshetovitsme/channel-scout/internal/modules/cache/service"
	channeldomain "github.com/reshetovitsme/channel-scout/internal/modules/channel/domain"
	quotadomain "github.com/reshetovitsme/channel-scout/internal/modules/quota/domain"
	quotaService "github.com/reshetovitsme/channel-scout/internal/modules/quota/service"
	searchdomain "github.com/reshetovitsme/channel-scout/internal/modules/search/domain"
	searchService "github.com/reshetovitsme/channel-scout/internal/modules/search/service"
	"github.com/reshetovitsme/channel-scout/internal/shared/config"
	"github.com/reshetovitsme/channel-scout/internal/shared/errors"
	"github.com/samber/do/v2"
	slogmulti "github.com/samber/slog-multi"
)

func main() {
	logger := slog.New(slogmulti.Fanout(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}),
	))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", errors.UserMessage(err))
		os.Exit(1)
	}
}

func run() error {
	injector, err := di.Setup()
	if err != nil {
		return err
	}
	defer func() {
		if err := di.Shutdown(injector); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		return err
	}
	sessions := do.MustInvoke[*searchService.Manager](injector)
	cache := do.MustInvoke[*cacheService.Service](injector)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sess := sessions.Create("cli")
	events, unsubscribe := sess.Subscribe(256)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		printEvents(os.Stderr, events)
	}()

	req := searchdomain.Request{
		APIKey:             cfg.YouTubeAPIKey,
		SearchTerms:        cfg.Search.Terms,
		MinSubscriberCount: cfg.Search.MinSubscribers,
		MinViewCount:       cfg.Search.MinViews,
		MaxPagesPerTerm:    cfg.Search.MaxPages,
		ChannelAgeMonths:   cfg.Search.AgeMonths,
	}

	summary, err := sess.Search(ctx, req)
	for err == nil && cfg.Search.LoadAll && summary.HasMore && ctx.Err() == nil {
		summary, err = sess.LoadMore(ctx)
	}
	unsubscribe()
	<-printed
	if err != nil && !stderrors.Is(err, errors.ErrNoPendingChannels) {
		return err
	}

	snap := sess.Snapshot()
	printResults(os.Stdout, snap.Results)
	fmt.Fprintf(os.Stdout, "\n%s\n", snap.Message)
	printAnalysis(os.Stdout, quotaService.Analyze(snap.Quota, cache.Stats(ctx), cfg.Quota.DailyLimit))
	return nil
}

func printEvents(w io.Writer, events <-chan searchdomain.Event) {
	for e := range events {
		switch e.Kind {
		case searchdomain.EventKindStage:
			if e.Message != "" && e.Stage != searchdomain.StageDone {
				fmt.Fprintf(w, "⏳ %s\n", e.Message)
			}
		case searchdomain.EventKindError:
			fmt.Fprintf(w, "❌ %s\n", e.Error)
		}
	}
}

func printResults(w io.Writer, results []channeldomain.EnrichedInfo) {
	if len(results) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCHANNEL\tSUBSCRIBERS\tVIEWS\tKEYWORDS\tURL")
	for i, ch := range results {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%s\n",
			i+1, ch.Title, ch.SubscriberCount, ch.ViewCount, strings.Join(ch.ChannelKeywords, ", "), ch.URL())
	}
	tw.Flush()
}

func printAnalysis(w io.Writer, a quotadomain.Analysis) {
	fmt.Fprintf(w, "\nQuota: search %d, channels %d, videos %d, total %d/%d (%.1f%%), cache hit rate %.1f%%\n",
		a.State.Search, a.State.Channels, a.State.Videos, a.State.Total, a.DailyLimit, a.UsedPercent, a.HitRate)
	for _, rec := range a.Recommendations {
		fmt.Fprintf(w, "  [%s] %s\n", rec.Severity, rec.Message)
	}
}
