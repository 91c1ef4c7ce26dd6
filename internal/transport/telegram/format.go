package telegram

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	channeldomain "github.com/reshetovitsme/channel-scout/internal/modules/channel/domain"
	historydomain "github.com/reshetovitsme/channel-scout/internal/modules/history/domain"
	quotadomain "github.com/reshetovitsme/channel-scout/internal/modules/quota/domain"
	"github.com/reshetovitsme/channel-scout/internal/shared/errors"
)

const welcomeText = `👋 Welcome to Channel Scout!

I find YouTube channels whose keywords or recent video tags match your search terms.

Available commands:
/help - Show this help message
/agree - Accept the terms of use
/setkey <key> - Save your YouTube Data API v3 key
/search <term1, term2, term3> - Start a search
/more - Analyze the next batch of channels
/results - Show matching channels
/quota - Show quota usage and tips
/cache - Show cache statistics
/clearcache [all] - Remove expired (or all) cache entries
/status - Show the current search state
/history - Show your recent searches
/forget - Delete your API key, consent and results

Example:
/search lofi music, study beats`

const termsText = `Your API key is stored on this server only to call the YouTube Data API on your behalf. Searches spend your own API quota.`

// rejectIcon prefixes the reply to a run that could not start.
func rejectIcon(err error) string {
	switch {
	case stderrors.Is(err, errors.ErrSearchInProgress):
		return "⏳ "
	case stderrors.Is(err, errors.ErrNoPendingChannels):
		return "📭 "
	}
	return "❌ "
}

// hintFor suggests the command that fixes a missing precondition.
func hintFor(err error) string {
	switch {
	case stderrors.Is(err, errors.ErrNotAgreed):
		return "\nUse /agree first."
	case stderrors.Is(err, errors.ErrMissingAPIKey):
		return "\nUse /setkey <key>."
	}
	return ""
}

func formatResults(results []channeldomain.EnrichedInfo, limit int) string {
	if len(results) == 0 {
		return ""
	}

	var text strings.Builder
	for i, ch := range results {
		if i == limit {
			fmt.Fprintf(&text, "…and %d more", len(results)-limit)
			break
		}
		fmt.Fprintf(&text, "%d. %s\n   👥 %d  👁 %d\n   %s\n", i+1, ch.Title, ch.SubscriberCount, ch.ViewCount, ch.URL())
		if len(ch.ChannelKeywords) > 0 {
			fmt.Fprintf(&text, "   🏷 %s\n", strings.Join(ch.ChannelKeywords, ", "))
		}
	}
	return strings.TrimRight(text.String(), "\n")
}

var severityIcon = map[quotadomain.Severity]string{
	quotadomain.SeverityWarning: "⚠️",
	quotadomain.SeverityInfo:    "💡",
	quotadomain.SeverityOK:      "✅",
}

func formatAnalysis(a quotadomain.Analysis) string {
	var text strings.Builder
	fmt.Fprintf(&text, `📈 Quota usage:

Search: %d
Channels: %d
Videos: %d
Total: %d/%d (%.1f%%)
Remaining: %d
Cache hit rate: %.1f%%
`,
		a.State.Search, a.State.Channels, a.State.Videos,
		a.State.Total, a.DailyLimit, a.UsedPercent, a.Remaining, a.HitRate)

	for _, rec := range a.Recommendations {
		fmt.Fprintf(&text, "\n%s %s", severityIcon[rec.Severity], rec.Message)
	}
	return text.String()
}

func formatRuns(runs []*historydomain.Run) string {
	var text strings.Builder
	text.WriteString("🕘 Recent searches:\n")
	for _, run := range runs {
		status := "✅"
		if run.Failed() {
			status = "❌"
		}
		fmt.Fprintf(&text, "\n%s %s [%s] %s\n   matches: %d, examined: %d, quota: %d, took %s",
			status, run.StartedAt.Format("2006-01-02 15:04"), run.Kind,
			strings.Join(run.SearchTerms, ", "), run.Matches, run.Examined, run.QuotaUsed,
			run.Duration().Round(time.Millisecond))
		if run.Failed() {
			fmt.Fprintf(&text, "\n   %s", run.Error)
		}
	}
	return text.String()
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
