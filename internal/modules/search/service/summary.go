package service

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/reshetovitsme/channel-scout/internal/modules/search/domain"
)

const (
	NoChannelsMessage     = "No channels matching the criteria were found."
	NoMatchingTagsMessage = "No channels with tags matching the keywords were found."
)

// SummaryMessage renders the human-readable outcome of a run.
func SummaryMessage(s domain.Summary) string {
	var b strings.Builder

	switch {
	case s.Kind == domain.RunKindLoadMore:
		fmt.Fprintf(&b, "Found %d additional matches.\nQuota used: %s/%s",
			s.NewMatches, humanize.Comma(s.Quota.Total), humanize.Comma(s.DailyLimit))
	case s.NewMatches == 0:
		b.WriteString(NoMatchingTagsMessage)
	default:
		fmt.Fprintf(&b, "Analysis complete! Found %d matching channels.\nQuota used: %s/%s (%d%% cache efficiency)",
			s.NewMatches, humanize.Comma(s.Quota.Total), humanize.Comma(s.DailyLimit), s.CacheEfficiency)
	}

	if s.Pending > 0 {
		fmt.Fprintf(&b, "\n%d more candidates are available.", s.Pending)
	}
	return b.String()
}
