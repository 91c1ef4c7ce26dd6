package service

import (
	"slices"
	"strings"
	"time"

	"github.com/reshetovitsme/channel-scout/internal/modules/channel/domain"
	"github.com/samber/lo"
)

// Check reports whether a channel meets criteria at now and, if not, the first criterion it failed.
func Check(ch domain.BasicInfo, criteria domain.Criteria, now time.Time) (bool, domain.RejectReason) {
	switch {
	case ch.SubscriberCount < criteria.MinSubscribers:
		return false, domain.RejectReasonSubscribers
	case ch.ViewCount < criteria.MinViews:
		return false, domain.RejectReasonViews
	case ch.PublishedAt.Before(now.AddDate(0, -criteria.MaxAgeMonths, 0)):
		return false, domain.RejectReasonAge
	}
	return true, ""
}

// Partition splits channels into those that meet criteria and log entries for the rest.
// Both keep input order.
func Partition(channels []domain.BasicInfo, criteria domain.Criteria, now time.Time) ([]domain.BasicInfo, []domain.LogEntry) {
	qualified := make([]domain.BasicInfo, 0, len(channels))
	var rejected []domain.LogEntry
	for _, ch := range channels {
		ok, reason := Check(ch, criteria, now)
		if ok {
			qualified = append(qualified, ch)
			continue
		}
		rejected = append(rejected, domain.LogEntry{
			Channel: domain.EnrichedInfo{
				BasicInfo:       ch,
				ChannelKeywords: []string{},
				VideoTags:       []string{},
			},
			RejectReason: reason,
		})
	}
	return qualified, rejected
}

// Rank returns a copy of channels ordered by view count, highest first. Ties keep input order.
func Rank(channels []domain.BasicInfo) []domain.BasicInfo {
	ranked := slices.Clone(channels)
	slices.SortStableFunc(ranked, func(a, b domain.BasicInfo) int {
		return compareViews(a.ViewCount, b.ViewCount)
	})
	return ranked
}

// SortEnriched orders enriched channels by view count, highest first, in place.
func SortEnriched(channels []domain.EnrichedInfo) {
	slices.SortStableFunc(channels, func(a, b domain.EnrichedInfo) int {
		return compareViews(a.ViewCount, b.ViewCount)
	})
}

// Split cuts ranked into the first n channels and the rest.
func Split(ranked []domain.BasicInfo, n int) (head, tail []domain.BasicInfo) {
	n = min(max(n, 0), len(ranked))
	return ranked[:n:n], ranked[n:]
}

// CheckMatch reports whether term relates to any keyword or tag. A term matches a
// keyword or tag when either contains the other, ignoring case. Empty strings never match.
func CheckMatch(keywords, tags []string, term string) bool {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return false
	}
	matches := func(candidate string) bool {
		candidate = strings.ToLower(candidate)
		if candidate == "" {
			return false
		}
		return strings.Contains(candidate, needle) || strings.Contains(needle, candidate)
	}
	return slices.ContainsFunc(keywords, matches) || slices.ContainsFunc(tags, matches)
}

// MatchesAny reports whether any of terms matches the keywords or tags.
func MatchesAny(keywords, tags, terms []string) bool {
	return lo.SomeBy(terms, func(term string) bool {
		return CheckMatch(keywords, tags, term)
	})
}

func compareViews(a, b int64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}
