package domain

import (
	"strings"

	"github.com/reshetovitsme/channel-scout/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

const (
	MaxSearchTerms   = 3
	MinPagesPerTerm  = 1
	MaxPagesPerTerm  = 5
	MinAgeMonths     = 1
	MaxAgeMonths     = 6
	MaxInitialBatch  = 10
	DefaultBatchSize = 10
)

// Request holds the inputs of one search run.
type Request struct {
	APIKey             string   `json:"-"`
	SearchTerms        []string `json:"searchTerms"`
	MinSubscriberCount int64    `json:"minSubscriberCount"`
	MinViewCount       int64    `json:"minViewCount"`
	MaxPagesPerTerm    int      `json:"maxPagesPerTerm"`
	ChannelAgeMonths   int      `json:"channelAgeMonths"`
}

// Normalize trims the credential and terms and drops blank terms.
func (r Request) Normalize() Request {
	r.APIKey = strings.TrimSpace(r.APIKey)
	r.SearchTerms = lo.FilterMap(r.SearchTerms, func(term string, _ int) (string, bool) {
		term = strings.TrimSpace(term)
		return term, term != ""
	})
	return r
}

// Validate checks a normalized request. Failures are *errors.ValidationError.
func (r Request) Validate() error {
	switch {
	case r.APIKey == "":
		return errors.NewValidation("apiKey", errors.ErrMissingAPIKey)
	case len(r.SearchTerms) == 0:
		return errors.NewValidation("searchTerms", errors.ErrNoSearchTerms)
	case len(r.SearchTerms) > MaxSearchTerms:
		return errors.NewValidation("searchTerms", oops.Errorf("at most %d search terms are allowed", MaxSearchTerms))
	case r.MinSubscriberCount < 0:
		return errors.NewValidation("minSubscriberCount", oops.Errorf("must not be negative"))
	case r.MinViewCount < 0:
		return errors.NewValidation("minViewCount", oops.Errorf("must not be negative"))
	case r.MaxPagesPerTerm < MinPagesPerTerm || r.MaxPagesPerTerm > MaxPagesPerTerm:
		return errors.NewValidation("maxPagesPerTerm", oops.Errorf("must be between %d and %d", MinPagesPerTerm, MaxPagesPerTerm))
	case r.ChannelAgeMonths < MinAgeMonths || r.ChannelAgeMonths > MaxAgeMonths:
		return errors.NewValidation("channelAgeMonths", oops.Errorf("must be between %d and %d", MinAgeMonths, MaxAgeMonths))
	}
	return nil
}
