package client

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	cachedomain "github.com/reshetovitsme/channel-scout/internal/modules/cache/domain"
	quotadomain "github.com/reshetovitsme/channel-scout/internal/modules/quota/domain"
	"github.com/reshetovitsme/channel-scout/internal/shared/errors"
	"github.com/samber/oops"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL          = "https://www.googleapis.com/youtube/v3"
	DefaultSearchPageSize   = 25
	DefaultVideoSampleSize  = 5
	DefaultChannelBatchSize = 50

	maxErrorBody = 64 * 1024
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Cache is the response cache consulted before every channel lookup.
type Cache interface {
	Get(ctx context.Context, t cachedomain.CacheType, id string, out any) bool
	Set(ctx context.Context, t cachedomain.CacheType, id string, data any)
}

// Tracker records quota usage.
type Tracker interface {
	Track(category quotadomain.Category, unitCost int64, fromCache bool)
}

type Config struct {
	BaseURL          string
	APIKey           string
	SearchPageSize   int
	VideoSampleSize  int
	ChannelBatchSize int
	// ChannelCostPerID charges a channels call one unit per requested id instead of one per call.
	ChannelCostPerID bool
}

// Client talks to the YouTube Data API v3 on behalf of one credential.
type Client struct {
	cfg     Config
	doer    Doer
	cache   Cache
	tracker Tracker
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithLimiter throttles outgoing requests. Cache hits are never throttled.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewHTTPDoer returns the default transport.
func NewHTTPDoer(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func New(cfg Config, doer Doer, cache Cache, tracker Tracker, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.SearchPageSize <= 0 {
		cfg.SearchPageSize = DefaultSearchPageSize
	}
	if cfg.VideoSampleSize <= 0 {
		cfg.VideoSampleSize = DefaultVideoSampleSize
	}
	if cfg.ChannelBatchSize <= 0 || cfg.ChannelBatchSize > DefaultChannelBatchSize {
		cfg.ChannelBatchSize = DefaultChannelBatchSize
	}

	c := &Client{cfg: cfg, doer: doer, cache: cache, tracker: tracker}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs one API call and decodes a 2xx body into out. Failures are *errors.APIError.
func (c *Client) get(ctx context.Context, resource string, params url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &errors.APIError{Kind: errors.KindNetwork, Message: err.Error(), Err: err}
		}
	}

	params.Set("key", c.cfg.APIKey)
	endpoint := c.cfg.BaseURL + "/" + resource + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return oops.With("resource", resource).Wrap(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		// *url.Error embeds the request URL, which carries the credential.
		var urlErr *url.Error
		if stderrors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return &errors.APIError{Kind: errors.KindNetwork, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return oops.With("resource", resource, "context", "failed to decode response").Wrap(err)
	}
	return nil
}

func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload errorResponse
	var message, reason string
	if err := json.Unmarshal(body, &payload); err == nil {
		message = payload.Error.Message
		if len(payload.Error.Errors) > 0 {
			reason = payload.Error.Errors[0].Reason
		}
	} else {
		message = truncate(strings.TrimSpace(string(body)), 200)
	}

	return &errors.APIError{
		Kind:    errors.Classify(resp.StatusCode, reason, message),
		Status:  resp.StatusCode,
		Reason:  reason,
		Message: message,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
