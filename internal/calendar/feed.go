package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const feedTimeLayout = "2006-01-02T15:04:05.000Z"

// FeedOptions parameterise the economic-calendar feed client.
type FeedOptions struct {
	BaseURL       string
	From          time.Time
	To            time.Time
	Countries     string
	MinImportance int
	UserAgent     string
	Timeout       time.Duration
}

// CacheKey derives the memoization key for this feed window. Tables built
// from the feed are pure functions of these parameters.
func (o FeedOptions) CacheKey() string {
	return fmt.Sprintf("events|%s|%s|%s|%d",
		o.From.UTC().Format(feedTimeLayout),
		o.To.UTC().Format(feedTimeLayout),
		o.Countries,
		o.MinImportance,
	)
}

// Feed retrieves raw event records over HTTP. It performs no parsing beyond
// JSON decoding; table construction is BuildTable's job.
type Feed struct {
	opts   FeedOptions
	client *resty.Client
	logger zerolog.Logger
}

// NewFeed constructs a feed client.
func NewFeed(opts FeedOptions, logger zerolog.Logger) *Feed {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	client.SetTimeout(timeout)
	if ua := strings.TrimSpace(opts.UserAgent); ua != "" {
		client.SetHeader("User-Agent", ua)
	}

	return &Feed{
		opts:   opts,
		client: client,
		logger: logger.With().Str("component", "calendar_feed").Logger(),
	}
}

type feedEnvelope struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result"`
}

// FetchRecords retrieves the bounded historical event window configured in
// the options.
func (f *Feed) FetchRecords(ctx context.Context) ([]Record, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"from":          f.opts.From.UTC().Format(feedTimeLayout),
			"to":            f.opts.To.UTC().Format(feedTimeLayout),
			"countries":     f.opts.Countries,
			"minImportance": strconv.Itoa(f.opts.MinImportance),
		}).
		Get("/events")
	if err != nil {
		return nil, fmt.Errorf("fetch calendar feed: %w", err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("calendar feed error (%d): %s", resp.StatusCode(), excerpt(resp.String()))
	}

	var envelope feedEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("decode calendar feed: %w", err)
	}

	var records []Record
	if len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, &records); err != nil {
			return nil, fmt.Errorf("decode calendar records: %w", err)
		}
	}

	f.logger.Info().Int("records", len(records)).
		Time("from", f.opts.From).
		Time("to", f.opts.To).
		Msg("calendar feed fetched")

	return records, nil
}

func excerpt(body string) string {
	body = strings.TrimSpace(strings.ReplaceAll(body, "\n", " "))
	if len(body) > 200 {
		return body[:200]
	}
	return body
}
