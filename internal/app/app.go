package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"macromood/internal/cache"
	"macromood/internal/calendar"
	"macromood/internal/config"
	"macromood/internal/pricedata"
	"macromood/internal/render"
	"macromood/internal/session"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) feedOptions() calendar.FeedOptions {
	c := a.Config.Calendar
	return calendar.FeedOptions{
		BaseURL:       c.BaseURL,
		From:          c.From,
		To:            c.To,
		Countries:     c.Countries,
		MinImportance: c.MinImportance,
		UserAgent:     c.UserAgent,
		Timeout:       c.RequestTimeout,
	}
}

func (a *App) openFeedCache() (cache.FeedCache, error) {
	if a.Config.Cache.Path == "" {
		a.Logger.Debug().Msg("cache.path not configured; feed caching disabled")
		return cache.NewNopCache(), nil
	}
	return cache.NewSQLiteCache(a.Config.Cache.Path, a.Logger)
}

// fetchRecords returns the configured feed window's raw records, serving
// from the local cache when possible. refresh forces a refetch and
// overwrites the cached entry.
func (a *App) fetchRecords(ctx context.Context, feedCache cache.FeedCache, refresh bool) ([]calendar.Record, error) {
	opts := a.feedOptions()
	key := opts.CacheKey()

	if !refresh {
		records, hit, err := feedCache.Get(key)
		if err != nil {
			return nil, err
		}
		if hit {
			a.Logger.Debug().Str("key", key).Int("records", len(records)).Msg("feed served from cache")
			return records, nil
		}
	}

	feed := calendar.NewFeed(opts, a.Logger)
	records, err := feed.FetchRecords(ctx)
	if err != nil {
		return nil, err
	}

	if err := feedCache.Put(key, records); err != nil {
		a.Logger.Warn().Err(err).Msg("failed to cache feed records")
	}
	return records, nil
}

// loadTable builds the calendar table for the configured feed window.
func (a *App) loadTable(ctx context.Context, refresh bool) (*calendar.Table, error) {
	feedCache, err := a.openFeedCache()
	if err != nil {
		return nil, err
	}
	defer feedCache.Close()

	records, err := a.fetchRecords(ctx, feedCache, refresh)
	if err != nil {
		return nil, err
	}

	table := calendar.BuildTable(records, a.Config.Calendar.Cutoff, a.Logger)
	a.Logger.Info().Int("occurrences", table.Len()).Int("skipped", table.Skipped()).Msg("calendar table ready")
	return table, nil
}

func (a *App) location() (*time.Location, error) {
	loc, err := time.LoadLocation(a.Config.Data.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", a.Config.Data.Timezone, err)
	}
	return loc, nil
}

// newSession wires the calendar table, the memoized price loader, and the
// alignment logic into the selection interface.
func (a *App) newSession(table *calendar.Table) (*session.Session, error) {
	loc, err := a.location()
	if err != nil {
		return nil, err
	}

	loader := pricedata.NewLoader(pricedata.LoaderOptions{
		Dir:          a.Config.Data.Dir,
		PathTemplate: a.Config.Data.PathTemplate,
		Location:     loc,
	}, a.Logger)

	return session.New(table, session.NewTableCache(loader), loc, a.Logger), nil
}

func (a *App) newRenderer() *render.Renderer {
	return render.NewRenderer(render.Options{
		Width:  a.Config.Chart.Width,
		Height: a.Config.Chart.Height,
	}, a.Logger)
}
