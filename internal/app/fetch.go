package app

import (
	"context"
	"errors"
)

// FetchOptions configure the feed refresh.
type FetchOptions struct {
	Refresh bool
}

// Fetch retrieves the configured calendar window and stores it in the
// local cache so later commands start without a network round trip.
func (a *App) Fetch(ctx context.Context, opts FetchOptions) error {
	if a.Config.Cache.Path == "" {
		return errors.New("cache.path not configured; nothing to fetch into")
	}

	feedCache, err := a.openFeedCache()
	if err != nil {
		return err
	}
	defer feedCache.Close()

	records, err := a.fetchRecords(ctx, feedCache, opts.Refresh)
	if err != nil {
		return err
	}

	a.Logger.Info().Int("records", len(records)).Msg("feed cached")
	return nil
}
