package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"macromood/internal/server"
)

// Serve runs the interactive dashboard until interrupted.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	table, err := a.loadTable(ctx, false)
	if err != nil {
		return err
	}

	sess, err := a.newSession(table)
	if err != nil {
		return err
	}

	srv := server.New(a.Config.Server, sess, a.newRenderer(), a.Config.Data.Symbol, a.Logger)

	a.Logger.Info().Msg("starting dashboard")
	err = srv.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("dashboard terminated with error")
		return err
	}

	a.Logger.Info().Msg("dashboard stopped")
	return nil
}
