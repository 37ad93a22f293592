package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

// Start runs the HTTP server in the background and returns a channel that is
// closed once shutdown should begin: on SIGINT, SIGTERM or SIGHUP, or when
// the server cannot listen.
func (a *App) Start() <-chan struct{} {
	done := make(chan struct{})

	a.goroutine.Go(a.ctx, "http server", func(context.Context) error {
		slog.Info("http server listening", "address", a.httpServer.Addr)

		err := a.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		slog.Error("failed to listen and serve http server", "error", err)
		a.cancel()
		return err
	})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sig)

		select {
		case s := <-sig:
			slog.Info("shutdown requested", "signal", s.String())
		case <-a.ctx.Done():
		}

		a.cancel()
		close(done)
	}()

	return done
}

// Serve runs the HTTP server on l. The returned channel yields the result of
// http.Server.Serve.
func (a *App) Serve(l net.Listener) <-chan error {
	errChan := make(chan error, 1)

	go func() {
		defer close(errChan)
		errChan <- a.httpServer.Serve(l)
	}()

	return errChan
}

// Stop drains the HTTP server, waits for background tasks, then releases
// resources. ctx bounds the whole sequence.
func (a *App) Stop(ctx context.Context) {
	a.cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}

	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "background tasks failed", "error", err)
	}

	for _, c := range a.closers {
		if err := c.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", c.name, "error", err)
		}
	}

	slog.InfoContext(ctx, "application gracefully shutdown")
}
