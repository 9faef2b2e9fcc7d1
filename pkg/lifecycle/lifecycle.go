// Package lifecycle starts the long-lived services and ties their
// shutdown to process signals.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/groundsense/groundwatch/pkg/logger"
)

const ShutdownTimeout = 10 * time.Second

// Service is implemented by every long-lived worker: the ingest
// consumer, the archival job and the API server. Start must not block;
// Stop must respect the shutdown context's deadline.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Run starts the services in order and blocks until a SIGINT/SIGTERM
// or context cancellation, then stops them all within ShutdownTimeout.
// A failed Start stops what already started and returns the error.
func Run(ctx context.Context, log *logger.Logger, services ...Service) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	started := make([]Service, 0, len(services))

	for _, svc := range services {
		if err := svc.Start(ctx); err != nil {
			cancel()
			stopAll(log, started)

			return fmt.Errorf("failed to start service: %w", err)
		}

		started = append(started, svc)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case <-ctx.Done():
		log.Info().Msg("context canceled, shutting down")
	}

	cancel()

	return stopAll(log, started)
}

func stopAll(log *logger.Logger, services []Service) error {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer shutdownCancel()

	g, gctx := errgroup.WithContext(shutdownCtx)

	for _, svc := range services {
		svc := svc
		g.Go(func() error {
			if err := svc.Stop(gctx); err != nil {
				log.Error().Err(err).Msg("service shutdown error")
				return err
			}

			return nil
		})
	}

	return g.Wait()
}
