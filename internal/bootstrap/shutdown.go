package bootstrap

import (
	"context"
	"log/slog"
)

type stoppableServer interface {
	Stop(ctx context.Context) error
}

type stoppable interface {
	Stop()
}

type sessionCloser interface {
	CloseAll(ctx context.Context) error
}

type storeCloser interface {
	Close() error
}

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped.
type ShutdownComponents struct {
	Events    stoppable
	Server    stoppableServer
	Scheduler stoppable
	Pool      stoppable
	Sessions  sessionCloser
	Stores    storeCloser
}

// GracefulShutdown stops the application in order:
// 1. Event stream hub (ends open streams so the server can drain)
// 2. HTTP server (stop accepting new requests)
// 3. Scheduler and worker pool (no more flushes or weather rotations)
// 4. Garden sessions (final save of every live garden)
// 5. Stores
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Events != nil {
		components.Events.Stop()
	}
	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	slog.Info(LogMsgStoppingBackgroundJobs)
	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}
	if components.Pool != nil {
		components.Pool.Stop()
	}

	if components.Sessions != nil {
		slog.Info(LogMsgClosingSessions)
		if err := components.Sessions.CloseAll(ctx); err != nil {
			slog.Error(LogMsgCloseSessionsFailed, "error", err)
		}
	}

	if components.Stores != nil {
		if err := components.Stores.Close(); err != nil {
			slog.Error(LogMsgStoreCloseFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}
