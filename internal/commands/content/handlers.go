package contentcmd

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-docsite/internal/commands"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// ErrSyncerRequired is returned when a handler executes without a markdown service.
var ErrSyncerRequired = errors.New("contentcmd: markdown sync service is required")

// Syncer is the markdown service surface content commands depend on.
type Syncer interface {
	Sync(ctx context.Context, dir string, opts interfaces.SyncOptions) (*interfaces.SyncResult, error)
}

// SyncContentHandler reconciles a content directory with the lesson index using the
// shared command handler foundation.
type SyncContentHandler struct {
	inner *commands.Handler[SyncContentCommand]
}

// NewSyncContentHandler constructs a handler wired to the provided markdown service.
func NewSyncContentHandler(service Syncer, logger interfaces.Logger, opts ...commands.HandlerOption[SyncContentCommand]) *SyncContentHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SyncContentCommand) error {
		if service == nil {
			return ErrSyncerRequired
		}

		result, err := service.Sync(ctx, strings.TrimSpace(msg.Directory), interfaces.SyncOptions{
			Prune:  msg.Prune,
			DryRun: msg.DryRun,
		})
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Result: result,
			Metadata: map[string]any{
				"operation": "sync",
			},
		})
		if err != nil {
			return err
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SyncContentCommand]{
		commands.WithLogger[SyncContentCommand](baseLogger),
		commands.WithOperation[SyncContentCommand]("content.sync"),
		commands.WithMessageFields(func(msg SyncContentCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.Prune {
				fields["prune"] = true
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SyncContentCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncContentHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SyncContentCommand].
func (h *SyncContentHandler) Execute(ctx context.Context, msg SyncContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

func invokeCallback(cb ResultCallback, envelope ResultEnvelope) {
	if cb == nil {
		return
	}
	cb(envelope)
}
