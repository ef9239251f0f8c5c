package telemetry

import (
	"context"
	"log/slog"

	"github.com/vango-dev/vrouter/pkg/router"
)

// Logger returns an observer that logs each navigation outcome. Completed
// navigations log at Debug, failures at Warn and other outcomes at Info.
func Logger(logger *slog.Logger) router.Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return func(e router.Event) {
		if e.Kind == router.EventStarted {
			return
		}
		level := slog.LevelInfo
		switch e.Kind {
		case router.EventCompleted:
			level = slog.LevelDebug
		case router.EventFailed:
			level = slog.LevelWarn
		}
		attrs := []slog.Attr{
			slog.Uint64("seq", e.Seq),
			slog.String("route", RouteLabel(e.To)),
			slog.Duration("duration", e.Duration),
		}
		if e.To != nil {
			attrs = append(attrs, slog.String("to", e.To.FullPath))
		}
		if e.From != nil {
			attrs = append(attrs, slog.String("from", e.From.FullPath))
		}
		if e.Err != nil {
			attrs = append(attrs, slog.String("error", e.Err.Error()))
		}
		logger.LogAttrs(context.Background(), level, "navigation "+e.Kind.String(), attrs...)
	}
}
