package router

import (
	"io"
	"log/slog"
	"testing"

	rerrors "github.com/vango-dev/vrouter/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func comp(name string) *Component {
	return &Component{Name: name}
}

func newTestRouter(routes []RouteConfig, opts ...Option) *Router {
	return New(routes, append([]Option{WithLogger(discardLogger())}, opts...)...)
}

func warningCodes(warnings []*rerrors.RouteError) []string {
	codes := make([]string, len(warnings))
	for i, w := range warnings {
		codes[i] = w.Code
	}
	return codes
}

func hasCode(t *testing.T, warnings []*rerrors.RouteError, code string) bool {
	t.Helper()
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
