// Package server serves a route table to tools and remote peers.
//
// The HTTP API answers inspection requests against one shared router:
//
//	GET /routes                  records in priority order, names, warnings
//	GET /match?to=/users/1       the resolved route and its href
//	GET /metrics                 Prometheus metrics, when enabled
//
// Each websocket connection on the configured path gets its own router
// whose history is the peer's URL bar (history.Remote). The router writes
// push, replace and go frames; the peer reports back and forward moves as
// pop frames and receives every committed route as a route frame.
//
//	s := server.New(routes, &server.Config{Address: ":8080", MetricsPath: "/metrics"},
//	    server.WithMetrics(telemetry.NewMetrics(), prometheus.DefaultGatherer),
//	)
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	return s.Run(ctx)
package server
