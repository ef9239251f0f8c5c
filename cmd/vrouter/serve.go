package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vrouter/internal/config"
	"github.com/vango-dev/vrouter/pkg/history"
	"github.com/vango-dev/vrouter/pkg/router"
	"github.com/vango-dev/vrouter/pkg/server"
	"github.com/vango-dev/vrouter/pkg/telemetry"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	var (
		addr    string
		codec   string
		tracing bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the route table over HTTP and WebSocket",
		Long: `Start the route server.

Endpoints:
  GET /routes          the compiled table and its warnings
  GET /match?to=...    resolve a location
  GET /metrics         Prometheus metrics (telemetry.metricsPath)
  GET /ws              remote history: one router per connected URL bar

Examples:
  vrouter serve
  vrouter serve --addr :9090 --codec msgpack`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProject(opts)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Serve.Addr = addr
			}
			if codec != "" {
				cfg.Serve.Codec = codec
			}
			if tracing {
				cfg.Telemetry.Tracing = true
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Address to listen on (default from vrouter.json)")
	cmd.Flags().StringVar(&codec, "codec", "", "Remote history frame codec: json or msgpack")
	cmd.Flags().BoolVar(&tracing, "tracing", false, "Create an OpenTelemetry span per navigation")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	logger := cfg.Logger(cmd.ErrOrStderr())

	routes, err := loadRoutes(ctx, cfg)
	if err != nil {
		return err
	}
	frameCodec, err := history.CodecFor(cfg.Serve.Codec)
	if err != nil {
		return err
	}

	srvConfig := &server.Config{
		Address: cfg.Serve.Addr,
		WSPath:  cfg.Serve.WSPath,
		Base:    cfg.Base,
		Mode:    router.ParseMode(cfg.Mode),
		Codec:   frameCodec,
	}
	if len(cfg.Serve.AllowedOrigins) > 0 {
		srvConfig.CheckOrigin = server.AllowOrigins(cfg.Serve.AllowedOrigins)
	}

	serverOpts := []server.Option{
		server.WithLogger(logger),
		server.WithObserver(func() router.Observer { return telemetry.Logger(logger) }),
	}
	if cfg.MetricsEnabled() {
		srvConfig.MetricsPath = cfg.Telemetry.MetricsPath
		m := telemetry.NewMetrics(telemetry.WithNamespace(cfg.Telemetry.Namespace))
		serverOpts = append(serverOpts, server.WithMetrics(m, prometheus.DefaultGatherer))
	}
	if cfg.Telemetry.Tracing {
		serverOpts = append(serverOpts, server.WithTracing(telemetry.NewTracing()))
	}

	s := server.New(routes, srvConfig, serverOpts...)

	out := cmd.OutOrStdout()
	printBanner(out)
	success(out, "Loaded %d records from %s", len(s.Router().Table().Records()), cfg.RoutesLocation())
	if n := len(s.Router().Table().Warnings()); n > 0 {
		warn(out, "%d route table warning(s), run 'vrouter table' for details", n)
	}
	info(out, "Listening on %s", cfg.Serve.Addr)
	return s.Run(ctx)
}
