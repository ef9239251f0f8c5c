package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vrouter/internal/config"
	"github.com/vango-dev/vrouter/internal/errors"
	"github.com/vango-dev/vrouter/pkg/routeconfig"
	"github.com/vango-dev/vrouter/pkg/router"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ╦┬─┐┌─┐┬ ┬┌┬┐┌─┐┬─┐
  ╚╗╔╝├┬┘│ ││ │ │ ├┤ ├┬┘
   ╚╝ ┴└─└─┘└─┘ ┴ └─┘┴└─
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printErrors(os.Stderr, err)
		os.Exit(1)
	}
}

// globalOptions are the flags shared by every command.
type globalOptions struct {
	routes    string
	configDir string
	envFiles  []string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "vrouter",
		Short: "Inspect and serve client-side route tables",
		Long: `vrouter compiles a route table from a YAML, JSON, TOML or HCL file
and answers questions about it.

  • Print the compiled table and its warnings
  • Resolve a location the way the router would
  • Serve the table over HTTP and drive remote URL bars over WebSocket`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.routes, "routes", "r", "", "Route file or s3://bucket/key (default from vrouter.json)")
	flags.StringVarP(&opts.configDir, "config", "c", "", "Directory containing vrouter.json (default: search upwards)")
	flags.StringSliceVar(&opts.envFiles, "env-file", nil, "Environment files to read (default: .env next to vrouter.json)")

	rootCmd.AddCommand(
		tableCmd(opts),
		matchCmd(opts),
		serveCmd(opts),
		initCmd(),
		versionCmd(),
	)
	return rootCmd
}

// loadProject loads vrouter.json and the environment, then applies the
// command-line overrides. A missing vrouter.json is fine when --routes is
// given.
func loadProject(opts *globalOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configDir != "" {
		cfg, err = config.Load(opts.configDir)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		var re *errors.RouteError
		if opts.routes == "" || !stderrors.As(err, &re) || re.Code != "R041" {
			return nil, err
		}
		cfg = config.New()
	}

	if err := cfg.LoadEnv(opts.envFiles...); err != nil {
		return nil, err
	}
	if opts.routes != "" {
		cfg.Routes = opts.routes
		if !strings.HasPrefix(cfg.Routes, "s3://") && !filepath.IsAbs(cfg.Routes) {
			abs, err := filepath.Abs(cfg.Routes)
			if err != nil {
				return nil, err
			}
			cfg.Routes = abs
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadRoutes reads the project's route file, binding component and guard
// names to placeholders.
func loadRoutes(ctx context.Context, cfg *config.Config) ([]router.RouteConfig, error) {
	if cfg.Routes == "" {
		return nil, errors.New("R040")
	}
	return routeconfig.LoadLocation(ctx, cfg.RoutesLocation(), routeconfig.Placeholders())
}

// printErrors writes err to w, one formatted diagnostic per joined error.
func printErrors(w io.Writer, err error) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			printErrors(w, e)
		}
		return
	}
	var re *errors.RouteError
	if stderrors.As(err, &re) {
		errors.Fprint(w, re)
		return
	}
	fmt.Fprintf(w, "\033[31mError:\033[0m %s\n", err)
}

// printBanner prints the vrouter ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
