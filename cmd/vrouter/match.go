package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vrouter/pkg/router"
	"github.com/vango-dev/vrouter/pkg/server"
)

func matchCmd(opts *globalOptions) *cobra.Command {
	var (
		from       string
		name       string
		appendPath bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "match [location]",
		Short: "Resolve a location against the route table",
		Long: `Resolve a location the way a navigation would and print the route it
lands on, following record redirects and aliases.

Examples:
  vrouter match /users/42?tab=posts
  vrouter match posts --from /users/42 --append
  vrouter match --name user --param id=42
  vrouter match /old --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := cmd.Flags().GetStringToString("param")
			if err != nil {
				return err
			}
			var to router.Location
			switch {
			case name != "":
				to = router.Named(name, params)
			case len(args) == 1:
				to = router.Path(args[0])
			default:
				return fmt.Errorf("pass a location or --name")
			}

			cfg, err := loadProject(opts)
			if err != nil {
				return err
			}
			routes, err := loadRoutes(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			r := router.New(routes,
				router.WithBase(cfg.Base),
				router.WithMode(router.ParseMode(cfg.Mode)),
				router.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
			)
			current := router.Start
			if from != "" {
				current = r.Match(router.Path(from), router.Start)
			}
			res := r.Resolve(to, current, appendPath)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(server.MatchResponse{Route: res.Route, Href: res.Href})
			}
			printMatch(out, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Location of the current route for relative locations")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Resolve a named route instead of a path")
	cmd.Flags().StringToString("param", nil, "Route params for --name (key=value)")
	cmd.Flags().BoolVarP(&appendPath, "append", "a", false, "Append a relative location to the current path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the route as JSON")

	return cmd
}

func printMatch(w io.Writer, res router.Resolved) {
	route := res.Route
	if len(route.Matched) == 0 {
		warn(w, "no route matches %s", route.FullPath)
		info(w, "href:     %s", res.Href)
		return
	}

	info(w, "route:    %s", dash(route.Name))
	info(w, "path:     %s", route.Path)
	info(w, "fullPath: %s", route.FullPath)
	info(w, "href:     %s", res.Href)
	if route.RedirectedFrom != "" {
		info(w, "from:     %s", route.RedirectedFrom)
	}
	if len(route.Params) > 0 {
		keys := slices.Sorted(maps.Keys(route.Params))
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + "=" + route.Params[k]
		}
		info(w, "params:   %s", strings.Join(pairs, " "))
	}
	chain := make([]string, len(route.Matched))
	for i, rec := range route.Matched {
		chain[i] = rec.Path
		if chain[i] == "" {
			chain[i] = "/"
		}
	}
	info(w, "matched:  %s", strings.Join(chain, " > "))
}
