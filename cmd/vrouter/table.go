package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vrouter/internal/errors"
	"github.com/vango-dev/vrouter/pkg/router"
	"github.com/vango-dev/vrouter/pkg/server"
)

func tableCmd(opts *globalOptions) *cobra.Command {
	var (
		asJSON bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the compiled route table",
		Long: `Compile the route file and print its records in match priority order,
followed by any warnings found while compiling.

Examples:
  vrouter table
  vrouter table -r routes.hcl --json
  vrouter table --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProject(opts)
			if err != nil {
				return err
			}
			routes, err := loadRoutes(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			table := router.NewTable(routes, slog.New(slog.NewTextHandler(io.Discard, nil)))
			resp := server.DescribeTable(table)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(resp); err != nil {
					return err
				}
			} else {
				printTable(out, resp, table.Warnings())
			}

			if strict && len(resp.Warnings) > 0 {
				return fmt.Errorf("%d route table warning(s)", len(resp.Warnings))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the table as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when the table has warnings")

	return cmd
}

func printTable(w io.Writer, resp server.TableResponse, warnings []*errors.RouteError) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tNAME\tCOMPONENTS\tTARGET")
	for _, r := range resp.Records {
		path := r.Path
		if path == "" {
			path = "/"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", path, dash(r.Name), dash(components(r.Components)), dash(target(r)))
	}
	tw.Flush()

	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, we := range warnings {
		line := we.FormatCompact()
		if we.RouteName != "" {
			line += " [" + we.RouteName + "]"
		}
		warn(w, "%s", line)
	}
}

func components(m map[string]string) string {
	slots := slices.Sorted(maps.Keys(m))
	parts := make([]string, 0, len(slots))
	for _, slot := range slots {
		if slot == "default" {
			parts = append(parts, m[slot])
			continue
		}
		parts = append(parts, slot+"="+m[slot])
	}
	return strings.Join(parts, ",")
}

func target(r router.RecordInfo) string {
	switch {
	case r.Redirect != "":
		return "→ " + r.Redirect
	case r.AliasOf != "":
		return "alias of " + r.AliasOf
	}
	return ""
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
