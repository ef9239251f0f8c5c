package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vrouter/internal/config"
)

const starterRoutes = `routes:
  - path: /
    name: home
    component: Home
  - path: /users/:id
    name: user
    component: User
    props: true
    children:
      - path: posts
        name: user-posts
        component: UserPosts
  - path: /home
    redirect: /
`

func initCmd() *cobra.Command {
	var (
		name   string
		routes string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create vrouter.json and a starter route file",
		Long: `Create vrouter.json in the given directory (default: current directory).
A starter routes.yaml is written when the route file does not exist yet.

Examples:
  vrouter init
  vrouter init ./web --name shop
  vrouter init --routes routes.hcl`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
			if config.Exists(dir) && !force {
				return fmt.Errorf("%s already exists in %s (use --force to overwrite)", config.ConfigFileName, dir)
			}

			cfg := config.New()
			cfg.Name = name
			if cfg.Name == "" {
				abs, err := filepath.Abs(dir)
				if err != nil {
					return err
				}
				cfg.Name = filepath.Base(abs)
			}
			cfg.Routes = routes

			out := cmd.OutOrStdout()
			path := filepath.Join(dir, config.ConfigFileName)
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			success(out, "Created %s", path)

			routesPath := filepath.Join(dir, routes)
			if _, err := os.Stat(routesPath); err == nil {
				info(out, "Keeping existing %s", routesPath)
				return nil
			}
			if filepath.Ext(routes) != ".yaml" && filepath.Ext(routes) != ".yml" {
				warn(out, "No starter template for %s, create it yourself", routes)
				return nil
			}
			if err := os.WriteFile(routesPath, []byte(starterRoutes), 0644); err != nil {
				return err
			}
			success(out, "Created %s", routesPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name (default: directory name)")
	cmd.Flags().StringVar(&routes, "routes", "routes.yaml", "Route file, relative to vrouter.json")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing vrouter.json")

	return cmd
}
