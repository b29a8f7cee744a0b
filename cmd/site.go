package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/accesskit/accesskit/internal/config"
	"github.com/accesskit/accesskit/internal/db"
	"github.com/accesskit/accesskit/internal/site"
)

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Manage registered host sites",
}

var siteAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a new host site",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cleanup, err := openSiteStore()
		if err != nil {
			return err
		}
		defer cleanup()

		origin, _ := cmd.Flags().GetString("origin")
		include, _ := cmd.Flags().GetStringSlice("include")
		exclude, _ := cmd.Flags().GetStringSlice("exclude")

		id, err := store.Create(context.Background(), site.Site{
			Name:         args[0],
			Origin:       origin,
			IncludePaths: include,
			ExcludePaths: exclude,
			Enabled:      true,
		})
		if err != nil {
			return fmt.Errorf("registering site: %w", err)
		}

		fmt.Printf("Registered site %s\n", id)
		fmt.Printf("Loader tag:\n  <script src=\"https://YOUR-HOST/widget/%s.js\" defer></script>\n", id)
		return nil
	},
}

var siteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered sites",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cleanup, err := openSiteStore()
		if err != nil {
			return err
		}
		defer cleanup()

		sites, err := store.List(context.Background())
		if err != nil {
			return fmt.Errorf("listing sites: %w", err)
		}
		if len(sites) == 0 {
			fmt.Println("No sites registered. Use `accesskit site add` to register one.")
			return nil
		}

		for _, s := range sites {
			state := "disabled"
			if s.Enabled {
				state = "enabled"
			}
			fmt.Printf("%s  %-24s %-30s %s\n", s.ID, s.Name, s.Origin, state)
		}
		return nil
	},
}

var siteEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable widget delivery for a site",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setSiteEnabled(args[0], true) },
}

var siteDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Disable widget delivery for a site",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setSiteEnabled(args[0], false) },
}

var siteImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Bulk-register sites from a YAML file",
	Long:  `Reads a YAML list of sites (name, origin, include_paths, exclude_paths) and registers each one.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		var sites []site.Site
		if err := yaml.Unmarshal(data, &sites); err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}
		if len(sites) == 0 {
			return fmt.Errorf("no sites found in %s", args[0])
		}

		store, cleanup, err := openSiteStore()
		if err != nil {
			return err
		}
		defer cleanup()

		bar := progressbar.Default(int64(len(sites)), "importing sites")
		var failed int
		for _, s := range sites {
			s.Enabled = true
			if _, err := store.Create(context.Background(), s); err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "\nWarning: %s: %v\n", s.Name, err)
			}
			bar.Add(1)
		}

		fmt.Printf("\nImported %d site(s), %d failed\n", len(sites)-failed, failed)
		return nil
	},
}

func setSiteEnabled(id string, enabled bool) error {
	store, cleanup, err := openSiteStore()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := store.SetEnabled(context.Background(), id, enabled); err != nil {
		return err
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Printf("Site %s %s\n", id, state)
	return nil
}

// openSiteStore opens the configured database and returns a site store
// plus a cleanup function.
func openSiteStore() (*site.Store, func(), error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	database, err := db.Open(filepath.Join(cfg.DataDir, "accesskit.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	return site.NewStore(database), func() { database.Close() }, nil
}

func init() {
	siteAddCmd.Flags().String("origin", "", "allowed origin, e.g. https://shop.example")
	siteAddCmd.Flags().StringSlice("include", nil, "URL path globs the widget runs on")
	siteAddCmd.Flags().StringSlice("exclude", nil, "URL path globs the widget stays off")

	siteCmd.AddCommand(siteAddCmd, siteListCmd, siteEnableCmd, siteDisableCmd, siteImportCmd)
	rootCmd.AddCommand(siteCmd)
}
