package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/accesskit/accesskit/internal/config"
	"github.com/accesskit/accesskit/internal/db"
	"github.com/accesskit/accesskit/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the widget delivery server",
	Long:  `Starts the accesskit server: loader delivery per site, the visitor state API, the live preview channel and the site registry API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if servePort > 0 {
			cfg.Port = servePort
		}

		log, err := newLogger(cfg)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		defer log.Sync()

		database, err := db.Open(filepath.Join(cfg.DataDir, "accesskit.db"))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:             cfg.Port,
			DataDir:          cfg.DataDir,
			ReportEndpoint:   cfg.ReportEndpoint,
			GuideAutoDismiss: time.Duration(cfg.GuideAutoDismissSeconds) * time.Second,
			AllowAll:         cfg.AllowAllOrigins,
		}, database, log)

		// Shut down cleanly on SIGINT/SIGTERM.
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-stop
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()

		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override the configured port")
	rootCmd.AddCommand(serveCmd)
}
