package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quickleads/lead-broker/internal/pipeline"
	"github.com/quickleads/lead-broker/internal/server"
	"github.com/quickleads/lead-broker/internal/store"
	"github.com/quickleads/lead-broker/pkg/geocode"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lead intake HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return err
		}

		geocoder := geocode.NewClient(
			geocode.WithBaseURL(cfg.Geocode.BaseURL),
			geocode.WithUserAgent(cfg.Geocode.UserAgent),
			geocode.WithTimeout(time.Duration(cfg.Geocode.TimeoutSecs)*time.Second),
			geocode.WithRateLimit(cfg.Geocode.RateLimit),
			geocode.WithFallback(cfg.Geocode.FallbackLat, cfg.Geocode.FallbackLon),
		)

		proc := pipeline.New(cfg, st, geocoder)

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		srv := server.New(cfg.Server, st, proc)
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
