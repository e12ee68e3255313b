package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/animica/da/config"
	"github.com/animica/da/retrieval"
	"github.com/animica/da/store"
)

// newServeCmd loads configuration, opens the content-addressed store, and
// runs the retrieval HTTP service until the process is killed.
func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the DA retrieval service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.StorageDir)
			if err != nil {
				return fmt.Errorf("opening store at %s: %w", cfg.StorageDir, err)
			}
			defer st.Close()

			log, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			srv := retrieval.NewServer(st, log, retrieval.ServerConfig{
				MaxBodyBytes: cfg.PostMaxBytes,
				RateTier:     retrieval.RateLimitTier{Rate: rate.Limit(cfg.RateLimitPerSecond), Burst: cfg.RateLimitBurst},
				ChainID:      cfg.ChainID,
			})
			defer srv.Close()

			addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
			fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", addr)
			return http.ListenAndServe(addr, srv.Router())
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	return cmd
}
