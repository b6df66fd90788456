package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/elpatron68/todo-web/internal/auth"
	applog "github.com/elpatron68/todo-web/internal/log"
	"github.com/elpatron68/todo-web/internal/server"
	"github.com/elpatron68/todo-web/internal/store"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var listen, dbPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			applog.InitFromEnvFallback(cfg.Logging.Level)
			if dbPath != "" {
				cfg.Database = dbPath
			}

			ctx := cmd.Context()
			st, err := store.Open(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer st.Close()

			users, err := auth.FromConfig(cfg)
			if err != nil {
				return fmt.Errorf("invalid user in config: %w", err)
			}
			if users.Empty() {
				applog.Warnf("no users configured, UI is not password protected")
			}

			srv := server.NewServerWithConfig(users, st, cfg)
			addr := resolveListenAddress(cfg, listen)
			return runHTTP(ctx, &http.Server{Addr: addr, Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second})
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides TODOWEB_LISTEN and config)")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database file (overrides config)")
	return cmd
}

// runHTTP serves until ctx is cancelled, then shuts down gracefully.
func runHTTP(ctx context.Context, hs *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		applog.Infof("todo web UI listening on %s", hs.Addr)
		errc <- hs.ListenAndServe()
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	applog.Infof("shutting down")
	return hs.Shutdown(shutdownCtx)
}
