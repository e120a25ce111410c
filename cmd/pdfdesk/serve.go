package main

import (
	"context"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/local/pdfdesk/internal/fetch"
	"github.com/local/pdfdesk/internal/limiter"
	"github.com/local/pdfdesk/internal/metrics"
	"github.com/local/pdfdesk/internal/statuscheck"
	"github.com/local/pdfdesk/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser dashboard",
	Long: `Serve hosts the local dashboard with one form per operation, plus
/healthz and /metrics. One operation runs at a time; concurrent
requests are rejected with 429.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listen, _ := cmd.Flags().GetString("listen")
		if listen == "" {
			listen = cfg.Web.ListenAddr
		}
		return runServe(cmd.Context(), listen)
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address (default PDFDESK_LISTEN_ADDR, :8490)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context, listen string) error {
	metrics.Init()
	fetch.CleanupStale(cfg.Fetch.TempDir, 24*time.Hour)

	gate := limiter.New(1)
	checker := statuscheck.New(statuscheck.Options{
		SofficePath: cfg.Convert.SofficePath,
		TempDir:     cfg.Fetch.TempDir,
	})
	dash := web.New(svc, gate, checker, web.Defaults{
		DPI:    cfg.Render.DPI,
		Format: cfg.Render.Format,
		OutDir: filepath.Join(cfg.Fetch.TempDir, "pdfdesk-out"),
	})

	mux := http.NewServeMux()
	dash.RegisterRoutes(mux)

	srv := &http.Server{Addr: listen, Handler: mux}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", listen).Msg("dashboard listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("shutdown complete")
	return nil
}
