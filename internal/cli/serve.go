package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Genty83/SimplifyTable/internal/server"
	"github.com/Genty83/SimplifyTable/pkg/query"
	"github.com/Genty83/SimplifyTable/pkg/source"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Starts the HTTP API serving /v1/query, /v1/plan, /v1/sources,
/healthz and /metrics. Configured sources can be warmed into the cache
before the listener starts.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address override, e.g. :8080")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	engine, tracker, cleanup, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Warm.Enabled && len(cfg.Sources) > 0 {
		sources := make([]source.Source, 0, len(cfg.Sources))
		for _, sc := range cfg.Sources {
			sources = append(sources, source.Remote(sc.URL))
		}
		failures := engine.Warm(cmd.Context(), sources, query.WarmConfig{
			MaxConcurrency: cfg.Warm.MaxConcurrency,
			Timeout:        cfg.WarmTimeout(),
		})
		for key, err := range failures {
			log.Warn().Err(err).Str("source", key).Msg("Startup warm failed")
		}
	}

	srv, err := server.New(server.Config{
		Addr:    cfg.Server.Addr,
		Engine:  engine,
		Stats:   tracker,
		Sources: cfg.Sources,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
