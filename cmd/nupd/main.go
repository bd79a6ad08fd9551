// Command nupd serves booklet imposition over a connect RPC.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/t12nslookup/hexapdf-nup/internal/config"
	"github.com/t12nslookup/hexapdf-nup/internal/logging"
	"github.com/t12nslookup/hexapdf-nup/internal/server"
)

type options struct {
	configPath string
	addr       string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "nupd",
		Short: "Serve booklet imposition over HTTP",
		Long: `nupd accepts a PDF on the Impose RPC and answers with the pages laid
out two columns wide on folded sheets, ready for printing and cutting.

Examples:
  # Listen on the default address with the A4 2x4 layout
  nupd

  # Use a configuration file and override its address
  nupd -c nupd.yaml --addr 127.0.0.1:9000`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			cfg.Log.Output = stderr
			logging.Init(cfg.Log)
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (overrides the configuration file)")

	return cmd
}

func loadConfig(opts *options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			return config.Config{}, err
		}
	}
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}
	return cfg, nil
}

func serve(ctx context.Context, cfg config.Config) error {
	l, err := cfg.SheetLayout()
	if err != nil {
		return err
	}
	svc, err := server.NewService(l, cfg.Password)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.NewMux(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Add(logging.Path("addr", cfg.Addr)).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
