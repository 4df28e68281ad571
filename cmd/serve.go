package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"golestoon/pkg/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local catalogue over a read-only HTTP API",
	Long: `Expose the synced catalogue as JSON so other golestoon instances can
use it as their remote catalogue. With --sync the catalogue is refreshed in
the background on the configured interval.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("listen")
		origins, _ := cmd.Flags().GetStringSlice("origin")
		background, _ := cmd.Flags().GetBool("sync")

		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		if addr == "" {
			addr = ws.Config.Listen()
		}
		if !ws.Store.HasCatalog() && !background {
			warn("No catalogue synced yet; /courses will answer 503 until `golestoon sync` runs")
		}

		srvLog := ws.Log.With().Str("component", "api").Logger()
		router := api.NewRouter(ws.Store, api.Options{
			AllowedOrigins: origins,
			Log:            srvLog,
			Debug:          verbose,
		})

		workerCtx, workerCancel := context.WithCancel(context.Background())
		defer workerCancel()
		if background {
			passphrase, err := passphraseFor(ws.Vault())
			if err != nil {
				return err
			}
			s := ws.Syncer(passphrase)
			go func() {
				if err := s.Watch(workerCtx, ws.Config.Interval()); err != nil {
					srvLog.Error().Err(err).Msg("background sync stopped")
				}
			}()
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			srvLog.Info().Str("addr", addr).Msg("server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()
		fmt.Println(accentStyle.Render(fmt.Sprintf("Catalogue API on http://%s (Ctrl+C to stop)", addr)))

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err, ok := <-errCh:
			if ok {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case sig := <-quit:
			srvLog.Info().Str("signal", sig.String()).Msg("shutting down")
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		workerCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		srvLog.Info().Msg("shutdown complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "Listen address (default from config, else 127.0.0.1:8780)")
	serveCmd.Flags().StringSlice("origin", nil, "Allowed CORS origins (default any)")
	serveCmd.Flags().Bool("sync", false, "Sync the catalogue in the background")
}
