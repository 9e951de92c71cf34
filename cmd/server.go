package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/stockseo/internal/apikeys"
	"github.com/ziadkadry99/stockseo/internal/dashboard"
	"github.com/ziadkadry99/stockseo/internal/generator"
	"github.com/ziadkadry99/stockseo/internal/history"
	"github.com/ziadkadry99/stockseo/internal/i18n"
	"github.com/ziadkadry99/stockseo/internal/onboarding"
	"github.com/ziadkadry99/stockseo/internal/router"
	"github.com/ziadkadry99/stockseo/internal/server"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the web UI and JSON API",
	Long:  `Starts the local HTTP server with the keyword generator web UI, its JSON API and a live state stream.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		port := serverPort
		if port == 0 {
			port = a.cfg.Server.Port
		}

		srv := server.New(server.Config{Port: port}, a.log)
		registerAllRoutes(srv, a)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.log.Warn("shutdown", zap.Error(err))
			}
		}()

		fmt.Fprintf(os.Stderr, "stockseo server %s starting on http://localhost:%d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  Provider: %s (%s)\n", a.cfg.Provider, a.cfg.ModelName())
		fmt.Fprintf(os.Stderr, "  Storage: %s in %s\n", a.cfg.Storage, a.cfg.DataDir)

		return srv.Start()
	},
}

// registerAllRoutes wires up every feature's routes. Generation and the
// websocket stream go on the stream router, which has no request timeout.
func registerAllRoutes(srv *server.Server, a *app) {
	r := srv.Router()

	// Settings
	apikeys.RegisterRoutes(r, a.keys)

	// History
	history.RegisterRoutes(r, a.history)

	// Language
	i18n.RegisterRoutes(r, a.pref)

	// View routing
	router.RegisterRoutes(r, a.nav)

	// Onboarding tour
	onboarding.RegisterRoutes(r, a.tour, a.pref)

	// Generation and confirmed destructive operations
	generator.RegisterRoutes(srv.Streams(), a.orch)

	// Dashboard
	dash := dashboard.New(a.orch, a.pref, a.log)
	dash.RegisterRoutes(r)
	dash.RegisterStreams(srv.Streams())
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 0, "port to listen on (default from config)")
	rootCmd.AddCommand(serverCmd)
}
