package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fmuoria/interview-coach/internal/api"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var servePort string

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (overrides PORT and the config file)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	port := servePort
	if port == "" {
		port = env.cfg.Port
	}

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           api.NewServer(env.agent).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Printf("Starting Interview Coach on port %s...\n", port)
	fmt.Printf("Endpoints:\n")
	fmt.Printf("  POST /interviews - Submit a mock interview for scoring\n")
	fmt.Printf("  GET /interviews - Browse the results library\n")
	fmt.Printf("  POST /documents - Upload transcripts and other documents\n")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Printf("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
