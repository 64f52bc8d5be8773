// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-assistant/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipeline over HTTP",
	Long: `Serve exposes the pipeline, memory log, and citation graph as a JSON
API. Uploads, URL processing, and queries run the same staged pipeline
as the process command.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	comps, err := buildComponents()
	if err != nil {
		return err
	}
	defer comps.close()

	srv := server.New(comps.orch, comps.rag, comps.graph, comps.memory,
		comps.cfg.Acquisition.UploadsDir, comps.log)

	addr := comps.cfg.Serve.Addr
	if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
		addr = flagAddr
	}

	httpSrv := &http.Server{
		Addr:    addr,
		Handler: srv.Router(comps.cfg.Serve.Mode),
	}

	errCh := make(chan error, 1)
	go func() {
		comps.log.Infow("http server listening", "addr", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-stop:
		comps.log.Infow("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides config)")

	rootCmd.AddCommand(serveCmd)
}
