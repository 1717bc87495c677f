package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/gantry/internal/httpapi"
	"github.com/alexanderramin/gantry/internal/mcpserver"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve gantt layouts and utilization as JSON over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.HTTPAddr
			}
			e := httpapi.New(httpapi.Services{
				Projects:    app.Projects,
				Tasks:       app.Tasks,
				Gantt:       app.Gantt,
				Utilization: app.Utilization,
			}, app.logger())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- e.Start(addr)
			}()
			app.logger().Info("http server listening", "addr", addr)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("http server: %w", err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutting down http server: %w", err)
			}
			app.logger().Info("http server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to the configured http.addr)")

	return cmd
}

func newMCPCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run an MCP server on stdio exposing gantt and utilization tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := mcpserver.NewServer(mcpserver.Services{
				Projects:    app.Projects,
				Tasks:       app.Tasks,
				Gantt:       app.Gantt,
				Utilization: app.Utilization,
			}, app.Version)
			return mcpserver.Serve(s)
		},
	}
}
