package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/policytree"
	"github.com/aretw0/policytree/pkg/adapters/mcp"
	"github.com/aretw0/policytree/pkg/adapters/memory"
	"github.com/spf13/cobra"
)

// newMCPCmd represents the mcp command
func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol (MCP) server",
		Long: `Starts policytree as an MCP Server exposing the prune_tree and flatten_tree tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			transport, _ := cmd.Flags().GetString("transport")
			port, _ := cmd.Flags().GetInt("port")

			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			engine := policytree.New(
				policytree.WithLogger(logger),
				policytree.WithStore(memory.NewStore()),
			)
			srv := mcp.NewServer(engine)

			switch transport {
			case "stdio":
				// Ensure logs don't corrupt JSON-RPC on Stdout
				log.SetOutput(os.Stderr)
				logger.Info("starting policytree MCP server (stdio)")
				return srv.ServeStdio()
			case "sse":
				logger.Info("starting policytree MCP server (SSE)", "port", port)

				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				logger.Info("MCP server stopped gracefully")
				return nil
			default:
				return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
			}
		},
	}

	cmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	cmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	return cmd
}
