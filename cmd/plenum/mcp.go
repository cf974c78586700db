package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/aretw0/plenum"
	"github.com/aretw0/plenum/internal/cli"
	"github.com/aretw0/plenum/pkg/adapters/mcp"
	"github.com/aretw0/plenum/pkg/persistence/middleware"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the parser as MCP tools (parse_protocol, get_protocol, list_protocols)
so that AI agents can segment protocols and read stored ones.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		debug, _ := cmd.Flags().GetBool("debug")

		// Stdout carries JSON-RPC; logs go to stderr only.
		logger, err := cli.NewLogger(cmd.ErrOrStderr(), cfg, debug)
		if err != nil {
			return err
		}
		log.SetOutput(cmd.ErrOrStderr())

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		b, err := cli.OpenBackend(sc, cfg.Store, middleware.NewLoggingMiddleware(logger))
		if err != nil {
			return err
		}
		defer b.Close()

		parser, err := plenum.New(plenum.WithConfig(cfg), plenum.WithLogger(logger))
		if err != nil {
			return err
		}
		srv := mcp.NewServer(parser, b.Store, logger)

		switch transport {
		case "stdio":
			logger.Info("starting plenum MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("starting plenum MCP server (SSE)", "port", port)
			if err := srv.ServeSSE(sc, port); err != nil {
				return err
			}
			logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
