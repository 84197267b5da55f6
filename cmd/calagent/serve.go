package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/hupe1980/calagent/core"
	"github.com/hupe1980/calagent/logging"
	"github.com/hupe1980/calagent/tool"
)

func newServeCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run as an MCP server exposing the calendar tools",
		Long: `Runs calagent as a Model Context Protocol server over stdio. The three
calendar tools (list_scheduled_events, book_event, cancel_event) are exposed
so any MCP-capable client can drive the Cal.com account directly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(envFile)
			if err != nil {
				return err
			}

			logger := newLogger(cfg)

			client, err := newCalClient(cfg, logger)
			if err != nil {
				return err
			}

			tools := tool.NewCalendarTools(client, func(o *tool.CalendarToolsOptions) {
				o.DefaultEventTypeSlug = cfg.DefaultEventTypeSlug
			})

			mcpSrv := mcpserver.NewMCPServer("calagent", rootCmd.Version,
				mcpserver.WithToolCapabilities(true),
			)

			if err := registerMCPTools(mcpSrv, tools, logger); err != nil {
				return err
			}

			return mcpserver.ServeStdio(mcpSrv)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to a .env file (default: ./.env if present)")

	return cmd
}

// registerMCPTools bridges the internal tool abstraction onto the MCP server.
// Tool schemas are already JSON Schema objects, so they pass through raw.
func registerMCPTools(s *mcpserver.MCPServer, tools []tool.Tool, logger logging.Logger) error {
	for _, t := range tools {
		schema, err := json.Marshal(t.Parameters())
		if err != nil {
			return fmt.Errorf("marshal schema for %s: %w", t.Name(), err)
		}

		mcpTool := mcp.NewToolWithRawSchema(t.Name(), t.Description(), schema)

		t := t
		s.AddTool(mcpTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			if args == nil {
				args = map[string]interface{}{}
			}

			toolCtx := core.NewToolContext(ctx, "mcp", core.NewID(), logger)

			out, err := t.Call(toolCtx, args)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			switch v := out.(type) {
			case string:
				return mcp.NewToolResultText(v), nil
			default:
				encoded, err := json.Marshal(v)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("encode tool result: %v", err)), nil
				}
				return mcp.NewToolResultText(string(encoded)), nil
			}
		})
	}

	return nil
}
