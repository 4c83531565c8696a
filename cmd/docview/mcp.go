package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docview/internal/markdown"
	docmcp "github.com/jackzampolin/docview/internal/mcp"
	"github.com/jackzampolin/docview/internal/providers"
)

var mcpExtractor string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve extraction and rendering as MCP tools over stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout.

Tools:
  extract_document  extract a local file with the configured extractor
  render_markdown   normalize and render extraction markdown

Logs go to stderr so stdout stays reserved for the protocol.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		cfgMgr, _, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := cfgMgr.Get()
		opts := cfg.ToSessionOptions()

		registry := providers.NewRegistryFromConfig(cfg.ToProviderRegistryConfig())
		registry.SetLogger(logger)

		name := mcpExtractor
		if name == "" {
			name = opts.Extractor
		}
		extractor, err := registry.GetExtractor(name)
		if err != nil {
			logger.Warn("extract_document disabled", "extractor", name, "error", err)
		}

		s := docmcp.NewServer(docmcp.Options{
			Extractor: extractor,
			Limits:    opts.Limits,
			Renderer:  markdown.Default(),
		})
		logger.Info("mcp server ready", "extractor", name)
		return docmcp.ServeStdio(s)
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpExtractor, "extractor", "", "Extractor name (default: defaults.extractor from config)")

	rootCmd.AddCommand(mcpCmd)
}
