package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docview/internal/api"
	"github.com/jackzampolin/docview/internal/markdown"
	"github.com/jackzampolin/docview/internal/providers"
)

var (
	extractExtractor  string
	extractMarginalia bool
	extractMetadata   bool
	extractPages      string
	extractFull       bool
	extractSave       bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract a document without starting the server",
	Long: `Extract a local JPEG, PNG or PDF with the configured extractor.

By default the normalized markdown is printed. Use --full to print the
whole extraction response (chunks, grounding, metadata) in the output
format, and --save to also write it to the home exports directory.

Examples:
  docview extract invoice.pdf
  docview extract scan.png --full -o json
  docview extract report.pdf --pages 0,2-4 --save`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfgMgr, h, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := cfgMgr.Get()
		opts := cfg.ToSessionOptions()

		file, err := opts.Limits.ReadFile(args[0])
		if err != nil {
			return err
		}

		registry := providers.NewRegistryFromConfig(cfg.ToProviderRegistryConfig())
		registry.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		})))

		name := extractExtractor
		if name == "" {
			name = opts.Extractor
		}
		extractor, err := registry.GetExtractor(name)
		if err != nil {
			return err
		}

		marginalia := opts.IncludeMarginalia
		if cmd.Flags().Changed("marginalia") {
			marginalia = extractMarginalia
		}
		metadata := opts.IncludeMetadataInMarkdown
		if cmd.Flags().Changed("metadata") {
			metadata = extractMetadata
		}

		result, err := extractor.Extract(ctx, &providers.ExtractRequest{
			FileName:                  file.Name,
			Kind:                      file.Kind,
			Data:                      file.Data,
			IncludeMarginalia:         marginalia,
			IncludeMetadataInMarkdown: metadata,
			Pages:                     extractPages,
		})
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}
		if result.Sample {
			fmt.Fprintln(os.Stderr, "extraction service unreachable, showing sample document")
		}

		if extractSave {
			if err := h.EnsureExists(); err != nil {
				return err
			}
			path := h.ExportPath(file.Name)
			if err := api.OutputToFile(path, result); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "saved extraction to %s\n", path)
		}

		if extractFull {
			return api.Output(result)
		}
		fmt.Println(markdown.Normalize(result.Document.Markdown))
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractExtractor, "extractor", "", "Extractor name (default: defaults.extractor from config)")
	extractCmd.Flags().BoolVar(&extractMarginalia, "marginalia", false, "Keep headers, footers and page numbers")
	extractCmd.Flags().BoolVar(&extractMetadata, "metadata", false, "Include chunk metadata in the markdown")
	extractCmd.Flags().StringVar(&extractPages, "pages", "", "Page selection, e.g. 0,2-4")
	extractCmd.Flags().BoolVar(&extractFull, "full", false, "Print the full extraction response")
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "Write the response to the home exports directory")

	rootCmd.AddCommand(extractCmd)
}
