package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docview/internal/api"
	"github.com/jackzampolin/docview/internal/markdown"
)

var renderFormat string

var renderCmd = &cobra.Command{
	Use:   "render <file|->",
	Short: "Normalize extraction markdown and render it",
	Long: `Normalize markdown produced by the extraction API and render it.

HTML tables become pipe tables, comments are stripped and math is
rendered. Use "-" to read from stdin.

Formats:
  markdown  normalized markdown (default)
  html      sanitized HTML
  full      the full rendering result in the output format

Examples:
  docview render doc.md
  cat doc.md | docview render - --format html`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}

		rendered, err := markdown.Render(string(data))
		if err != nil {
			return err
		}

		switch renderFormat {
		case "markdown", "":
			fmt.Fprintln(cmd.OutOrStdout(), rendered.Markdown)
		case "html":
			fmt.Fprintln(cmd.OutOrStdout(), rendered.HTML)
		case "full":
			return api.Output(rendered)
		default:
			return fmt.Errorf("unknown format %q: use markdown, html or full", renderFormat)
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderFormat, "format", "markdown", "Output: markdown, html or full")

	rootCmd.AddCommand(renderCmd)
}
