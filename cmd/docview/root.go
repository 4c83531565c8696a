package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/docview/internal/api"
	"github.com/jackzampolin/docview/internal/config"
	"github.com/jackzampolin/docview/internal/home"
	"github.com/jackzampolin/docview/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "docview",
	Short: "Document extraction viewer with grounded chunks and chat",
	Long: `Docview uploads JPEG, PNG and PDF documents to a document extraction
API and shows the result next to the source.

It provides:
  - Rendered markdown with tables and math
  - Bounding-box overlays linked to extracted chunks
  - Chat about the document with suggested follow-up questions
  - An MCP server exposing extraction and rendering as tools`,
	Version:      version.GitRelease,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.docview/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "docview home directory (default: ~/.docview)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format and load the home .env before any command runs
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		api.SetOutputFormat(outputFormat)

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if h.EnvExists() {
			if err := godotenv.Load(h.EnvPath()); err != nil {
				return fmt.Errorf("failed to load %s: %w", h.EnvPath(), err)
			}
		}
		return nil
	}

	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the home directory and config manager. An explicit
// --config wins, then the home config file, then viper's search path.
func loadConfig() (*config.Manager, *home.Dir, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, err
	}

	path := cfgFile
	if path == "" && h.ConfigExists() {
		path = h.ConfigPath()
	}

	cfgMgr, err := config.NewManager(path)
	if err != nil {
		return nil, nil, err
	}
	return cfgMgr, h, nil
}
