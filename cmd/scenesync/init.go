package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/scenesync/internal/config"
	"github.com/vango-dev/scenesync/internal/errors"
)

// defaultStylesheetName is the stylesheet init writes next to scenesync.json.
const defaultStylesheetName = "styles.yaml"

const defaultStylesheet = `# Styles applied to elements created through the document API.
# Entries replace the built-in style for the same tag.
button:
  backgroundColor: "#2196F3"
  paddingHorizontal: 12
  borderRadius: 4
h1:
  marginBottom: 12
`

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default scenesync.json and stylesheet",
		Long: `Write scenesync.json and styles.yaml with default settings.

Examples:
  scenesync init
  scenesync init ./deploy --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(dir, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files")

	return cmd
}

func runInit(dir string, force bool) error {
	if config.Exists(dir) && !force {
		return errors.New("E123").
			WithDetail(filepath.Join(dir, config.ConfigFileName) + " already exists").
			WithSuggestion("Pass --force to overwrite it")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.New("E101").Wrap(err)
	}

	sheetPath := filepath.Join(dir, defaultStylesheetName)
	if _, err := os.Stat(sheetPath); err != nil || force {
		if err := os.WriteFile(sheetPath, []byte(defaultStylesheet), 0644); err != nil {
			return errors.New("E105").Wrap(err)
		}
	}

	cfg := config.New()
	cfg.Stylesheet = defaultStylesheetName
	if err := cfg.SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
		return err
	}

	success("Wrote %s", cfg.Path())
	info("Start the server with: scenesync serve")
	return nil
}
