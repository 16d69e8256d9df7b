package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/scenesync/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌─┐┌─┐┌┐┌┌─┐┌─┐┬ ┬┌┐┌┌─┐
  └─┐│  ├┤ │││├┤ └─┐└┬┘││││
  └─┘└─┘└─┘┘└┘└─┘└─┘ ┴ ┘└┘└─┘
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "scenesync",
		Short: "Drive native scene graphs from Go",
		Long: `scenesync keeps a native scene graph in sync with a tree described in Go.

A native host connects over WebSocket; every connection gets its own
engine, which turns props, styles, events and tree changes into batched
scene commands. Features include:

  • Minimal native calls per prop, style and tree change
  • One flushed batch per frame
  • Declarative (vdom) and document-style (dom) producers
  • Prometheus metrics and frame capture to disk or S3`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		initCmd(),
		serveCmd(),
		decodeCmd(),
		versionCmd(),
	)
	return rootCmd
}

// printError prints err, with its registered code when one applies.
func printError(err error) {
	if code := errors.Classify(err); code != "" {
		err = errors.FromError(err, code)
	}
	errors.PrintError(err)
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
