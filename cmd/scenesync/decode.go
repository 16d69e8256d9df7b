package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/scenesync/internal/errors"
	"github.com/vango-dev/scenesync/pkg/capture"
	"github.com/vango-dev/scenesync/pkg/protocol"
)

func decodeCmd() *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "decode <capture.scn>",
		Short: "Print the frames of a capture file",
		Long: `Print every frame recorded in a capture file, one command per line.

Capture files are written by "scenesync serve" when capture.dir is set.

Examples:
  scenesync decode captures/2f1c....scn
  scenesync decode --summary session.scn`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd.OutOrStdout(), args[0], summary)
		},
	}

	cmd.Flags().BoolVarP(&summary, "summary", "s", false, "Print only one line per frame")

	return cmd
}

func runDecode(w io.Writer, path string, summary bool) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.New("E121").WithDetail("Cannot open " + path).Wrap(err)
	}
	defer f.Close()

	frames, commands := 0, 0
	err = capture.ReadFrames(bufio.NewReader(f), func(fr *protocol.Frame) error {
		frames++
		if fr.Type != protocol.FrameCommands {
			fmt.Fprintf(w, "frame %d: %s (%d bytes)\n", frames, fr.Type, len(fr.Payload))
			return nil
		}
		cf, err := protocol.DecodeCommandsFrame(fr)
		if err != nil {
			return fmt.Errorf("frame %d: %w", frames, err)
		}
		commands += len(cf.Commands)
		fmt.Fprintf(w, "frame %d: seq %d, %d commands\n", frames, cf.Seq, len(cf.Commands))
		if summary {
			return nil
		}
		for _, cmd := range cf.Commands {
			fmt.Fprintf(w, "  %s\n", cmd)
		}
		return nil
	})
	if err != nil {
		return errors.New("E121").WithDetail("Failed to read " + path).Wrap(err)
	}

	fmt.Fprintf(w, "%d frames, %d commands\n", frames, commands)
	return nil
}
