package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/wordcell/corevm"
	"github.com/wordcell/corevm/rope"
)

type ropeReport struct {
	Length int `json:"length"`
	Depth  int `json:"depth"`
}

func init() {
	rootCmd.AddCommand(newRopeCmd())
}

func newRopeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rope [text]",
		Short: "Build a rope from text (or stdin) and report length/depth",
		Long: `The rope command decodes UTF-8 text into a rope, optionally appending
itself repeatedly to exercise concat/repeat, then reports its length and
tree depth.

Example:
  cellctl rope "hello, world"
  echo -n "hello" | cellctl rope
  cellctl rope --repeat 100 "ab"`,
		Args: cobra.MaximumNArgs(1),
	}
	cmd.Flags().Int("repeat", 1, "repeat the input this many times via rope.Repeat")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		repeat, _ := cmd.Flags().GetInt("repeat")
		return runRope(args, repeat)
	}
	return cmd
}

func runRope(args []string, repeat int) error {
	var text string
	if len(args) == 1 {
		text = args[0]
	} else {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(b)
	}

	r, err := corevm.Init(corevm.Single)
	if err != nil {
		return err
	}
	defer r.Cleanup()

	printVerbose("decoding %d bytes as UTF-8\n", len(text))
	rp := r.NewRope(rope.FormatUTF8, []byte(text))

	if repeat > 1 {
		rp = r.RepeatRope(rp, repeat)
	}

	report := ropeReport{Length: rp.Length(), Depth: rp.Depth()}
	if jsonOut {
		return printJSON(report)
	}
	printInfo("length: %d\ndepth: %d\n", report.Length, report.Depth)
	return nil
}
