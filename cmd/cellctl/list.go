package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wordcell/corevm"
	"github.com/wordcell/corevm/value"
)

type listReport struct {
	Length  int  `json:"length"`
	Depth   int  `json:"depth"`
	Cyclic  bool `json:"cyclic"`
	Loop    int  `json:"loop"`
	Mutable bool `json:"mutable"`
}

func init() {
	rootCmd.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <comma-separated-ints>",
		Short: "Build a vector from integers and report length/depth",
		Long: `The list command parses a comma-separated list of integers into a
vector, optionally making it cyclic via --loop, and reports diagnostics.

Example:
  cellctl list "1,2,3,4,5"
  cellctl list --loop 2 "1,2,3,4,5"`,
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().Int("loop", 0, "set_loop(k) on the resulting list")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		loop, _ := cmd.Flags().GetInt("loop")
		return runList(args[0], loop)
	}
	return cmd
}

func runList(csv string, loop int) error {
	parts := strings.Split(csv, ",")
	elems := make([]value.Value, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return fmt.Errorf("parse %q: %w", p, err)
		}
		elems = append(elems, value.NewSmallInt(n))
	}

	rt, err := corevm.Init(corevm.Single)
	if err != nil {
		return err
	}
	defer rt.Cleanup()

	printVerbose("building a %d-element vector\n", len(elems))
	l := rt.NewVector(elems)
	if loop > 0 {
		l = rt.SetLoop(l, loop)
	}

	report := listReport{
		Length:  l.Length(),
		Depth:   l.Depth(),
		Cyclic:  l.IsCyclic(),
		Loop:    l.Loop(),
		Mutable: false,
	}
	if jsonOut {
		return printJSON(report)
	}
	printInfo("length: %d\ndepth: %d\ncyclic: %v\nloop: %d\n",
		report.Length, report.Depth, report.Cyclic, report.Loop)
	return nil
}
