package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wordcell/corevm"
	"github.com/wordcell/corevm/value"
)

type mapReport struct {
	EntryCount int    `json:"entry_count"`
	Impl       string `json:"impl"`
}

func init() {
	rootCmd.AddCommand(newMapCmd())
}

func newMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map <comma-separated-ints>",
		Short: "Build a map from the given integer keys and report stats",
		Long: `The map command inserts key i -> i*i for each integer i in the given
comma-separated list, using either the hash-map or trie-map front-end, and
reports entry count and implementation.

Example:
  cellctl map --kind trie "0,1,2,3,4"
  cellctl map --kind hash "0,1,2,3,4"`,
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().String("kind", "hash", `map implementation: "hash" or "trie"`)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		return runMap(args[0], kind)
	}
	return cmd
}

func runMap(csv string, kind string) error {
	parts := strings.Split(csv, ",")
	keys := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return fmt.Errorf("parse %q: %w", p, err)
		}
		keys = append(keys, n)
	}

	rt, err := corevm.Init(corevm.Single)
	if err != nil {
		return err
	}
	defer rt.Cleanup()

	var m interface {
		Set(key, val value.Value)
		Len() int
	}
	switch kind {
	case "hash":
		m = rt.NewHashMap()
	case "trie":
		m = rt.NewTrieMap()
	default:
		return fmt.Errorf("unknown map kind %q: want hash or trie", kind)
	}

	printVerbose("inserting %d keys into a %s map\n", len(keys), kind)
	for _, k := range keys {
		m.Set(value.NewSmallInt(k), value.NewSmallInt(k*k))
	}

	report := mapReport{EntryCount: m.Len(), Impl: kind}
	if jsonOut {
		return printJSON(report)
	}
	printInfo("entries: %d\nimpl: %s\n", report.EntryCount, report.Impl)
	return nil
}
