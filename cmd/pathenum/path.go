package main

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nickng/pathenum/loop"
	"github.com/nickng/pathenum/pathenum"
)

// pathCmd represents the path command
var pathCmd = &cobra.Command{
	Use:   "path [flags] <file> <function> <index>",
	Short: "Print the path with a given index",
	Long: `Regenerates the path numbered index in the unrolled graph of a
procedure, and prints the blocks along it from entry to exit.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		index, ok := new(big.Int).SetString(args[2], 10)
		if !ok {
			return errors.Errorf("invalid path index %q", args[2])
		}
		conf.Functions = []string{args[1]}
		procs, err := pathenum.LoadFiles(cmd.Context(), conf, args[:1], newLogger())
		if err != nil {
			return err
		}
		if len(procs) != 1 {
			return errors.Errorf("expects one procedure named %s in %s but found %d", args[1], args[0], len(procs))
		}
		g := procs[0]
		forest, err := loop.Detect(g)
		if err != nil {
			return err
		}
		e := pathenum.New(conf, nil)
		n, err := pathenum.Number(g, forest, e.Options())
		if err != nil {
			return err
		}
		walk, err := n.Decode(index)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "path %s of %s in %s\n", index, n.Total(), g.Name)
		for _, v := range walk {
			pv := n.Graph().Vertices[v]
			blk := g.Block(pv.Block)
			fmt.Fprintf(w, "  %s", pv)
			if blk.Label != "" {
				fmt.Fprintf(w, " (%s)", blk.Label)
			}
			if len(blk.Stmts) > 0 {
				fmt.Fprintf(w, ": %s", strings.Join(blk.Stmts, "; "))
			}
			fmt.Fprintln(w)
		}
		return nil
	},
}

func init() {
	addConfigFlags(pathCmd)
}
