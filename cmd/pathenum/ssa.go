package main

import (
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	gossa "golang.org/x/tools/go/ssa"

	"github.com/nickng/pathenum/ssa"
	"github.com/nickng/pathenum/ssa/build"
)

// ssaCmd represents the ssa command
var ssaCmd = &cobra.Command{
	Use:   "ssa [flags] file.go [files.go...]",
	Short: "Print the SSA IR of Go source code",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		viewFunc, _ := cmd.Flags().GetString("func")
		all, _ := cmd.Flags().GetBool("all")
		algo, _ := cmd.Flags().GetString("callgraph")
		dot, _ := cmd.Flags().GetBool("dot")

		conf := build.FromFiles(args).Default()
		switch logPath {
		case "":
		case "-":
			conf = conf.WithBuildLog(cmd.ErrOrStderr(), log.LstdFlags)
		default:
			f, err := os.Create(logPath)
			if err != nil {
				return errors.Wrapf(err, "cannot create log %s", logPath)
			}
			defer f.Close()
			conf = conf.WithBuildLog(f, log.LstdFlags)
		}
		info, err := conf.Build()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case dot:
			cg, err := info.BuildCallGraph(algo)
			if err != nil {
				return err
			}
			return cg.WriteGraphviz(out)
		case viewFunc != "":
			fn, err := info.FindFunc(viewFunc)
			if err != nil {
				return err
			}
			_, err = ssa.WriteFuncs(out, []*gossa.Function{fn})
			return err
		case all:
			_, err = info.WriteAll(out, algo)
		default:
			_, err = info.WriteTo(out)
		}
		return err
	},
}

func init() {
	ssaCmd.Flags().String("func", "", `Specify the function to view (format: "import/path".FuncName)`)
	ssaCmd.Flags().Bool("all", false, "Print every function in the callgraph, including imported ones")
	ssaCmd.Flags().String("callgraph", "static", "Callgraph used with --all and --dot (static, cha, rta)")
	ssaCmd.Flags().Bool("dot", false, "Print the callgraph in graphviz dot format instead")
}
