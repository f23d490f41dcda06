package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/nickng/pathenum/pathenum"
)

// enumCmd represents the enum command
var enumCmd = &cobra.Command{
	Use:   "enum [flags] file.go|file.c [files...]",
	Short: "Enumerate and number the paths of all procedures",
	Long: `Builds the control-flow graph of every procedure in the given Go or C
source files, unrolls its loops K times and numbers the paths from entry to
exit. Go files are built together as one package.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger()
		// Sync error ignored. See https://github.com/uber-go/zap/issues/328
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		procs, err := pathenum.LoadFiles(ctx, conf, args, logger)
		if err != nil {
			return err
		}
		out, err := pathenum.NewOutput(conf, cmd.OutOrStdout(), logger)
		if err != nil {
			return err
		}
		e := pathenum.New(conf, logger)
		err = e.Run(ctx, out.Pending(procs), out.Write)
		stats := e.Stats()
		logger.Infow("Done", "procedures", len(procs), "written", stats.Done,
			"capped", stats.Capped, "failed", stats.Failed)
		return err
	},
}

func init() {
	addConfigFlags(enumCmd)
}
