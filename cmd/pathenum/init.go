package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nickng/pathenum/config"
	"github.com/nickng/pathenum/emit"
	"github.com/nickng/pathenum/unroll"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file interactively",
	Long: `Guides you through the enumeration settings and writes them to
./` + config.ProjectFile + ` (or the global config file with --global).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		global, _ := cmd.Flags().GetBool("global")
		path := config.ProjectFile
		if global {
			path = config.GlobalFile()
		}
		conf, err := runInit()
		if err != nil {
			return err
		}
		if err := conf.Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("global", false, "Write the global config file")
}

func intInRange(lo, hi int) func(string) error {
	return func(s string) error {
		i, err := strconv.Atoi(s)
		if err != nil || i < lo || i > hi {
			return errors.Errorf("enter a number between %d and %d", lo, hi)
		}
		return nil
	}
}

func runInit() (*config.Config, error) {
	conf := config.DefaultConfig()
	k := strconv.Itoa(conf.K)
	maxDepth := strconv.Itoa(conf.MaxDepth)
	workers := strconv.Itoa(conf.Workers)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Unrolling bound K").
				Description("Number of times each loop is unrolled per nesting level").
				Validate(intInRange(1, unroll.MaxK)).
				Value(&k),
			huh.NewInput().
				Title("Maximum loop nesting depth").
				Description("Deeper procedures are skipped (0: no limit)").
				Validate(intInRange(0, 64)).
				Value(&maxDepth),
			huh.NewInput().
				Title("Workers").
				Description("Number of procedures processed in parallel").
				Validate(intInRange(1, 1024)).
				Value(&workers),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Output format").
				Options(huh.NewOptions(emit.Formats()...)...).
				Value(&conf.Format),
			huh.NewInput().
				Title("Output directory").
				Description("One file per procedure, leave empty for stdout").
				Value(&conf.OutDir),
			huh.NewSelect[string]().
				Title("Callgraph for Go sources").
				Options(
					huh.NewOption("Static calls only", "static"),
					huh.NewOption("Class Hierarchy Analysis", "cha"),
					huh.NewOption("Rapid Type Analysis", "rta"),
				).
				Value(&conf.CallGraph),
			huh.NewConfirm().
				Title("Stop at the first failing procedure?").
				Value(&conf.Strict),
		),
	)
	if err := form.Run(); err != nil {
		return nil, errors.Wrap(err, "interactive prompt failed")
	}

	conf.K, _ = strconv.Atoi(k)
	conf.MaxDepth, _ = strconv.Atoi(maxDepth)
	conf.Workers, _ = strconv.Atoi(workers)
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}
