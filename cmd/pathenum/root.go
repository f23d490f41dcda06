package main

import (
	"github.com/spf13/cobra"

	"github.com/nickng/pathenum/config"
	"github.com/nickng/pathenum/pathenum"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pathenum",
	Short: "Ball-Larus path numbering over loop-unrolled control-flow graphs",
	Long: `pathenum unrolls the loops of each procedure a bounded number of times
and assigns every entry-to-exit path of the unrolled graph a unique index.

Commands:
  enum        Enumerate and number the paths of all procedures
  path        Print the path with a given index
  ssa         Print the SSA IR of Go source code
  init        Create a configuration file interactively

Use "pathenum [command] --help" for more information about a command.`,
	Version:      version,
	SilenceUsage: true,
}

var (
	configPath string
	logPath    string
)

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: global then ./"+config.ProjectFile+")")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "Specify analysis log file (use '-' for stderr)")

	rootCmd.AddCommand(enumCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(ssaCmd)
	rootCmd.AddCommand(initCmd)
}

// addConfigFlags adds the flags overriding the configuration.
func addConfigFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().IntP("k", "k", def.K, "Loop unrolling bound per nesting level")
	cmd.Flags().Int("max-depth", def.MaxDepth, "Skip procedures with deeper loop nesting (0: no limit)")
	cmd.Flags().Int("max-vertices", def.MaxVertices, "Skip procedures with more product vertices (0: no limit)")
	cmd.Flags().IntP("workers", "j", def.Workers, "Number of procedures processed in parallel")
	cmd.Flags().StringP("format", "f", def.Format, "Output format")
	cmd.Flags().StringP("out-dir", "o", def.OutDir, "Write one file per procedure under this directory")
	cmd.Flags().Bool("skip-existing", def.SkipExisting, "Skip procedures whose output file exists")
	cmd.Flags().Bool("strict", def.Strict, "Stop at the first failing procedure")
	cmd.Flags().String("callgraph", def.CallGraph, "Callgraph selecting Go functions (static, cha, rta)")
	cmd.Flags().StringSlice("func", nil, "Only process the named procedures")
}

// loadConfig reads the configuration files and applies the flags set on
// the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var conf *config.Config
	var err error
	if configPath != "" {
		conf, err = config.LoadFromFile(configPath)
	} else {
		conf, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("k") {
		conf.K, _ = flags.GetInt("k")
	}
	if flags.Changed("max-depth") {
		conf.MaxDepth, _ = flags.GetInt("max-depth")
	}
	if flags.Changed("max-vertices") {
		conf.MaxVertices, _ = flags.GetInt("max-vertices")
	}
	if flags.Changed("workers") {
		conf.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("format") {
		conf.Format, _ = flags.GetString("format")
	}
	if flags.Changed("out-dir") {
		conf.OutDir, _ = flags.GetString("out-dir")
	}
	if flags.Changed("skip-existing") {
		conf.SkipExisting, _ = flags.GetBool("skip-existing")
	}
	if flags.Changed("strict") {
		conf.Strict, _ = flags.GetBool("strict")
	}
	if flags.Changed("callgraph") {
		conf.CallGraph, _ = flags.GetString("callgraph")
	}
	if flags.Changed("func") {
		conf.Functions, _ = flags.GetStringSlice("func")
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// newLogger returns the logger selected by --log.
func newLogger() *pathenum.Logger {
	switch logPath {
	case "":
		return pathenum.NopLogger()
	case "-":
		return pathenum.NewLogger()
	default:
		return pathenum.NewFileLogger(logPath)
	}
}
