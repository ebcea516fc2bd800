package cli

import (
	"github.com/spf13/cobra"

	"debugcon/internal/script"
)

const runExamples = `  # Run a script on the terminal:
  debugcon run boot.lua

  # Save a screenshot of the console after the script ran:
  debugcon run boot.lua --backend png -o screen.png`

type RunArgs struct {
	ConsoleArgs

	ScriptPath string
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		ConsoleArgs: ConsoleArgs{RootArgs: rootArgs},
	}
}

func NewRunCmd(ra *RunArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run <script.lua>",
		Short:   "Run a Lua script against the console",
		Example: runExamples,
		Args:    cobra.ExactArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
			return []cobra.Completion{"lua"}, cobra.ShellCompDirectiveFilterFileExt
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ra.ScriptPath = args[0]

			return run(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func run(cmd *cobra.Command, ra *RunArgs) error {
	cfg, err := ra.loadConfig()
	if err != nil {
		return err
	}

	s, err := openSession(cmd, cfg)
	if err != nil {
		return err
	}

	engine := script.New(s.console)
	defer engine.Close()

	return s.close(cmd, engine.RunFile(cmd.Context(), ra.ScriptPath))
}
