package commands

import (
	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "Run lispy scripts",
		Long: `Evaluate one or more lispy scripts.

With no arguments the configured entry script (program.lispy) is run.
Several scripts run concurrently, each in its own interpreter; their output
is printed in argument order.`,
		Example: `  # Run program.lispy from the project root
  lispy run

  # Run several scripts, at most two at a time
  lispy run a.lispy b.lispy c.lispy --jobs 2`,
		RunE: runRun,
	}

	cmd.Flags().IntP("jobs", "j", 0, "Maximum number of scripts to run at once")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	paths := args
	if len(paths) == 0 {
		paths = []string{cc.Cfg.Entry}
	}

	cc.Logger.Debug("running scripts", "count", len(paths), "jobs", cc.Cfg.Jobs)
	return cc.Engine.RunFiles(cmd.Context(), paths, cmd.OutOrStdout())
}
