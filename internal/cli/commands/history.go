package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/lispy/internal/cli/output"
	"github.com/leapstack-labs/lispy/internal/state"
)

const timeLayout = "2006-01-02 15:04:05"

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent script runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 1 {
				return errors.New("--limit must be at least 1")
			}
			cc, cleanup, err := newCommandContext(cmd, engineOptions{forceHistory: true})
			if err != nil {
				return err
			}
			defer cleanup()

			runs, err := cc.Engine.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return renderHistory(cc.Renderer, runs)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	return cmd
}

type runInfo struct {
	ID         string  `json:"id"`
	Script     string  `json:"script"`
	Status     string  `json:"status"`
	SourceHash string  `json:"source_hash"`
	StartedAt  string  `json:"started_at"`
	Seconds    float64 `json:"duration_seconds"`
	Error      string  `json:"error,omitempty"`
}

func renderHistory(r *output.Renderer, runs []*state.Run) error {
	if r.EffectiveMode() == output.ModeJSON {
		infos := make([]runInfo, len(runs))
		for i, run := range runs {
			infos[i] = runInfo{
				ID:         run.ID,
				Script:     run.Script,
				Status:     string(run.Status),
				SourceHash: run.SourceHash,
				StartedAt:  run.StartedAt.Format(timeLayout),
				Seconds:    run.Duration().Seconds(),
				Error:      run.Error,
			}
		}
		return encodeJSON(r, infos)
	}

	if len(runs) == 0 {
		r.Println("No runs recorded.")
		return nil
	}

	styles := r.Styles()
	rows := make([][]string, len(runs))
	for i, run := range runs {
		status := string(run.Status)
		switch run.Status {
		case state.RunStatusCompleted:
			status = styles.Success.Render(status)
		case state.RunStatusFailed:
			status = styles.Error.Render(status)
		}
		rows[i] = []string{
			shortID(run.ID),
			run.Script,
			status,
			run.StartedAt.Local().Format(timeLayout),
			run.Duration().String(),
			run.Error,
		}
	}
	r.Table([]string{"ID", "Script", "Status", "Started", "Duration", "Error"}, rows)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
