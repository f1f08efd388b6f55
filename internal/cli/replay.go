package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/enigma/internal/engine"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Session  string // optional - specific session only
}

// ReplayReport holds the overall replay result.
type ReplayReport struct {
	Sessions         []*engine.ReplayResult `json:"sessions"`
	TotalSessions    int                    `json:"total_sessions"`
	AllDeterministic bool                   `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-run journaled sessions and verify they reproduce",
		Long: `Rebuild each session's machine from its journaled key and re-run every
message in order, checking that outputs, windows and message IDs match the
journal exactly.

Exit codes:
  0 - All sessions reproduce
  1 - A message differs from its journal entry
  2 - Command error (database not found, unknown session, etc.)

Examples:
  enigma replay --db ./journal.db
  enigma replay --db ./journal.db --session 0190...
  enigma replay --db ./journal.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "replay specific session only")

	return cmd
}

func runReplay(ctx context.Context, opts *ReplayOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	logger := opts.logger(cmd.ErrOrStderr())

	var sessions []string
	if opts.Session != "" {
		sessions = []string{opts.Session}
	} else {
		summaries, err := st.ListSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		for _, s := range summaries {
			sessions = append(sessions, s.Session)
		}
	}

	report := ReplayReport{
		Sessions:         make([]*engine.ReplayResult, 0, len(sessions)),
		TotalSessions:    len(sessions),
		AllDeterministic: true,
	}

	for _, session := range sessions {
		formatter.VerboseLog("Replaying session %s", session)
		result, err := engine.Replay(ctx, st, session, engine.ReplayLogger(logger))
		if engine.IsSessionNotFound(err) {
			_ = formatter.Error(string(engine.ErrCodeSessionNotFound), err.Error(), nil)
			return WrapExitError(ExitCommandError, "replay failed", err)
		}
		if err != nil && !engine.IsReplayMismatch(err) {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay session %s", session), err)
		}
		if len(result.Mismatches) > 0 {
			report.AllDeterministic = false
		}
		report.Sessions = append(report.Sessions, result)
	}

	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: report}
		if !report.AllDeterministic {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    string(engine.ErrCodeReplayMismatch),
				Message: "journal does not reproduce",
			}
		}
		if err := formatter.Response(resp); err != nil {
			return err
		}
	} else {
		outputReplayText(cmd, report)
	}

	if !report.AllDeterministic {
		return NewExitError(ExitFailure, "replay mismatch: journal does not reproduce")
	}
	return nil
}

func outputReplayText(cmd *cobra.Command, report ReplayReport) {
	w := cmd.OutOrStdout()

	if report.TotalSessions == 0 {
		fmt.Fprintln(w, "No sessions found in database.")
		return
	}

	for _, r := range report.Sessions {
		if len(r.Mismatches) == 0 {
			fmt.Fprintf(w, "✓ %s  %s  %d message(s)\n", r.Session, r.Machine, r.Messages)
			continue
		}
		fmt.Fprintf(w, "✗ %s  %s  %d message(s), %d mismatch(es)\n", r.Session, r.Machine, r.Messages, len(r.Mismatches))
		for _, m := range r.Mismatches {
			fmt.Fprintf(w, "    seq %d %s: journal %q, replay %q\n", m.Seq, m.Field, m.Want, m.Got)
		}
	}

	fmt.Fprintln(w)
	if report.AllDeterministic {
		fmt.Fprintf(w, "All %d session(s) reproduce.\n", report.TotalSessions)
	} else {
		fmt.Fprintln(w, "Replay mismatch detected.")
	}
}
