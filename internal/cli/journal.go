package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/enigma/internal/ir"
	"github.com/roach88/enigma/internal/store"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	*RootOptions
	Database  string
	Session   string // optional - show this session's messages
	KeyID     string
	Operation string
	FromSeq   int64
	ToSeq     int64
	Limit     int
}

// filter returns the message filter, and whether any filter flag was set.
func (o *JournalOptions) filter() (store.MessageFilter, bool) {
	f := store.MessageFilter{
		Session:   o.Session,
		KeyID:     o.KeyID,
		Operation: ir.Operation(o.Operation),
		FromSeq:   o.FromSeq,
		ToSeq:     o.ToSeq,
		Limit:     o.Limit,
	}
	return f, f != store.MessageFilter{}
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List journaled sessions or a session's messages",
		Long: `List the sessions recorded in a journal database. With --session, list
that session's messages in order with the rotor windows after each one.

The --op, --key, --from, --to and --limit filters select messages across
all sessions, or within --session when it is given.

Examples:
  enigma journal --db ./journal.db
  enigma journal --db ./journal.db --session 0190... --format json
  enigma journal --db ./journal.db --op decipher --from 10 --limit 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournal(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "show messages of this session")
	cmd.Flags().StringVar(&opts.KeyID, "key", "", "only messages enciphered with this key ID")
	cmd.Flags().StringVar(&opts.Operation, "op", "", "only messages of this operation (encipher|decipher|reset)")
	cmd.Flags().Int64Var(&opts.FromSeq, "from", 0, "only messages with seq >= from")
	cmd.Flags().Int64Var(&opts.ToSeq, "to", 0, "only messages with seq <= to")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of messages")

	return cmd
}

func runJournal(ctx context.Context, opts *JournalOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	if opts.Operation != "" && !ir.ValidOperations[ir.Operation(opts.Operation)] {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --op %q: must be encipher, decipher or reset", opts.Operation))
	}
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, "--limit must not be negative")
	}

	filter, filtered := opts.filter()
	if !filtered {
		sessions, err := st.ListSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		if opts.Format == "json" {
			return formatter.Success(sessions)
		}
		return outputSessionsText(cmd, sessions)
	}

	if opts.Session != "" {
		latest, err := st.LatestSeq(ctx, opts.Session)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read session", err)
		}
		if latest == 0 {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("session %s not found", opts.Session), nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("session %s not found", opts.Session))
		}
	}

	messages, err := st.QueryMessages(ctx, filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to query messages", err)
	}

	if opts.Format == "json" {
		return formatter.Success(messages)
	}
	return outputMessagesText(cmd, messages, opts.Session == "")
}

func outputSessionsText(cmd *cobra.Command, sessions []store.SessionSummary) error {
	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions found in database.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tMACHINE\tMESSAGES\tLAST SEQ\tKEY")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", s.Session, s.Name, s.Messages, s.LastSeq, shortID(s.KeyID))
	}
	return tw.Flush()
}

func outputMessagesText(cmd *cobra.Command, messages []ir.Message, withSession bool) error {
	if len(messages) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No messages match.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	if withSession {
		fmt.Fprint(tw, "SESSION\t")
	}
	fmt.Fprintln(tw, "SEQ\tOP\tWINDOWS\tINPUT\tOUTPUT")
	for _, msg := range messages {
		if withSession {
			fmt.Fprintf(tw, "%s\t", msg.Session)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%q\t%q\n", msg.Seq, msg.Operation, msg.Windows, msg.Input, msg.Output)
	}
	return tw.Flush()
}

// openExisting opens a journal database that must already exist. Opening a
// missing path is a command error and never creates the file.
func openExisting(path string) (*store.Store, error) {
	st, err := store.OpenExisting(path)
	if errors.Is(err, store.ErrJournalNotFound) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path))
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}
