package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/enigma/internal/compiler"
	"github.com/roach88/enigma/internal/engine"
	"github.com/roach88/enigma/internal/ir"
	"github.com/roach88/enigma/internal/store"
)

// CipherOptions holds flags for the encipher and decipher commands.
type CipherOptions struct {
	*RootOptions
	Config   string
	Machine  string
	Text     string
	File     string
	Database string
	Session  string
}

// CipherResult is the JSON payload of encipher and decipher.
type CipherResult struct {
	Machine   string       `json:"machine"`
	KeyID     string       `json:"key_id"`
	Operation ir.Operation `json:"operation"`
	Output    string       `json:"output"`
	Windows   string       `json:"windows"`
	Session   string       `json:"session,omitempty"`
	Seq       int64        `json:"seq,omitempty"`
}

// NewEncipherCommand creates the encipher command.
func NewEncipherCommand(rootOpts *RootOptions) *cobra.Command {
	return newCipherCommand(rootOpts, ir.OpEncipher, `Encipher text on a machine.

Input comes from --text, --file, or stdin. Letters are uppercased; symbols
outside the machine's alphabet pass through unchanged and do not turn the
rotors.

Without --db every call starts from the machine's initial offsets. With
--db the message is journaled, and repeating --session continues from where
the session's last message left the rotors.

Examples:
  enigma encipher -c machines.cue -m army --text "HELLO WORLD"
  echo "attack at dawn" | enigma encipher -c army.cue
  enigma encipher -c army.cue --db ./journal.db --session s1 -t "PART ONE"`)
}

// NewDecipherCommand creates the decipher command.
func NewDecipherCommand(rootOpts *RootOptions) *cobra.Command {
	return newCipherCommand(rootOpts, ir.OpDecipher, `Decipher text on a machine.

The rotors are returned to their initial offsets first, so ciphertext
produced from a freshly reset machine deciphers to its plaintext.

Examples:
  enigma decipher -c machines.cue -m army --text "EVONZ YQPOQ"
  enigma decipher -c army.cue --file message.txt --format json`)
}

func newCipherCommand(rootOpts *RootOptions, op ir.Operation, long string) *cobra.Command {
	opts := &CipherOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           string(op),
		Short:         strings.ToUpper(string(op[:1])) + string(op[1:]) + " text",
		Long:          long,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCipher(opts, op, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "machine file or directory (required)")
	_ = cmd.MarkFlagRequired("config")
	cmd.Flags().StringVarP(&opts.Machine, "machine", "m", "", "machine name, required when the config defines several")
	cmd.Flags().StringVarP(&opts.Text, "text", "t", "", "input text")
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read input from file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "journal messages to this SQLite database")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session token (default: new UUIDv7)")

	return cmd
}

func runCipher(opts *CipherOptions, op ir.Operation, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	input, err := readInput(opts, cmd.InOrStdin())
	if err != nil {
		_ = formatter.Error(ErrCodeBadInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}

	spec, err := selectMachine(opts.Config, opts.Machine)
	if err != nil {
		_ = formatter.Error(loadErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load machine", err)
	}
	if errs := compiler.Validate(spec); len(errs) > 0 {
		_ = formatter.Error(errs[0].Code, errs[0].Message, errs)
		return NewExitError(ExitCommandError, fmt.Sprintf("machine %s is invalid: %v", spec.Name, errs[0]))
	}
	formatter.VerboseLog("Using machine %s from %s", spec.Name, opts.Config)

	engineOpts := []engine.Option{engine.WithLogger(opts.logger(cmd.ErrOrStderr()))}
	if opts.Session != "" {
		engineOpts = append(engineOpts, engine.WithSession(opts.Session))
	}
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()
		engineOpts = append(engineOpts, engine.WithStore(st))
	}

	eng, err := engine.New(spec, engineOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build machine", err)
	}

	var msg ir.Message
	if op == ir.OpDecipher {
		msg, err = eng.Decipher(cmd.Context(), input)
	} else {
		msg, err = eng.Encipher(cmd.Context(), input)
	}
	if err != nil {
		if engine.IsSessionKeyMismatch(err) {
			_ = formatter.Error(string(engine.ErrCodeSessionKeyMismatch), err.Error(), nil)
		}
		return WrapExitError(ExitCommandError, fmt.Sprintf("%s failed", op), err)
	}

	if opts.Format == "json" {
		result := CipherResult{
			Machine:   spec.Name,
			KeyID:     msg.KeyID,
			Operation: msg.Operation,
			Output:    msg.Output,
			Windows:   msg.Windows,
		}
		if opts.Database != "" {
			result.Session = msg.Session
			result.Seq = msg.Seq
		}
		return formatter.Success(result)
	}

	fmt.Fprintln(cmd.OutOrStdout(), msg.Output)
	if opts.Database != "" {
		formatter.VerboseLog("Journaled seq %d in session %s", msg.Seq, msg.Session)
	}
	formatter.VerboseLog("Windows: %s", msg.Windows)
	return nil
}

// readInput returns the text to process. --text and --file are exclusive;
// with neither, stdin is read. One trailing line ending is dropped from
// file and stdin input.
func readInput(opts *CipherOptions, stdin io.Reader) (string, error) {
	if opts.Text != "" && opts.File != "" {
		return "", fmt.Errorf("--text and --file are mutually exclusive")
	}
	if opts.Text != "" {
		return opts.Text, nil
	}

	var data []byte
	var err error
	if opts.File != "" {
		data, err = os.ReadFile(opts.File)
	} else {
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		return "", err
	}

	text := string(data)
	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	return text, nil
}
