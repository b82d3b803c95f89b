package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/rptkit/lang"
	"github.com/ardnew/rptkit/log"
)

const defaultEditor = "vi"

// editFormulaCommand implements [tea.ExecCommand] for the formula
// edit-validate-retry loop. It writes the formula to a temp file, opens the
// user's editor, and validates the result. On a syntax error the user is
// asked whether to edit again; declining returns [ErrEditDeclined].
type editFormulaCommand struct {
	text    string
	result  string
	ctxFunc func() context.Context
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func (c *editFormulaCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editFormulaCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editFormulaCommand) SetStderr(w io.Writer) { c.stderr = w }

func (c *editFormulaCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp("", "rptkit-formula-*.txt")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	content := c.text

	for {
		if err := os.WriteFile(path, []byte(content+"\n"), 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		// Formulas are single expressions; line breaks are whitespace.
		text := strings.Join(strings.Fields(string(data)), " ")
		if text == "" {
			return nil
		}

		ok, msg := lang.Validate(text)

		c.logger.TraceContext(
			ctx,
			"editor validate attempt",
			slog.Int("length", len(text)),
			slog.Bool("valid", ok),
		)

		if ok {
			c.result = text

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", msg)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		if !confirm(c.stdin) {
			return ErrEditDeclined
		}

		content = text
	}
}

// confirm reads one answer from r. Anything but "n" or "no" is a yes.
func confirm(r io.Reader) bool {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "n", "no":
		return false
	}

	return true
}

// runEditor runs $EDITOR (or vi) on path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	args := strings.Fields(editor)

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
