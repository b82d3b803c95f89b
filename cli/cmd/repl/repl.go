package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/rptkit/lang"
	"github.com/ardnew/rptkit/log"
)

// editFormulaMsg is sent when the editor returns a valid formula.
type editFormulaMsg struct{ text string }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editErrorMsg is sent when the edit process fails.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "= "
	ctrlPrompt = ": "
)

const helpText = `
Commands (press Esc to toggle mode, or prefix a formula-mode line with ':'):

  set NAME=VALUE   Bind a variable; VALUE is a YAML scalar
  unset NAME       Remove a variable
  vars             List bound variables
  funcs [FILTER]   List functions, optionally fuzzy-filtered
  edit             Edit the current formula in $EDITOR
  clear            Clear screen
  help             Print this help
  quit             Exit

Usage:
  Type a formula to evaluate it; [Field] and bare names read variables
  Completions appear as you type; Tab / Shift-Tab cycle through them
  Up/Down walk history (switching mode as needed)
  Shift+Up/Shift+Down walk history of the current mode only
  Ctrl+C on an empty line or Ctrl+D exits
`

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true).
			Underline(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.
				Bold(true).
				Underline(true)
)

func echo(mode inputMode, input string) string {
	if mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
	}

	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	evaluator    *lang.Evaluator
	vars         map[string]any
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts the REPL with vars bound as the initial variables. History is
// kept in cacheDir when it is non-empty.
func Run(
	ctx context.Context,
	vars map[string]any,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("var_count", len(vars)),
	)

	var path string
	if cacheDir != "" {
		path = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "history not loaded",
			slog.String("path", path),
			slog.Any("error", err))
	}

	m := newModel(ctx, vars, history, logger)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	vars map[string]any,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	bound := make(map[string]any, len(vars))
	maps.Copy(bound, vars)

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		evaluator:  lang.NewEvaluator(lang.WithLogger(logger)),
		vars:       bound,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editFormulaMsg:
		if m.mode != modeEval {
			m, _ = m.switchToMode(modeEval)
		}

		m.input.SetValue(msg.text)
		m.input.SetCursor(len(msg.text))
		refreshMatches(&m, false)

		return m, nil

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hint())
	b.WriteString("\n")

	return b.String()
}

// hint returns the line shown below the input. Completions take precedence
// over the signature of the enclosing call.
func (m model) hint() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))

		return hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeEval {
			return hintStyle.Render("Type a formula or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
	}

	if m.mode == modeEval && len(m.matches) == 0 {
		call := detectFunctionCall(input, m.input.Position())
		if call.inCall {
			if sig, params := signature(call.name); sig != "" {
				return renderSignatureHint(sig, params, call.argIndex)
			}
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl)
		}

		return m.switchToMode(modeEval)

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, wrapping at either end. A single
// candidate is completed immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n
	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word in the input with replacement
// and moves the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	next := input[:m.wordStart] + replacement + input[m.wordEnd:]
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(next)
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes the matches for the current input. With
// autoConfirm set, a word that already equals its sole candidate is
// accepted and the bar is cleared.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	mode := m.mode

	if line, ok := strings.CutPrefix(input, ":"); ok && mode == modeEval {
		mode, input = modeCtrl, strings.TrimSpace(line)
	}

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "history not saved", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if mode == modeCtrl {
		return m.executeCommand(input)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl eval", slog.String("input", input))

	echoCmd := tea.Println(echo(modeEval, input))

	result, err := m.evaluator.Evaluate(m.ctxFunc(), input, m.vars)
	if err != nil {
		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render("error: "+err.Error())),
		)
	}

	m.vars["_"] = result

	return m, tea.Sequence(
		echoCmd,
		tea.Println(resultStyle.Render(describe(result))),
	)
}

// describe renders a result for display. Strings are quoted so that an
// empty result stays visible.
func describe(v any) string {
	switch s := v.(type) {
	case nil:
		return "NULL"
	case string:
		return strconv.Quote(s)
	}

	return lang.Text(v)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	name, args, _ := strings.Cut(input, " ")
	args = strings.TrimSpace(args)

	echoCmd := tea.Println(echo(modeCtrl, input))

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl command",
		slog.String("command", name),
		slog.String("args", args),
	)

	reply := func(s string) (model, tea.Cmd) {
		return m, tea.Sequence(echoCmd, tea.Println(s))
	}

	switch strings.ToLower(name) {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return reply(helpText)

	case "c", "clear":
		return m, tea.ClearScreen

	case "set":
		key, value, err := parseBinding(args)
		if err != nil {
			return reply(errorStyle.Render("error: " + err.Error()))
		}

		m.vars[key] = value

		return reply(hintStyle.Render(key + " = " + lang.Text(value)))

	case "unset":
		if _, ok := m.vars[args]; !ok {
			return reply(errorStyle.Render("error: " + ErrUnbound.Error() + ": " + args))
		}

		delete(m.vars, args)

		return m, echoCmd

	case "vars":
		return reply(m.listVars())

	case "funcs", "functions":
		return reply(listFuncs(args))

	case "e", "edit":
		return m, tea.Sequence(echoCmd, m.edit())

	default:
		return reply(errorStyle.Render("unknown command: " + name + " (try 'help')"))
	}
}

// parseBinding parses NAME=VALUE, decoding VALUE as a YAML scalar. Mappings
// and sequences are kept as their source text.
func parseBinding(arg string) (string, any, error) {
	key, value, ok := strings.Cut(arg, "=")

	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, ErrBinding
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return key, "", nil
	}

	var v any
	if err := yaml.Unmarshal([]byte(value), &v); err != nil {
		return key, value, nil
	}

	switch n := v.(type) {
	case map[string]any, []any:
		return key, value, nil
	case int:
		return key, float64(n), nil
	case int64:
		return key, float64(n), nil
	case uint64:
		return key, float64(n), nil
	}

	return key, v, nil
}

func (m model) listVars() string {
	if len(m.vars) == 0 {
		return hintStyle.Render("  (no variables)")
	}

	var b strings.Builder

	for _, name := range slices.Sorted(maps.Keys(m.vars)) {
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(lang.Text(m.vars[name])))
	}

	return strings.TrimRight(b.String(), "\n")
}

// listFuncs lists function signatures, fuzzy-filtered by filter when set.
func listFuncs(filter string) string {
	funcs := lang.Builtins().Funcs()

	if filter != "" {
		names := make([]string, len(funcs))
		for i, f := range funcs {
			names[i] = f.Name
		}

		var kept []*lang.Func
		for _, match := range fuzzy.Find(strings.ToUpper(filter), names) {
			kept = append(kept, funcs[match.Index])
		}

		funcs = kept
	}

	if len(funcs) == 0 {
		return hintStyle.Render("  (no functions)")
	}

	var b strings.Builder

	for _, f := range funcs {
		fmt.Fprintf(&b, "  %-34s %s\n", f.Signature, hintStyle.Render(f.Doc))
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m model) edit() tea.Cmd {
	cmd := &editFormulaCommand{
		text:    m.evalText,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	if m.mode == modeEval {
		cmd.text = m.input.Value()
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editCancelledMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.result == "":
			return editCancelledMsg{}
		default:
			return editFormulaMsg{text: cmd.result}
		}
	})
}

// historyStep walks history by step (-1 older, +1 newer). With sameMode set
// only entries of the current mode are visited; otherwise the mode follows
// the entry. Walking past the newest entry clears the input.
func (m model) historyStep(step int, sameMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m, _ = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// switchToMode switches to mode, keeping each mode's pending input.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode
	m.tabActive = false

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
