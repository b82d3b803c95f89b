package lang

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/rptkit/pkg"
)

// Sentinel errors. Evaluation failures wrap [ErrEvaluation] and one of the
// kind errors below, so both match with errors.Is.
var (
	ErrSyntax          = pkg.NewError("syntax error")
	ErrEvaluation      = pkg.NewError("evaluation error")
	ErrUnknownFunction = pkg.NewError("unknown function")
	ErrArity           = pkg.NewError("wrong number of arguments")
	ErrDomain          = pkg.NewError("argument out of domain")
	ErrType            = pkg.NewError("type mismatch")
	ErrCompile         = pkg.NewError("compile error")
)

// SyntaxError describes malformed formula text.
type SyntaxError struct {
	Msg    string
	Source string
	Offset int // byte offset into Source
	Line   int // 1-based
	Column int // 1-based, in runes
}

func newSyntaxError(src string, off int, msg string) *SyntaxError {
	off = min(max(off, 0), len(src))
	head := src[:off]
	line := strings.Count(head, "\n") + 1
	col := utf8.RuneCountInString(head[strings.LastIndexByte(head, '\n')+1:]) + 1

	return &SyntaxError{Msg: msg, Source: src, Offset: off, Line: line, Column: col}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Msg)
}

// Unwrap makes every SyntaxError match [ErrSyntax].
func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Snippet renders the offending source line with a caret under the
// error column:
//
//	SUM(1,
//	      ^
func (e *SyntaxError) Snippet() string {
	if e.Source == "" {
		return ""
	}

	line := strings.Split(e.Source, "\n")[max(e.Line, 1)-1]

	return line + "\n" + strings.Repeat(" ", max(e.Column, 1)-1) + "^"
}

// failf builds an evaluation error of the given kind.
func failf(kind *pkg.Error, format string, args ...any) error {
	return ErrEvaluation.Wrap(kind.Wrap(fmt.Errorf(format, args...)))
}

// kindf builds a kind error for a function body to return; the caller
// attaches the function name and wraps it in [ErrEvaluation].
func kindf(kind *pkg.Error, format string, args ...any) error {
	return kind.Wrap(fmt.Errorf(format, args...))
}
