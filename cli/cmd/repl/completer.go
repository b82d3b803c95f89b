package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/rptkit/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"clear", "edit", "funcs", "help", "quit", "set", "unset", "vars",
}

// keywords are the formula keywords offered for completion.
var keywords = []string{"AND", "FALSE", "NOT", "NULL", "OR", "TRUE"}

// isWordBoundary reports whether r delimits a completion word: whitespace,
// operators, punctuation, and the brackets around field references. The
// dot is not a boundary because identifiers may contain it.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t',
		'(', ')', '[', ']', ',',
		'+', '-', '*', '/',
		'<', '>', '=', '!',
		'\'', '"':
		return true
	}

	return false
}

// wordBounds returns the word at the cursor and its byte boundaries within
// input. The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))
	start, end = cursor, cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inField reports whether position pos of input lies inside an unclosed
// field reference such as "[Qty".
func inField(input string, pos int) bool {
	head := input[:min(pos, len(input))]

	return strings.LastIndexByte(head, '[') > strings.LastIndexByte(head, ']')
}

// evalCandidates returns the completion candidates for a word starting at
// wordStart. Inside a field reference only variables are offered.
func (m model) evalCandidates(input string, wordStart int) []string {
	names := make([]string, 0, len(m.vars))
	for name := range m.vars {
		names = append(names, name)
	}

	slices.Sort(names)

	if inField(input, wordStart) {
		return names
	}

	names = append(names, lang.Functions()...)

	return append(names, keywords...)
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor, ranked best first. An empty word has no matches, except directly
// after an opening bracket where every variable is offered.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	var candidates []string

	switch {
	case m.mode == modeCtrl:
		if word == "" || strings.TrimSpace(input[:wordStart]) != "" {
			return nil, wordStart, wordEnd
		}

		candidates = ctrlCommands

	default:
		candidates = m.evalCandidates(input, wordStart)

		if word == "" {
			if !inField(input, wordStart) || len(candidates) == 0 {
				return nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, wordStart, wordEnd
		}
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit width. The selected candidate (when tabbing) uses the selected style.
func renderCandidateBar(matches fuzzy.Matches, suggIdx int, tabActive bool, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	limit := width - lipgloss.Width(ellipsis) - lipgloss.Width(sep)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += lipgloss.Width(sep)
		}

		if i > 0 && used+w > limit && i < len(matches)-1 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// highlighted. Functions get a "()" suffix that is not inserted on
// completion.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if f, ok := lang.Lookup(match.Str); ok && f.Name == match.Str {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}
