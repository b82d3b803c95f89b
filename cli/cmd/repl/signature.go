package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/rptkit/lang"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // function name as typed
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// frame is an open parenthesis seen while scanning toward the cursor.
type frame struct {
	name  string
	comma int
}

// detectFunctionCall reports the innermost call whose argument list contains
// the cursor. String literals and field references are skipped, so commas
// and parentheses inside them do not count.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	var (
		stack []frame
		quote byte
		field bool
	)

	for i := 0; i < cursor; i++ {
		ch := input[i]

		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}

			continue
		case field:
			field = ch != ']'

			continue
		}

		switch ch {
		case '"', '\'':
			quote = ch
		case '[':
			field = true
		case '(':
			stack = append(stack, frame{name: calleeName(input[:i])})
		case ')':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case ',':
			if len(stack) > 0 {
				stack[len(stack)-1].comma++
			}
		}
	}

	if len(stack) == 0 || quote != 0 {
		return functionCall{}
	}

	top := stack[len(stack)-1]
	if top.name == "" {
		return functionCall{}
	}

	return functionCall{name: top.name, argIndex: top.comma, inCall: true}
}

// calleeName returns the identifier immediately before an opening
// parenthesis, ignoring spaces between them.
func calleeName(head string) string {
	head = strings.TrimRight(head, " \t")

	end := len(head)
	start := end

	for start > 0 {
		c := head[start-1]
		if c != '_' && c != '.' &&
			(c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			break
		}

		start--
	}

	return head[start:end]
}

// signature returns the display signature of a built-in function and its
// parameter names. Optional parameters keep their brackets stripped; a
// trailing "..." marks the variadic tail.
func signature(name string) (string, []string) {
	f, ok := lang.Lookup(name)
	if !ok {
		return "", nil
	}

	open := strings.IndexByte(f.Signature, '(')
	closing := strings.LastIndexByte(f.Signature, ')')

	if open < 0 || closing <= open {
		return f.Signature, nil
	}

	inner := strings.NewReplacer("[", "", "]", "").Replace(f.Signature[open+1 : closing])
	if strings.TrimSpace(inner) == "" {
		return f.Signature, nil
	}

	var params []string

	for p := range strings.SplitSeq(inner, ",") {
		if p = strings.TrimSpace(p); p != "" {
			params = append(params, p)
		}
	}

	return f.Signature, params
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted. A variadic "..." stays highlighted for every
// argument past the fixed ones.
func renderSignatureHint(
	signature string,
	params []string,
	currentArgIdx int,
) string {
	if signature == "" {
		return ""
	}

	open := strings.IndexByte(signature, '(')
	if open == -1 {
		return signatureStyle.Render(signature)
	}

	name := signature[:open]

	if len(params) == 0 {
		return signatureNameStyle.Render(name) + signatureStyle.Render("()")
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		variadic := param == "..."

		if (variadic && currentArgIdx >= i) || (!variadic && currentArgIdx == i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
