package lang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokIdent
	tokField // [bracketed name]
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	text string // operator text, identifier, or decoded string contents
	num  float64
	kind tokenKind
	pos  int
}

// describe names the token for error messages.
func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokString:
		return "string literal"
	case tokNumber:
		return "number"
	case tokField:
		return "[" + t.text + "]"
	default:
		return "'" + t.text + "'"
	}
}

var keywords = map[string]bool{
	"AND": true, "OR": true, "NOT": true,
	"TRUE": true, "FALSE": true, "NULL": true,
}

func isKeyword(s string) bool { return keywords[strings.ToUpper(s)] }

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentContinue(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isIdent(s string) bool {
	for i, r := range s {
		if (i == 0 && !isIdentStart(r)) || !isIdentContinue(r) {
			return false
		}
	}

	return s != ""
}

// twoCharOps are matched before single-character operators.
var twoCharOps = map[string]string{
	"<=": "<=", ">=": ">=", "<>": "<>", "!=": "<>", "==": "=",
}

const oneCharOps = "+-*/=<>"

// lexer splits formula text into tokens.
type lexer struct {
	input string
	pos   int
}

func (lx *lexer) peek() rune {
	if lx.pos >= len(lx.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(lx.input[lx.pos:])

	return r
}

func (lx *lexer) advance() {
	_, size := utf8.DecodeRuneInString(lx.input[lx.pos:])
	lx.pos += size
}

func (lx *lexer) fail(pos int, msg string) *SyntaxError {
	return newSyntaxError(lx.input, pos, msg)
}

// tokens scans the entire input. The last token is always tokEOF.
func (lx *lexer) tokens() ([]token, error) {
	var out []token

	for {
		for lx.pos < len(lx.input) && unicode.IsSpace(lx.peek()) {
			lx.advance()
		}

		tok, err := lx.next()
		if err != nil {
			return nil, err
		}

		out = append(out, tok)

		if tok.kind == tokEOF {
			return out, nil
		}
	}
}

func (lx *lexer) next() (token, error) {
	start := lx.pos
	if start >= len(lx.input) {
		return token{kind: tokEOF, pos: start}, nil
	}

	r := lx.peek()

	switch {
	case r == '(':
		lx.advance()

		return token{kind: tokLParen, text: "(", pos: start}, nil

	case r == ')':
		lx.advance()

		return token{kind: tokRParen, text: ")", pos: start}, nil

	case r == ',':
		lx.advance()

		return token{kind: tokComma, text: ",", pos: start}, nil

	case r == '"' || r == '\'':
		return lx.scanString(r)

	case r == '[':
		return lx.scanField()

	case r >= '0' && r <= '9', r == '.' && lx.digitAt(lx.pos+1):
		return lx.scanNumber()

	case isIdentStart(r):
		for lx.pos < len(lx.input) && isIdentContinue(lx.peek()) {
			lx.advance()
		}

		return token{kind: tokIdent, text: lx.input[start:lx.pos], pos: start}, nil
	}

	if lx.pos+2 <= len(lx.input) {
		if op, ok := twoCharOps[lx.input[lx.pos:lx.pos+2]]; ok {
			lx.pos += 2

			return token{kind: tokOp, text: op, pos: start}, nil
		}
	}

	if strings.ContainsRune(oneCharOps, r) {
		lx.advance()

		return token{kind: tokOp, text: string(r), pos: start}, nil
	}

	return token{}, lx.fail(start, "unknown operator or character "+quoteRune(r))
}

func (lx *lexer) digitAt(i int) bool {
	return i < len(lx.input) && lx.input[i] >= '0' && lx.input[i] <= '9'
}

func (lx *lexer) scanNumber() (token, error) {
	start := lx.pos
	digits := func() {
		for lx.digitAt(lx.pos) {
			lx.pos++
		}
	}

	digits()

	if lx.pos < len(lx.input) && lx.input[lx.pos] == '.' {
		lx.pos++
		digits()
	}

	if lx.pos < len(lx.input) && (lx.input[lx.pos] == 'e' || lx.input[lx.pos] == 'E') {
		mark := lx.pos
		lx.pos++

		if lx.pos < len(lx.input) && (lx.input[lx.pos] == '+' || lx.input[lx.pos] == '-') {
			lx.pos++
		}

		if !lx.digitAt(lx.pos) {
			lx.pos = mark
		} else {
			digits()
		}
	}

	text := lx.input[start:lx.pos]

	f, err := parseFloat(text)
	if err != nil {
		return token{}, lx.fail(start, "malformed number "+text)
	}

	if lx.pos < len(lx.input) && isIdentStart(lx.peek()) {
		return token{}, lx.fail(lx.pos, "unexpected character "+quoteRune(lx.peek())+" after number")
	}

	return token{kind: tokNumber, text: text, num: f, pos: start}, nil
}

// scanString reads a quoted literal. Backslash escapes \n \t \\ \' \" are
// recognized, as is a doubled quote character.
func (lx *lexer) scanString(quote rune) (token, error) {
	start := lx.pos
	lx.advance()

	var sb strings.Builder

	for {
		if lx.pos >= len(lx.input) {
			return token{}, lx.fail(start, "unterminated string literal")
		}

		r := lx.peek()
		lx.advance()

		switch {
		case r == quote:
			if lx.peek() == quote {
				lx.advance()
				sb.WriteRune(quote)

				continue
			}

			return token{kind: tokString, text: sb.String(), pos: start}, nil

		case r == '\\' && lx.pos < len(lx.input):
			e := lx.peek()
			lx.advance()

			switch e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				sb.WriteRune(e)
			}

		default:
			sb.WriteRune(r)
		}
	}
}

func (lx *lexer) scanField() (token, error) {
	start := lx.pos
	lx.advance()

	end := strings.IndexByte(lx.input[lx.pos:], ']')
	if end < 0 {
		return token{}, lx.fail(start, "unbalanced brackets: missing ']'")
	}

	name := strings.TrimSpace(lx.input[lx.pos : lx.pos+end])
	lx.pos += end + 1

	if name == "" {
		return token{}, lx.fail(start, "empty field reference")
	}

	return token{kind: tokField, text: name, pos: start}, nil
}

func quoteRune(r rune) string { return "'" + string(r) + "'" }
