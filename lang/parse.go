package lang

import (
	"log/slog"
	"strings"
)

// Parse parses formula text into an [Expr].
//
// A single leading "=" is ignored, so spreadsheet-style formulas such as
// "=SUM([Amount])" parse the same as "SUM([Amount])". Parsing never
// evaluates and does not check whether functions exist; see [Validate].
//
// Errors are of type *[SyntaxError]. Options only affect logging.
func Parse(text string, opts ...Option) (*Expr, error) {
	o := makeOptions(opts...)
	src := text

	lx := &lexer{input: text}

	trimmed := strings.TrimLeft(text, " \t\r\n")
	if strings.HasPrefix(trimmed, "=") && !strings.HasPrefix(trimmed, "==") {
		lx.pos = len(text) - len(trimmed) + 1
	}

	toks, err := lx.tokens()
	if err != nil {
		o.logger.Trace("lex failed", slog.String("source", src), slog.Any("error", err))

		return nil, err
	}

	p := &parser{src: src, toks: toks}

	if p.peek().kind == tokEOF {
		return nil, p.fail(p.peek(), "empty expression")
	}

	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if t := p.peek(); t.kind != tokEOF {
		if t.kind == tokRParen {
			return nil, p.fail(t, "unbalanced parentheses: unexpected ')'")
		}

		return nil, p.fail(t, "unexpected "+t.describe()+" after expression")
	}

	o.logger.Trace("parsed", slog.String("source", src), slog.Int("tokens", len(toks)))

	return &Expr{Root: root, Source: src}, nil
}

// MustParse is like [Parse] but panics on error. It is intended for
// formulas that are constants in source code.
func MustParse(text string) *Expr {
	e, err := Parse(text)
	if err != nil {
		panic(err)
	}

	return e
}

type parser struct {
	src  string
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}

	return t
}

// keyword reports whether the next token is the identifier kw, ignoring case.
func (p *parser) keyword(kw string) bool {
	t := p.peek()

	return t.kind == tokIdent && strings.EqualFold(t.text, kw)
}

func (p *parser) op(ops ...string) (token, bool) {
	t := p.peek()
	if t.kind != tokOp {
		return t, false
	}

	for _, o := range ops {
		if t.text == o {
			return p.advance(), true
		}
	}

	return t, false
}

func (p *parser) fail(t token, msg string) *SyntaxError {
	return newSyntaxError(p.src, t.pos, msg)
}

func (p *parser) parseOr() (Node, error) {
	l, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.keyword("OR") {
		t := p.advance()

		r, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		l = &Binary{Op: "OR", L: l, R: r, Offset: t.pos}
	}

	return l, nil
}

func (p *parser) parseAnd() (Node, error) {
	l, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for p.keyword("AND") {
		t := p.advance()

		r, err := p.parseNot()
		if err != nil {
			return nil, err
		}

		l = &Binary{Op: "AND", L: l, R: r, Offset: t.pos}
	}

	return l, nil
}

func (p *parser) parseNot() (Node, error) {
	if p.keyword("NOT") {
		t := p.advance()

		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}

		return &Unary{Op: "NOT", X: x, Offset: t.pos}, nil
	}

	return p.parseCompare()
}

func (p *parser) parseCompare() (Node, error) {
	l, err := p.parseAdd()
	if err != nil {
		return nil, err
	}

	t, ok := p.op(compareOps...)
	if !ok {
		return l, nil
	}

	r, err := p.parseAdd()
	if err != nil {
		return nil, err
	}

	// Comparisons do not chain; "1 < 2 < 3" needs parentheses.
	if next, ok := p.op(compareOps...); ok {
		return nil, p.fail(next, "comparison "+next.text+" after comparison "+t.text+" needs parentheses")
	}

	return &Binary{Op: t.text, L: l, R: r, Offset: t.pos}, nil
}

var compareOps = []string{"=", "<>", "<", "<=", ">", ">="}

func (p *parser) parseAdd() (Node, error) {
	l, err := p.parseMul()
	if err != nil {
		return nil, err
	}

	for {
		t, ok := p.op("+", "-")
		if !ok {
			return l, nil
		}

		r, err := p.parseMul()
		if err != nil {
			return nil, err
		}

		l = &Binary{Op: t.text, L: l, R: r, Offset: t.pos}
	}
}

func (p *parser) parseMul() (Node, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		t, ok := p.op("*", "/")
		if !ok {
			return l, nil
		}

		r, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		l = &Binary{Op: t.text, L: l, R: r, Offset: t.pos}
	}
}

func (p *parser) parseUnary() (Node, error) {
	if t, ok := p.op("-", "+"); ok {
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &Unary{Op: t.text, X: x, Offset: t.pos}, nil
	}

	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Node, error) {
	t := p.advance()

	switch t.kind {
	case tokNumber:
		return &Literal{Value: t.num, Offset: t.pos}, nil

	case tokString:
		return &Literal{Value: t.text, Offset: t.pos}, nil

	case tokField:
		return &Variable{Name: t.text, Offset: t.pos}, nil

	case tokLParen:
		x, err := p.parseOr()
		if err != nil {
			return nil, err
		}

		if p.peek().kind != tokRParen {
			return nil, p.fail(p.peek(), "unbalanced parentheses: expected ')' but found "+p.peek().describe())
		}

		p.advance()

		return x, nil

	case tokIdent:
		return p.parseIdent(t)

	case tokEOF:
		return nil, p.fail(t, "unexpected end of input")

	case tokRParen:
		return nil, p.fail(t, "unbalanced parentheses: unexpected ')'")

	default:
		return nil, p.fail(t, "unexpected "+t.describe())
	}
}

func (p *parser) parseIdent(t token) (Node, error) {
	if p.peek().kind == tokLParen {
		return p.parseCall(t)
	}

	switch strings.ToUpper(t.text) {
	case "TRUE":
		return &Literal{Value: true, Offset: t.pos}, nil
	case "FALSE":
		return &Literal{Value: false, Offset: t.pos}, nil
	case "NULL":
		return &Literal{Value: nil, Offset: t.pos}, nil
	case "AND", "OR", "NOT":
		return nil, p.fail(t, "unexpected keyword "+strings.ToUpper(t.text))
	}

	return &Variable{Name: t.text, Offset: t.pos}, nil
}

func (p *parser) parseCall(name token) (Node, error) {
	open := p.advance()
	call := &Call{Name: strings.ToUpper(name.text), Offset: name.pos}

	if p.peek().kind == tokRParen {
		p.advance()

		return call, nil
	}

	for {
		arg, err := p.parseOr()
		if err != nil {
			return nil, err
		}

		call.Args = append(call.Args, arg)

		switch t := p.advance(); t.kind {
		case tokComma:
			continue
		case tokRParen:
			return call, nil
		case tokEOF:
			return nil, p.fail(open, "unbalanced parentheses: missing ')' for "+call.Name)
		default:
			return nil, p.fail(t, "expected ',' or ')' but found "+t.describe())
		}
	}
}
