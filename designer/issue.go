package designer

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/ardnew/rptkit/lang"
	"github.com/ardnew/rptkit/report"
)

// Issue is a formula in the template that does not validate.
type Issue struct {
	Section uuid.UUID
	Element uuid.UUID // uuid.Nil for a section visibility expression
	Field   string    // "expression" or "visibility"
	Formula string
	Message string
}

func (i Issue) attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("section", i.Section.String()),
		slog.String("field", i.Field),
		slog.String("formula", i.Formula),
		slog.String("message", i.Message),
	}

	if i.Element != uuid.Nil {
		attrs = append(attrs, slog.String("element", i.Element.String()))
	}

	return attrs
}

// Issues validates every CalculatedField expression and every visibility
// expression of the template, in section and element order.
func (s *Session) Issues() []Issue {
	if s.tpl == nil {
		return nil
	}

	var out []Issue

	check := func(sec, el uuid.UUID, field, formula string) {
		if formula == "" {
			return
		}

		if ok, msg := lang.Validate(formula); !ok {
			out = append(out, Issue{
				Section: sec, Element: el, Field: field,
				Formula: formula, Message: msg,
			})
		}
	}

	for _, sec := range s.tpl.OrderedSections() {
		check(sec.ID, uuid.Nil, "visibility", sec.VisibilityExpression)

		for _, e := range sec.OrderedElements() {
			if e.Type == report.CalculatedField {
				check(sec.ID, e.ID, "expression", e.Expression)
			}

			check(sec.ID, e.ID, "visibility", e.VisibilityExpression)
		}
	}

	return out
}
