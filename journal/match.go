package journal

import (
	"bytes"
	"strings"

	"github.com/jeffrom/journald/internal"
	"github.com/jeffrom/journald/protocol"
)

// MatchExpr is a two-level filter over field/value equality: an OR of
// conjunctive terms. And narrows the current term; Or starts a new
// alternative term. The expression matches an entry when any term matches,
// and a term matches when every one of its constraints is present on the
// entry. This is the daemon's native matching language: there is no
// negation and no deeper nesting, so none is offered here.
type MatchExpr struct {
	terms [][]protocol.Field
	err   error
}

// NewMatch returns an empty match expression. An expression with no
// constraints matches every entry.
func NewMatch() *MatchExpr {
	return &MatchExpr{}
}

// And adds a field=value constraint to the current term. The field name is
// validated; an invalid name poisons the expression and surfaces from Err
// and from installing the expression on a reader.
func (m *MatchExpr) And(field string, value []byte) *MatchExpr {
	if err := protocol.ValidateFieldName(field); err != nil {
		if m.err == nil {
			m.err = err
		}
		return m
	}
	if len(m.terms) == 0 {
		m.terms = append(m.terms, nil)
	}
	i := len(m.terms) - 1
	m.terms[i] = append(m.terms[i], protocol.Field{Name: field, Value: internal.CopyBytes(value)})
	return m
}

// AndString adds a string-valued constraint to the current term.
func (m *MatchExpr) AndString(field, value string) *MatchExpr {
	return m.And(field, []byte(value))
}

// Or closes the current term and starts a new alternative. A term left
// empty is skipped when the expression is installed.
func (m *MatchExpr) Or() *MatchExpr {
	m.terms = append(m.terms, nil)
	return m
}

// Err returns the first invalid constraint recorded on the expression.
func (m *MatchExpr) Err() error {
	return m.err
}

// Matches evaluates the expression against an entry: any term with all its
// constraints present on the entry matches. Multi-valued fields satisfy a
// constraint when any of their values is equal.
func (m *MatchExpr) Matches(e *protocol.Entry) bool {
	sawTerm := false
	for _, term := range m.terms {
		if len(term) == 0 {
			continue
		}
		sawTerm = true
		if termMatches(term, e) {
			return true
		}
	}
	// no constraints: nothing is filtered
	return !sawTerm
}

func termMatches(term []protocol.Field, e *protocol.Entry) bool {
	for _, c := range term {
		if !hasFieldValue(e, c) {
			return false
		}
	}
	return true
}

func hasFieldValue(e *protocol.Entry, c protocol.Field) bool {
	for _, f := range e.Fields() {
		if f.Name == c.Name && bytes.Equal(f.Value, c.Value) {
			return true
		}
	}
	return false
}

// apply installs the expression on a cursor: one disjunction boundary
// between non-empty terms, one match per constraint.
func (m *MatchExpr) apply(c Cursor) error {
	if m.err != nil {
		return m.err
	}
	first := true
	for _, term := range m.terms {
		if len(term) == 0 {
			continue
		}
		if !first {
			if err := c.AddDisjunction(); err != nil {
				return err
			}
		}
		first = false
		for _, f := range term {
			if err := c.AddMatch(f.Name, f.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *MatchExpr) String() string {
	var b strings.Builder
	for i, term := range m.terms {
		if i > 0 {
			b.WriteString(" + ")
		}
		for j, f := range term {
			if j > 0 {
				b.WriteString(" ")
			}
			b.WriteString(f.String())
		}
	}
	return b.String()
}
