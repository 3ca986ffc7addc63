package chart

import (
	"fmt"

	"github.com/timvieira/bubs-parser-sub010/nlp/grammar"
)

// Edge is a production instantiated over a span. Children are addressed by
// span: a binary edge's children live in cells (Start, Mid) and (Mid, End);
// a unary edge's child is in its own cell. Mid is -1 for non-binary edges.
type Edge struct {
	Prod            *grammar.Production
	Start, Mid, End int
	Inside          float64
	FOM             float64
}

func NewLexicalEdge(p *grammar.Production, start int) Edge {
	return Edge{p, start, -1, start + 1, p.Prob, p.Prob}
}

func NewUnaryEdge(p *grammar.Production, start, end int, childInside float64) Edge {
	return Edge{p, start, -1, end, childInside + p.Prob, 0}
}

func NewBinaryEdge(p *grammar.Production, start, mid, end int, leftInside, rightInside float64) Edge {
	return Edge{p, start, mid, end, leftInside + rightInside + p.Prob, 0}
}

func (e Edge) Parent() int {
	return e.Prod.Parent
}

func (e Edge) IsBinary() bool  { return e.Prod.IsBinary() }
func (e Edge) IsUnary() bool   { return e.Prod.IsUnary() }
func (e Edge) IsLexical() bool { return e.Prod.IsLexical() }

func (e Edge) Width() int {
	return e.End - e.Start
}

func (e Edge) Format(g grammar.Interface) string {
	return fmt.Sprintf("[%d,%d,%d] %s inside=%v fom=%v", e.Start, e.Mid, e.End, e.Prod.Format(g), e.Inside, e.FOM)
}

func (e Edge) String() string {
	return fmt.Sprintf("[%d,%d,%d] %v inside=%v fom=%v", e.Start, e.Mid, e.End, e.Prod, e.Inside, e.FOM)
}

// Better orders edges for agendas and the per-nonterminal pre-filter:
// higher FOM first, then higher inside score, then lower production ID,
// then lower midpoint.
func Better(a, b Edge) bool {
	if a.FOM != b.FOM {
		return a.FOM > b.FOM
	}
	if a.Inside != b.Inside {
		return a.Inside > b.Inside
	}
	if a.Prod.ID != b.Prod.ID {
		return a.Prod.ID < b.Prod.ID
	}
	return a.Mid < b.Mid
}

// BetterEdge is Better over boxed edges, for the generic agendas.
func BetterEdge(a, b interface{}) bool {
	return Better(a.(Edge), b.(Edge))
}
