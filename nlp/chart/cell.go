package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/timvieira/bubs-parser-sub010/nlp/grammar"
	"github.com/timvieira/bubs-parser-sub010/util"
)

// Cell holds the best inside score and backpointer edge per nonterminal for
// one span. Per-nonterminal storage is allocated on first update, so cells
// that are skipped or pruned empty cost nothing.
type Cell struct {
	Start, End int

	numNonTerms int
	inside      []float64
	edges       []Edge
	nonTerms    []int
	numEdges    int
}

func (c *Cell) init(start, end, numNonTerms int) {
	c.Start, c.End, c.numNonTerms = start, end, numNonTerms
}

func (c *Cell) Width() int {
	return c.End - c.Start
}

// Inside returns the best inside score of nt, or -Inf.
func (c *Cell) Inside(nt int) float64 {
	if c.inside == nil {
		return util.NegInf
	}
	return c.inside[nt]
}

func (c *Cell) HasNonTerm(nt int) bool {
	return c.inside != nil && c.inside[nt] > util.NegInf
}

// BestEdge returns the accepted edge snapshot for nt.
func (c *Cell) BestEdge(nt int) (Edge, bool) {
	if !c.HasNonTerm(nt) {
		return Edge{}, false
	}
	return c.edges[nt], true
}

// UpdateInside stores e if it strictly improves the inside score of its
// parent nonterminal, and reports whether it did.
func (c *Cell) UpdateInside(e Edge) bool {
	if e.Start != c.Start || e.End != c.End {
		panic(fmt.Sprintf("Edge %v added to cell [%d,%d]", e, c.Start, c.End))
	}
	if math.IsNaN(e.Inside) || math.IsInf(e.Inside, 1) {
		panic(fmt.Sprintf("Degenerate inside score for edge %v in cell [%d,%d]", e, c.Start, c.End))
	}
	parent := e.Parent()
	if parent < 0 || parent >= c.numNonTerms {
		panic(fmt.Sprintf("Nonterminal %d out of range in cell [%d,%d]", parent, c.Start, c.End))
	}
	if e.Inside <= c.Inside(parent) {
		return false
	}
	if c.inside == nil {
		c.inside = make([]float64, c.numNonTerms)
		util.FillNegInf(c.inside)
		c.edges = make([]Edge, c.numNonTerms)
	}
	if c.inside[parent] == util.NegInf {
		c.nonTerms = append(c.nonTerms, parent)
	}
	c.inside[parent] = e.Inside
	c.edges[parent] = e
	c.numEdges++
	return true
}

// NonTerms lists the populated nonterminals in the order they entered. The
// slice is the cell's own and grows as new nonterminals are added; callers
// must not modify it.
func (c *Cell) NonTerms() []int {
	return c.nonTerms
}

// NumEdges counts accepted updates, including improvements of a
// nonterminal already present.
func (c *Cell) NumEdges() int {
	return c.numEdges
}

func (c *Cell) String() string {
	return fmt.Sprintf("[%d,%d] nonterminals=%d edges=%d", c.Start, c.End, len(c.nonTerms), c.numEdges)
}

// Format lists the cell contents with symbol names.
func (c *Cell) Format(g grammar.Interface) string {
	strs := make([]string, len(c.nonTerms))
	for i, nt := range c.nonTerms {
		strs[i] = fmt.Sprintf("%s:%v", g.NonTermName(nt), c.inside[nt])
	}
	return fmt.Sprintf("[%d,%d] {%s}", c.Start, c.End, strings.Join(strs, " "))
}
