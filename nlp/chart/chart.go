// Package chart is the dynamic-programming table of the beam-search parser:
// a triangular arena of cells, one per span, each keeping the best edge per
// nonterminal.
package chart

import (
	"fmt"

	"github.com/timvieira/bubs-parser-sub010/nlp/grammar"
	"github.com/timvieira/bubs-parser-sub010/nlp/tree"
	"github.com/timvieira/bubs-parser-sub010/nlp/types"

	"github.com/pkg/errors"
)

// ErrNoParse is returned when the top cell does not derive the start symbol.
var ErrNoParse = errors.New("no parse")

type Chart struct {
	Sentence *types.Sentence
	Grammar  grammar.Interface

	n     int
	cells []Cell
}

func New(sent *types.Sentence, g grammar.Interface) *Chart {
	n := sent.Len()
	c := &Chart{
		Sentence: sent,
		Grammar:  g,
		n:        n,
		cells:    make([]Cell, n*(n+1)/2),
	}
	numNonTerms := g.NumNonTerms()
	for start := 0; start < n; start++ {
		for end := start + 1; end <= n; end++ {
			c.cells[c.index(start, end)].init(start, end, numNonTerms)
		}
	}
	return c
}

// Size is the sentence length.
func (c *Chart) Size() int {
	return c.n
}

func (c *Chart) NumCells() int {
	return len(c.cells)
}

func (c *Chart) index(start, end int) int {
	return start*c.n - start*(start-1)/2 + (end - start - 1)
}

// Cell returns the cell for [start, end); it panics on an invalid span.
func (c *Chart) Cell(start, end int) *Cell {
	if start < 0 || end > c.n || start >= end {
		panic(fmt.Sprintf("Cell [%d,%d] out of range for chart of size %d", start, end, c.n))
	}
	return &c.cells[c.index(start, end)]
}

func (c *Chart) Top() *Cell {
	return c.Cell(0, c.n)
}

// HasCompleteParse reports whether the top cell derives startSymbol.
func (c *Chart) HasCompleteParse(startSymbol int) bool {
	return c.n > 0 && c.Top().HasNonTerm(startSymbol)
}

// ExtractBestParse follows backpointers from startSymbol in the top cell.
// The tree is returned as derived, with factored nodes intact.
func (c *Chart) ExtractBestParse(startSymbol int) (*tree.Tree, error) {
	if !c.HasCompleteParse(startSymbol) {
		return nil, ErrNoParse
	}
	return c.extract(c.Top(), startSymbol, 0)
}

func (c *Chart) extract(cell *Cell, nt int, unaryDepth int) (*tree.Tree, error) {
	e, exists := cell.BestEdge(nt)
	if !exists {
		return nil, errors.Wrapf(ErrNoParse, "missing backpointer for %s in [%d,%d]",
			c.Grammar.NonTermName(nt), cell.Start, cell.End)
	}
	label := c.Grammar.NonTermName(nt)
	switch {
	case e.IsLexical():
		return tree.NewNode(label, tree.NewLeaf(c.Sentence.Token(cell.Start))), nil
	case e.IsUnary():
		if unaryDepth >= c.Grammar.NumNonTerms() {
			return nil, errors.Wrapf(ErrNoParse, "unary cycle at %s in [%d,%d]", label, cell.Start, cell.End)
		}
		child, err := c.extract(cell, e.Prod.Left, unaryDepth+1)
		if err != nil {
			return nil, err
		}
		return tree.NewNode(label, child), nil
	default:
		left, err := c.extract(c.Cell(e.Start, e.Mid), e.Prod.Left, 0)
		if err != nil {
			return nil, err
		}
		right, err := c.extract(c.Cell(e.Mid, e.End), e.Prod.Right, 0)
		if err != nil {
			return nil, err
		}
		return tree.NewNode(label, left, right), nil
	}
}

func (c *Chart) String() string {
	var edges, populated int
	for i := range c.cells {
		edges += c.cells[i].NumEdges()
		if len(c.cells[i].NonTerms()) > 0 {
			populated++
		}
	}
	return fmt.Sprintf("Chart [n=%d cells=%d populated=%d edges=%d]", c.n, len(c.cells), populated, edges)
}
