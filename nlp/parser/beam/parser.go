// Package beam is the beam-search chart parser: a single bottom-up control
// loop over chart cells, with the pruning strategy supplied by a Policy.
package beam

import (
	"github.com/timvieira/bubs-parser-sub010/nlp/chart"
	"github.com/timvieira/bubs-parser-sub010/nlp/fom"
	"github.com/timvieira/bubs-parser-sub010/nlp/grammar"
	"github.com/timvieira/bubs-parser-sub010/nlp/parser/cellselect"
	"github.com/timvieira/bubs-parser-sub010/nlp/tree"
	"github.com/timvieira/bubs-parser-sub010/nlp/types"

	"github.com/golang/glog"
)

// Policy decides which candidate edges of a cell enter the chart.
//
// InitCell is called when visitation of a cell starts, AddEdge once per
// scored candidate, and Fill after all candidates were added; Fill is
// responsible for unary closure.
type Policy interface {
	Name() string
	InitCell(ctx *CellContext)
	AddEdge(ctx *CellContext, e chart.Edge)
	Fill(ctx *CellContext)
}

// Parser owns all per-sentence mutable state (chart, agenda, FOM tables)
// and must not be shared between goroutines.
type Parser struct {
	Grammar  grammar.Interface
	FOM      fom.FigureOfMerit
	Selector cellselect.Selector
	Policy   Policy
	Config   Config
	Stats    Stats

	ctx *CellContext
}

func NewParser(g grammar.Interface, fomModel fom.Model, selector cellselect.Model, policy Policy, cfg Config) *Parser {
	p := &Parser{
		Grammar:  g,
		FOM:      fomModel.NewFOM(),
		Selector: selector.NewSelector(),
		Policy:   policy,
		Config:   cfg,
	}
	p.ctx = newCellContext(g, p.FOM, &p.Config, &p.Stats)
	return p
}

// Parse returns the best unfactored parse of sent, or chart.ErrNoParse.
func (p *Parser) Parse(sent *types.Sentence) (*tree.Tree, error) {
	c := p.ParseChart(sent)
	parse, err := c.ExtractBestParse(p.Grammar.StartSymbol())
	if err != nil {
		p.Stats.Failed++
		glog.V(1).Infof("Sentence %d: %v", sent.ID, err)
		return nil, err
	}
	p.Stats.Parsed++
	return parse.Unfactor(p.isFactored), nil
}

func (p *Parser) isFactored(label string) bool {
	nt, exists := p.Grammar.NonTermIndex(label)
	return exists && p.Grammar.IsFactored(nt)
}

// ParseChart fills and returns the chart of sent.
func (p *Parser) ParseChart(sent *types.Sentence) *chart.Chart {
	p.Stats.Sentences++
	c := chart.New(sent, p.Grammar)
	p.FOM.InitSentence(sent)
	p.Selector.InitSentence(sent)
	visited := 0
	for p.Selector.HasNext() {
		start, end := p.Selector.Next()
		p.visitCell(c, c.Cell(start, end))
		visited++
	}
	p.Stats.CellsVisited += visited
	p.Stats.CellsSkipped += c.NumCells() - visited
	glog.V(1).Infof("Sentence %d: %d words, %d cells visited, %v", sent.ID, sent.Len(), visited, c)
	return c
}

func (p *Parser) visitCell(c *chart.Chart, cell *chart.Cell) {
	ctx := p.ctx
	ctx.reset(c, cell)
	p.Policy.InitCell(ctx)
	if cell.Width() == 1 {
		p.addLexical(ctx)
	} else {
		p.addBinary(ctx)
	}
	p.Policy.Fill(ctx)
	if glog.V(2) {
		glog.Infof("%v beam=%d best=%v", cell, ctx.BeamWidth, ctx.BestFOM)
	}
}

// addLexical enters every lexical production of the token directly and
// offers the unary closures over them to the policy. Lexical edges still
// raise BestFOM so that closures are thresholded against the whole cell.
func (p *Parser) addLexical(ctx *CellContext) {
	cell := ctx.Cell
	word := ctx.Chart.Sentence.Word(cell.Start)
	for _, prod := range p.Grammar.LexicalProductions(word) {
		e := chart.NewLexicalEdge(prod, cell.Start)
		ctx.Score(&e)
		p.Stats.Considered++
		ctx.BestFOM = max(ctx.BestFOM, e.FOM)
		if cell.UpdateInside(e) {
			p.Stats.Lexical++
		}
	}
	for _, nt := range cell.NonTerms() {
		for _, e := range ctx.UnaryEdges(nt) {
			p.Policy.AddEdge(ctx, e)
		}
	}
}

func (p *Parser) addBinary(ctx *CellContext) {
	cell, c := ctx.Cell, ctx.Chart
	for mid := cell.Start + 1; mid < cell.End; mid++ {
		left, right := c.Cell(cell.Start, mid), c.Cell(mid, cell.End)
		if len(left.NonTerms()) == 0 || len(right.NonTerms()) == 0 {
			continue
		}
		for _, l := range left.NonTerms() {
			leftInside := left.Inside(l)
			for _, r := range right.NonTerms() {
				for _, prod := range p.Grammar.BinaryProductions(l, r) {
					e := chart.NewBinaryEdge(prod, cell.Start, mid, cell.End, leftInside, right.Inside(r))
					ctx.Score(&e)
					p.Stats.Considered++
					p.Policy.AddEdge(ctx, e)
				}
			}
		}
	}
}
