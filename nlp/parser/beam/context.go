package beam

import (
	"fmt"
	"math"

	"github.com/timvieira/bubs-parser-sub010/alg/agenda"
	"github.com/timvieira/bubs-parser-sub010/nlp/chart"
	"github.com/timvieira/bubs-parser-sub010/nlp/fom"
	"github.com/timvieira/bubs-parser-sub010/nlp/grammar"
	"github.com/timvieira/bubs-parser-sub010/util"

	"github.com/golang/glog"
)

// CellContext is the state of one cell visitation shared between the
// control loop and a Policy: the cell, the per-nonterminal Viterbi
// pre-filter and the best FOM seen among candidates.
type CellContext struct {
	Grammar grammar.Interface
	FOM     fom.FigureOfMerit
	Config  *Config
	Stats   *Stats
	Agenda  *agenda.Agenda

	Chart *chart.Chart
	Cell  *chart.Cell

	// BeamWidth is the effective width for this cell.
	BeamWidth int
	BestFOM   float64

	bestEdges []chart.Edge
	hasBest   []bool
	touched   []int
	unaries   []chart.Edge
}

func newCellContext(g grammar.Interface, f fom.FigureOfMerit, cfg *Config, stats *Stats) *CellContext {
	return &CellContext{
		Grammar:   g,
		FOM:       f,
		Config:    cfg,
		Stats:     stats,
		Agenda:    agenda.New(chart.BetterEdge),
		bestEdges: make([]chart.Edge, g.NumNonTerms()),
		hasBest:   make([]bool, g.NumNonTerms()),
	}
}

func (ctx *CellContext) reset(c *chart.Chart, cell *chart.Cell) {
	ctx.Chart, ctx.Cell = c, cell
	ctx.BeamWidth = ctx.Config.BeamWidth
	ctx.BestFOM = util.NegInf
	for _, nt := range ctx.touched {
		ctx.hasBest[nt] = false
	}
	ctx.touched = ctx.touched[:0]
	ctx.Agenda.Clear()
}

// Score sets the FOM of e. A NaN or +Inf figure of merit panics.
func (ctx *CellContext) Score(e *chart.Edge) {
	if e.IsLexical() {
		e.FOM = ctx.FOM.ScoreLexical(e.Start, e.End, e.Parent(), e.Inside)
	} else {
		e.FOM = ctx.FOM.Score(e.Start, e.End, e.Parent(), e.Inside)
	}
	if util.IsDegenerate(e.FOM) {
		panic(fmt.Sprintf("Degenerate figure of merit for edge %v", e.Format(ctx.Grammar)))
	}
}

// Threshold is the lowest FOM an edge may have to enter the chart.
func (ctx *CellContext) Threshold() float64 {
	if math.IsInf(ctx.Config.DeltaThreshold, 1) {
		return util.NegInf
	}
	return ctx.BestFOM - ctx.Config.DeltaThreshold
}

func (ctx *CellContext) WithinThreshold(e chart.Edge) bool {
	return e.FOM >= ctx.Threshold()
}

func (ctx *CellContext) improves(e chart.Edge) bool {
	parent := e.Parent()
	return !ctx.hasBest[parent] || chart.Better(e, ctx.bestEdges[parent])
}

func (ctx *CellContext) setBest(e chart.Edge) {
	parent := e.Parent()
	if !ctx.hasBest[parent] {
		ctx.hasBest[parent] = true
		ctx.touched = append(ctx.touched, parent)
	}
	ctx.bestEdges[parent] = e
}

// Offer passes a candidate through the Viterbi pre-filter, keeping it if it
// beats the best candidate so far for its nonterminal, and raises BestFOM.
func (ctx *CellContext) Offer(e chart.Edge) bool {
	ctx.BestFOM = max(ctx.BestFOM, e.FOM)
	if !ctx.improves(e) {
		return false
	}
	ctx.setBest(e)
	return true
}

// OfferUnary is Offer for unary edges created while draining; it leaves
// BestFOM unchanged.
func (ctx *CellContext) OfferUnary(e chart.Edge) bool {
	if !ctx.improves(e) {
		return false
	}
	ctx.setBest(e)
	return true
}

// BestEdges lists the pre-filter survivors, one per nonterminal.
func (ctx *CellContext) BestEdges() []chart.Edge {
	retval := make([]chart.Edge, len(ctx.touched))
	for i, nt := range ctx.touched {
		retval[i] = ctx.bestEdges[nt]
	}
	return retval
}

// Accept relaxes e into the cell.
func (ctx *CellContext) Accept(e chart.Edge) bool {
	if !ctx.Cell.UpdateInside(e) {
		return false
	}
	ctx.Stats.Accepted++
	if glog.V(3) {
		glog.Infof("accept %v", e.Format(ctx.Grammar))
	}
	return true
}

// Push adds e to the agenda.
func (ctx *CellContext) Push(e chart.Edge) {
	ctx.Stats.Pushed++
	ctx.Agenda.Push(e)
}

// Pop removes the best agenda edge.
func (ctx *CellContext) Pop() (chart.Edge, bool) {
	x, ok := ctx.Agenda.Pop()
	if !ok {
		return chart.Edge{}, false
	}
	ctx.Stats.Popped++
	return x.(chart.Edge), true
}

// UnaryEdges builds the scored unary expansions of child in the current
// cell. The returned slice is reused by the next call.
func (ctx *CellContext) UnaryEdges(child int) []chart.Edge {
	ctx.unaries = ctx.unaries[:0]
	inside := ctx.Cell.Inside(child)
	for _, p := range ctx.Grammar.UnaryProductions(child) {
		e := chart.NewUnaryEdge(p, ctx.Cell.Start, ctx.Cell.End, inside)
		ctx.Score(&e)
		ctx.unaries = append(ctx.unaries, e)
	}
	ctx.Stats.UnaryConsidered += len(ctx.unaries)
	return ctx.unaries
}
