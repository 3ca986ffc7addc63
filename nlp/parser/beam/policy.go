package beam

import (
	"math"

	"github.com/timvieira/bubs-parser-sub010/alg/agenda"
	"github.com/timvieira/bubs-parser-sub010/nlp/chart"

	"github.com/pkg/errors"
)

const (
	PRUNE_VITERBI = "viterbi"
	EXP_DECAY     = "expdecay"
	BOUNDED_HEAP  = "boundedheap"
	SPLIT_UNARY   = "splitunary"
	ONLINE_BEAM   = "online"
)

var POLICIES = []string{PRUNE_VITERBI, EXP_DECAY, BOUNDED_HEAP, SPLIT_UNARY, ONLINE_BEAM}

// NewPolicy returns a fresh policy instance; policies may hold per-cell
// buffers and belong to a single parser.
func NewPolicy(name string) (Policy, error) {
	switch name {
	case PRUNE_VITERBI:
		return &PruneViterbi{}, nil
	case EXP_DECAY:
		return &ExpDecay{}, nil
	case BOUNDED_HEAP:
		return &BoundedHeap{}, nil
	case SPLIT_UNARY:
		return &SplitUnary{}, nil
	case ONLINE_BEAM:
		return &OnlineBeam{}, nil
	}
	return nil, errors.Errorf("unknown beam policy %q (expected one of %v)", name, POLICIES)
}

// PruneViterbi keeps the best candidate per nonterminal, seeds the agenda
// with those within DeltaThreshold of the best FOM, and pops at most
// BeamWidth edges. Unary expansions of accepted edges compete in the same
// agenda.
type PruneViterbi struct{}

func (*PruneViterbi) Name() string              { return PRUNE_VITERBI }
func (*PruneViterbi) InitCell(ctx *CellContext) {}

func (*PruneViterbi) AddEdge(ctx *CellContext, e chart.Edge) {
	ctx.Offer(e)
}

func (*PruneViterbi) Fill(ctx *CellContext) {
	for _, e := range ctx.BestEdges() {
		if ctx.WithinThreshold(e) {
			ctx.Push(e)
		}
	}
	drain(ctx, ctx.BeamWidth)
}

// drain pops up to pops edges, relaxing each into the cell and pushing the
// unary expansions of accepted edges that survive the pre-filter.
func drain(ctx *CellContext, pops int) {
	for popped := 0; popped < pops; popped++ {
		e, ok := ctx.Pop()
		if !ok || !ctx.WithinThreshold(e) {
			return
		}
		if !ctx.Accept(e) {
			continue
		}
		for _, u := range ctx.UnaryEdges(e.Parent()) {
			if ctx.WithinThreshold(u) && ctx.OfferUnary(u) {
				ctx.Push(u)
			}
		}
	}
}

// ExpDecay is PruneViterbi with a per-cell beam width shrinking
// exponentially with cell width: ceil(MaxPops exp(-Lambda width n / MaxPops)),
// at least MinPops.
type ExpDecay struct {
	PruneViterbi
}

func (*ExpDecay) Name() string { return EXP_DECAY }

func (*ExpDecay) InitCell(ctx *CellContext) {
	ctx.BeamWidth = DecayedBeamWidth(ctx.Config, ctx.Cell.Width(), ctx.Chart.Size())
}

func DecayedBeamWidth(cfg *Config, width, n int) int {
	if cfg.MaxPops <= 0 {
		return cfg.MinPops
	}
	maxPops := float64(cfg.MaxPops)
	beam := int(math.Ceil(maxPops * math.Exp(-cfg.Lambda*float64(width)*float64(n)/maxPops)))
	return max(beam, cfg.MinPops)
}

// BoundedHeap admits pre-filter survivors into a heap of capacity
// BeamWidth holding at most one edge per nonterminal; a newcomer evicts the
// worst edge when the heap is full. The heap is then drained best-first,
// unary expansions competing for the same slots.
type BoundedHeap struct {
	heap *agenda.Bounded
}

func (*BoundedHeap) Name() string { return BOUNDED_HEAP }

func (b *BoundedHeap) InitCell(ctx *CellContext) {
	if b.heap == nil || b.heap.Capacity != ctx.BeamWidth {
		b.heap = agenda.NewBounded(ctx.BeamWidth, chart.BetterEdge)
	} else {
		b.heap.Clear()
	}
}

func (*BoundedHeap) AddEdge(ctx *CellContext, e chart.Edge) {
	ctx.Offer(e)
}

func (b *BoundedHeap) offer(ctx *CellContext, e chart.Edge) {
	if admitted, _ := b.heap.Offer(e.Parent(), e); admitted {
		ctx.Stats.Pushed++
	}
}

func (b *BoundedHeap) Fill(ctx *CellContext) {
	for _, e := range ctx.BestEdges() {
		if ctx.WithinThreshold(e) {
			b.offer(ctx, e)
		}
	}
	for popped := 0; popped < ctx.BeamWidth; popped++ {
		x, ok := b.heap.PopBest()
		if !ok {
			return
		}
		ctx.Stats.Popped++
		e := x.(chart.Edge)
		if !ctx.Accept(e) {
			continue
		}
		for _, u := range ctx.UnaryEdges(e.Parent()) {
			if ctx.WithinThreshold(u) && ctx.OfferUnary(u) {
				b.offer(ctx, u)
			}
		}
	}
}

// SplitUnary drains non-unary candidates first, bounded by BeamWidth, then
// runs unary closure as a separate competition bounded by UnaryBeamWidth.
type SplitUnary struct {
	accepted []int
}

func (*SplitUnary) Name() string { return SPLIT_UNARY }

func (s *SplitUnary) InitCell(ctx *CellContext) {
	s.accepted = s.accepted[:0]
}

func (*SplitUnary) AddEdge(ctx *CellContext, e chart.Edge) {
	ctx.Offer(e)
}

func (s *SplitUnary) Fill(ctx *CellContext) {
	var unaries []chart.Edge
	for _, e := range ctx.BestEdges() {
		switch {
		case !ctx.WithinThreshold(e):
		case e.IsUnary():
			unaries = append(unaries, e)
		default:
			ctx.Push(e)
		}
	}
	for popped := 0; popped < ctx.BeamWidth; popped++ {
		e, ok := ctx.Pop()
		if !ok {
			break
		}
		if ctx.Accept(e) {
			s.accepted = append(s.accepted, e.Parent())
		}
	}

	ctx.Agenda.Clear()
	for _, e := range unaries {
		ctx.Push(e)
	}
	for _, nt := range s.accepted {
		for _, u := range ctx.UnaryEdges(nt) {
			if ctx.WithinThreshold(u) && ctx.OfferUnary(u) {
				ctx.Push(u)
			}
		}
	}
	drain(ctx, ctx.Config.UnaryBeamWidth)
}

// OnlineBeam has no agenda: a candidate enters the chart as soon as it
// arrives if its FOM is within DeltaThreshold of the running best and it
// either improves a nonterminal already in the cell or fewer than
// BeamWidth nonterminals were added to the cell so far. Unary closure
// follows with the same rule. Lexical entries do not count against the
// beam.
type OnlineBeam struct {
	added int
}

func (*OnlineBeam) Name() string { return ONLINE_BEAM }

func (o *OnlineBeam) InitCell(ctx *CellContext) {
	o.added = 0
}

func (o *OnlineBeam) admit(ctx *CellContext, e chart.Edge) {
	ctx.BestFOM = max(ctx.BestFOM, e.FOM)
	if !ctx.WithinThreshold(e) {
		return
	}
	isNew := !ctx.Cell.HasNonTerm(e.Parent())
	if isNew && o.added >= ctx.BeamWidth {
		return
	}
	if ctx.Accept(e) && isNew {
		o.added++
	}
}

func (o *OnlineBeam) AddEdge(ctx *CellContext, e chart.Edge) {
	o.admit(ctx, e)
}

func (o *OnlineBeam) Fill(ctx *CellContext) {
	// Admitted closures append to the cell, so re-read the list each round.
	for i := 0; ; i++ {
		nts := ctx.Cell.NonTerms()
		if i >= len(nts) {
			break
		}
		for _, u := range ctx.UnaryEdges(nts[i]) {
			o.admit(ctx, u)
		}
	}
}
