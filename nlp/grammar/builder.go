package grammar

import (
	"sort"

	"github.com/timvieira/bubs-parser-sub010/util"

	"github.com/pkg/errors"
)

// Builder accumulates productions; Build indexes them into an immutable
// Grammar.
type Builder struct {
	start       string
	nonTerms    *util.EnumSet
	words       *util.EnumSet
	productions []*Production
}

func NewBuilder(start string) *Builder {
	b := &Builder{
		start:    start,
		nonTerms: util.NewEnumSet(64),
		words:    util.NewEnumSet(1024),
	}
	b.nonTerms.Add(NULL_SYMBOL)
	b.nonTerms.Add(start)
	return b
}

func (b *Builder) add(p *Production) error {
	if util.IsDegenerate(p.Prob) {
		return errors.Errorf("degenerate log probability %v", p.Prob)
	}
	p.ID = len(b.productions)
	b.productions = append(b.productions, p)
	return nil
}

func (b *Builder) nonTerm(name string) (int, error) {
	if name == NULL_SYMBOL {
		return 0, errors.Errorf("%s may not appear in a production", NULL_SYMBOL)
	}
	nt, _ := b.nonTerms.Add(name)
	return nt, nil
}

func (b *Builder) AddBinary(parent, left, right string, prob float64) error {
	ids := make([]int, 3)
	for i, name := range []string{parent, left, right} {
		nt, err := b.nonTerm(name)
		if err != nil {
			return err
		}
		ids[i] = nt
	}
	return b.add(&Production{Parent: ids[0], Left: ids[1], Right: ids[2], Prob: prob, Kind: BINARY})
}

func (b *Builder) AddUnary(parent, child string, prob float64) error {
	p, err := b.nonTerm(parent)
	if err != nil {
		return err
	}
	c, err := b.nonTerm(child)
	if err != nil {
		return err
	}
	if p == c {
		return errors.Errorf("unary self-loop %s => %s", parent, child)
	}
	return b.add(&Production{Parent: p, Left: c, Right: -1, Prob: prob, Kind: UNARY})
}

func (b *Builder) AddLexical(parent, word string, prob float64) error {
	p, err := b.nonTerm(parent)
	if err != nil {
		return err
	}
	w, _ := b.words.Add(word)
	return b.add(&Production{Parent: p, Left: w, Right: -1, Prob: prob, Kind: LEXICAL})
}

func (b *Builder) Build() (*Grammar, error) {
	b.nonTerms.Freeze()
	b.words.Freeze()
	numNT, numWords := b.nonTerms.Len(), b.words.Len()
	g := &Grammar{
		NonTerms:    b.nonTerms,
		Words:       b.words,
		Start:       1,
		Null:        0,
		productions: b.productions,
		lexical:     make([][]*Production, numWords),
		unary:       make([][]*Production, numNT),
		binary:      make(map[pair][]*Production),
		factored:    make([]bool, numNT),
		pos:         make([]bool, numNT),
	}
	for nt, name := range g.NonTerms.Index {
		g.factored[nt] = IsFactoredName(name)
	}
	if g.factored[g.Start] {
		return nil, errors.Errorf("start symbol %s is a factored symbol", b.start)
	}
	for _, p := range b.productions {
		switch p.Kind {
		case LEXICAL:
			g.lexical[p.Left] = append(g.lexical[p.Left], p)
			g.pos[p.Parent] = true
		case UNARY:
			g.unary[p.Left] = append(g.unary[p.Left], p)
		case BINARY:
			key := pair{p.Left, p.Right}
			g.binary[key] = append(g.binary[key], p)
		}
	}
	for nt, isPOS := range g.pos {
		if isPOS {
			g.posList = append(g.posList, nt)
		}
	}
	sort.Ints(g.posList)
	return g, nil
}
