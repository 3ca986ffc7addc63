// Package grammar holds the probabilistic context-free grammar consumed by
// the chart parser. A Grammar is immutable once built and is shared by all
// parser goroutines.
package grammar

import (
	"fmt"
	"strings"

	"github.com/timvieira/bubs-parser-sub010/util"
)

const (
	NULL_SYMBOL       = "<null>"
	LEXICON_DELIMITER = "===== LEXICON ====="
	RULE_ARROW        = "=>"
	UNKNOWN_WORD      = "UNK"
)

type Kind byte

const (
	BINARY Kind = iota
	UNARY
	LEXICAL
)

func (k Kind) String() string {
	switch k {
	case BINARY:
		return "binary"
	case UNARY:
		return "unary"
	case LEXICAL:
		return "lexical"
	}
	return "unknown"
}

// Production is a rule with its log probability. For lexical productions
// Left holds the word index; Right is -1 for unary and lexical productions.
type Production struct {
	ID                  int
	Parent, Left, Right int
	Prob                float64
	Kind                Kind
}

func (p *Production) IsBinary() bool  { return p.Kind == BINARY }
func (p *Production) IsUnary() bool   { return p.Kind == UNARY }
func (p *Production) IsLexical() bool { return p.Kind == LEXICAL }

// Format renders the production with symbol names, in grammar file syntax.
func (p *Production) Format(g Interface) string {
	var rhs string
	switch p.Kind {
	case BINARY:
		rhs = g.NonTermName(p.Left) + " " + g.NonTermName(p.Right)
	case UNARY:
		rhs = g.NonTermName(p.Left)
	case LEXICAL:
		rhs = g.WordName(p.Left)
	}
	return fmt.Sprintf("%s %s %s %v", g.NonTermName(p.Parent), RULE_ARROW, rhs, p.Prob)
}

func (p *Production) String() string {
	return fmt.Sprintf("%d:%v(%d -> %d %d; %v)", p.ID, p.Kind, p.Parent, p.Left, p.Right, p.Prob)
}

// Interface is what the parsing core needs from a grammar.
type Interface interface {
	NumNonTerms() int
	StartSymbol() int
	NullSymbol() int
	NonTermName(nt int) string
	NonTermIndex(name string) (int, bool)

	NumWords() int
	WordIndex(word string) (int, bool)
	WordName(word int) string

	LexicalProductions(word int) []*Production
	UnaryProductions(child int) []*Production
	BinaryProductions(left, right int) []*Production
	Productions() []*Production

	IsFactored(nt int) bool
	IsPOS(nt int) bool
	POSSet() []int
}

type pair [2]int

type Grammar struct {
	NonTerms *util.EnumSet
	Words    *util.EnumSet
	Start    int
	Null     int

	productions []*Production
	lexical     [][]*Production
	unary       [][]*Production
	binary      map[pair][]*Production
	factored    []bool
	pos         []bool
	posList     []int
}

var _ Interface = &Grammar{}

func (g *Grammar) NumNonTerms() int { return g.NonTerms.Len() }
func (g *Grammar) StartSymbol() int { return g.Start }
func (g *Grammar) NullSymbol() int  { return g.Null }
func (g *Grammar) NumWords() int    { return g.Words.Len() }

func (g *Grammar) NonTermName(nt int) string {
	return g.NonTerms.ValueOf(nt)
}

func (g *Grammar) NonTermIndex(name string) (int, bool) {
	return g.NonTerms.IndexOf(name)
}

func (g *Grammar) WordIndex(word string) (int, bool) {
	return g.Words.IndexOf(word)
}

func (g *Grammar) WordName(word int) string {
	return g.Words.ValueOf(word)
}

func (g *Grammar) LexicalProductions(word int) []*Production {
	if word < 0 || word >= len(g.lexical) {
		return nil
	}
	return g.lexical[word]
}

func (g *Grammar) UnaryProductions(child int) []*Production {
	return g.unary[child]
}

func (g *Grammar) BinaryProductions(left, right int) []*Production {
	return g.binary[pair{left, right}]
}

func (g *Grammar) Productions() []*Production {
	return g.productions
}

func (g *Grammar) IsFactored(nt int) bool {
	return g.factored[nt]
}

func (g *Grammar) IsPOS(nt int) bool {
	return g.pos[nt]
}

func (g *Grammar) POSSet() []int {
	return g.posList
}

func (g *Grammar) String() string {
	var (
		binaries, unaries, lexicals int
	)
	for _, p := range g.productions {
		switch p.Kind {
		case BINARY:
			binaries++
		case UNARY:
			unaries++
		case LEXICAL:
			lexicals++
		}
	}
	return fmt.Sprintf("Grammar [start=%s nonterminals=%d pos=%d words=%d binary=%d unary=%d lexical=%d]",
		g.NonTermName(g.Start), g.NumNonTerms(), len(g.posList), g.NumWords(), binaries, unaries, lexicals)
}

// IsFactoredName reports whether a nonterminal name denotes a symbol
// introduced by binarization (e.g. "@NP" or "NP|<DT-JJ>").
func IsFactoredName(name string) bool {
	return strings.HasPrefix(name, "@") || strings.Contains(name, "|")
}
