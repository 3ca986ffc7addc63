// Package fom implements figure-of-merit models ranking candidate edges
// within a chart cell. A Model holds immutable trained parameters shared by
// all parsers; each parser owns a FigureOfMerit with per-sentence tables.
package fom

import (
	"fmt"
	"strconv"

	"github.com/timvieira/bubs-parser-sub010/nlp/grammar"
	"github.com/timvieira/bubs-parser-sub010/nlp/types"
	"github.com/timvieira/bubs-parser-sub010/util"
	"github.com/timvieira/bubs-parser-sub010/util/conf"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

type Model interface {
	Name() string
	NewFOM() FigureOfMerit
}

// FigureOfMerit scores edges of one sentence at a time. Scoring must not
// change the result of later calls with the same arguments.
type FigureOfMerit interface {
	InitSentence(sent *types.Sentence)
	Score(start, end, nt int, inside float64) float64
	ScoreLexical(start, end, nt int, inside float64) float64
}

// Inside ranks edges by their inside score alone.
type Inside struct{}

var _ Model = Inside{}

func (Inside) Name() string                 { return "inside" }
func (Inside) NewFOM() FigureOfMerit        { return Inside{} }
func (Inside) InitSentence(*types.Sentence) {}

func (Inside) Score(start, end, nt int, inside float64) float64 {
	return inside
}

func (Inside) ScoreLexical(start, end, nt int, inside float64) float64 {
	return inside
}

// NormalizedInside adds Tuning per word of span to offset the bias of
// inside scores toward short spans.
type NormalizedInside struct {
	Tuning float64
}

func (m NormalizedInside) Name() string                 { return fmt.Sprintf("normalized(%v)", m.Tuning) }
func (m NormalizedInside) NewFOM() FigureOfMerit        { return m }
func (m NormalizedInside) InitSentence(*types.Sentence) {}

func (m NormalizedInside) Score(start, end, nt int, inside float64) float64 {
	return inside + float64(end-start)*m.Tuning
}

func (m NormalizedInside) ScoreLexical(start, end, nt int, inside float64) float64 {
	return m.Score(start, end, nt, inside)
}

// Prior is NormalizedInside plus a static log prior per nonterminal.
// Nonterminals absent from the model file have a prior of -Inf.
type Prior struct {
	NormalizedInside
	LogPrior []float64
}

func (m *Prior) Name() string                 { return fmt.Sprintf("prior(%v)", m.Tuning) }
func (m *Prior) NewFOM() FigureOfMerit        { return m }
func (m *Prior) InitSentence(*types.Sentence) {}

func (m *Prior) Score(start, end, nt int, inside float64) float64 {
	return m.NormalizedInside.Score(start, end, nt, inside) + m.LogPrior[nt]
}

func (m *Prior) ScoreLexical(start, end, nt int, inside float64) float64 {
	return m.Score(start, end, nt, inside)
}

// ReadPrior reads "<nonterminal> <logprob>" lines.
func ReadPrior(c *conf.Conf, g grammar.Interface, tuning float64) (*Prior, error) {
	m := &Prior{NormalizedInside{tuning}, make([]float64, g.NumNonTerms())}
	util.FillNegInf(m.LogPrior)
	for _, line := range c.Lines {
		fields := line.Fields()
		if len(fields) != 2 {
			return nil, c.Errorf(line, "expected '<nonterminal> <logprob>'")
		}
		prob, err := parseLogProb(fields[1])
		if err != nil {
			return nil, c.Errorf(line, "%v", err)
		}
		nt, exists := g.NonTermIndex(fields[0])
		if !exists {
			glog.Warningf("%s:%d: skipping unknown nonterminal %s", c.Source, line.Num, fields[0])
			continue
		}
		m.LogPrior[nt] = prob
	}
	return m, nil
}

func parseLogProb(s string) (float64, error) {
	prob, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Errorf("bad log probability %q", s)
	}
	if util.IsDegenerate(prob) {
		return 0, errors.Errorf("degenerate log probability %q", s)
	}
	return prob, nil
}
