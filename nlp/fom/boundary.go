package fom

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/timvieira/bubs-parser-sub010/nlp/grammar"
	"github.com/timvieira/bubs-parser-sub010/nlp/types"
	"github.com/timvieira/bubs-parser-sub010/util"
	"github.com/timvieira/bubs-parser-sub010/util/conf"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// BoundaryModel holds the trained tables of the boundary-in-out FOM: left
// boundary P(nt | pos), right boundary P(pos | nt) and POS transitions
// P(pos | previous pos). Tag 0 is the sentence boundary symbol.
type BoundaryModel struct {
	Grammar grammar.Interface

	tags     []int
	tagIndex []int

	// [tag][nt]
	leftBoundary  [][]float64
	rightBoundary [][]float64
	// [tag][history tag]
	transition [][]float64
}

var _ Model = &BoundaryModel{}

// NewBoundaryModel returns a model over the grammar's POS set with every
// table entry -Inf.
func NewBoundaryModel(g grammar.Interface) *BoundaryModel {
	m := &BoundaryModel{Grammar: g}
	m.tags = append([]int{g.NullSymbol()}, g.POSSet()...)
	m.tagIndex = make([]int, g.NumNonTerms())
	for i := range m.tagIndex {
		m.tagIndex[i] = -1
	}
	for i, tag := range m.tags {
		m.tagIndex[tag] = i
	}
	m.leftBoundary = util.NegInfMatrix(len(m.tags), g.NumNonTerms())
	m.rightBoundary = util.NegInfMatrix(len(m.tags), g.NumNonTerms())
	m.transition = util.NegInfMatrix(len(m.tags), len(m.tags))
	return m
}

func (m *BoundaryModel) Name() string {
	return "boundary"
}

func (m *BoundaryModel) NewFOM() FigureOfMerit {
	return &BoundaryInOut{Model: m}
}

// Tags are the POS nonterminals the model ranges over, boundary first.
func (m *BoundaryModel) Tags() []int {
	return m.tags
}

func (m *BoundaryModel) tag(pos int) int {
	if pos < 0 || pos >= len(m.tagIndex) || m.tagIndex[pos] < 0 {
		panic(fmt.Sprintf("Nonterminal %d is not a part of speech", pos))
	}
	return m.tagIndex[pos]
}

func (m *BoundaryModel) IsTag(nt int) bool {
	return nt >= 0 && nt < len(m.tagIndex) && m.tagIndex[nt] >= 0
}

// LeftBoundaryLogProb is log P(nt | pos), pos immediately left of the span.
func (m *BoundaryModel) LeftBoundaryLogProb(nt, pos int) float64 {
	return m.leftBoundary[m.tag(pos)][nt]
}

// RightBoundaryLogProb is log P(pos | nt), pos immediately right of the span.
func (m *BoundaryModel) RightBoundaryLogProb(pos, nt int) float64 {
	return m.rightBoundary[m.tag(pos)][nt]
}

// TransitionLogProb is log P(pos | hist).
func (m *BoundaryModel) TransitionLogProb(pos, hist int) float64 {
	return m.transition[m.tag(pos)][m.tag(hist)]
}

func (m *BoundaryModel) SetLeftBoundary(nt, pos int, logProb float64) {
	m.leftBoundary[m.tag(pos)][nt] = logProb
}

func (m *BoundaryModel) SetRightBoundary(pos, nt int, logProb float64) {
	m.rightBoundary[m.tag(pos)][nt] = logProb
}

func (m *BoundaryModel) SetTransition(pos, hist int, logProb float64) {
	m.transition[m.tag(pos)][m.tag(hist)] = logProb
}

// ReadBoundaryModel parses lines of the form
//
//	LB <nt> | <pos> <logprob>
//	RB <pos> | <nt> <logprob>
//	PN <pos> | <histpos> <logprob>
//
// Entries naming symbols the grammar does not know are skipped.
func ReadBoundaryModel(c *conf.Conf, g grammar.Interface) (*BoundaryModel, error) {
	m := NewBoundaryModel(g)
	var skipped int
	for _, line := range c.Lines {
		fields := line.Fields()
		if len(fields) != 5 || fields[2] != "|" {
			return nil, c.Errorf(line, "expected '<type> <symbol> | <symbol> <logprob>'")
		}
		prob, err := parseLogProb(fields[4])
		if err != nil {
			return nil, c.Errorf(line, "%v", err)
		}
		first, firstExists := g.NonTermIndex(fields[1])
		second, secondExists := g.NonTermIndex(fields[3])
		if !firstExists || !secondExists {
			skipped++
			glog.V(1).Infof("%s:%d: skipping unknown symbol in %q", c.Source, line.Num, line.Text)
			continue
		}
		var (
			pos int
			set func()
		)
		switch fields[0] {
		case "LB":
			pos = second
			set = func() { m.SetLeftBoundary(first, second, prob) }
		case "RB":
			pos = first
			set = func() { m.SetRightBoundary(first, second, prob) }
		case "PN":
			if !m.IsTag(first) || !m.IsTag(second) {
				return nil, c.Errorf(line, "transition between non-POS symbols")
			}
			pos = first
			set = func() { m.SetTransition(first, second, prob) }
		default:
			return nil, c.Errorf(line, "unknown entry type %q", fields[0])
		}
		if !m.IsTag(pos) {
			return nil, c.Errorf(line, "%s is not a part of speech", g.NonTermName(pos))
		}
		set()
	}
	if skipped > 0 {
		glog.Warningf("%s: skipped %d entries with symbols unknown to the grammar", c.Source, skipped)
	}
	return m, nil
}

// WriteTo serializes the finite entries of the model in the format read by
// ReadBoundaryModel.
func (m *BoundaryModel) WriteTo(writer io.Writer) (int64, error) {
	w := &countingWriter{w: bufio.NewWriter(writer)}
	g := m.Grammar
	fmt.Fprintf(w, "# model=FOM type=BoundaryInOut tags=%d nonterminals=%d\n", len(m.tags), g.NumNonTerms())
	for i, row := range m.leftBoundary {
		for nt, prob := range row {
			if prob > util.NegInf {
				fmt.Fprintf(w, "LB %s | %s %s\n", g.NonTermName(nt), g.NonTermName(m.tags[i]), formatLogProb(prob))
			}
		}
	}
	for i, row := range m.rightBoundary {
		for nt, prob := range row {
			if prob > util.NegInf {
				fmt.Fprintf(w, "RB %s | %s %s\n", g.NonTermName(m.tags[i]), g.NonTermName(nt), formatLogProb(prob))
			}
		}
	}
	for i, row := range m.transition {
		for hist, prob := range row {
			if prob > util.NegInf {
				fmt.Fprintf(w, "PN %s | %s %s\n", g.NonTermName(m.tags[i]), g.NonTermName(m.tags[hist]), formatLogProb(prob))
			}
		}
	}
	if err := w.w.Flush(); err != nil {
		return w.n, errors.Wrap(err, "writing boundary model")
	}
	return w.n, w.err
}

func formatLogProb(prob float64) string {
	return strconv.FormatFloat(prob, 'g', -1, 64)
}

type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	if err != nil && c.err == nil {
		c.err = errors.Wrap(err, "writing boundary model")
	}
	return n, err
}

// BoundaryInOut estimates the outside score of an edge from the best POS
// tags at its boundaries, found by a max-product forward-backward pass over
// the tags the grammar allows for each token.
type BoundaryInOut struct {
	Model *BoundaryModel

	n int
	// per padded position 0..n+1: candidate tag indices, emission log
	// probabilities, forward and backward scores, forward backpointers
	candidates [][]int
	emission   [][]float64
	fwd, bkw   [][]float64
	backptr    [][]int

	outsideLeft, outsideRight [][]float64
	tags                      []int
}

var _ FigureOfMerit = &BoundaryInOut{}

func (f *BoundaryInOut) InitSentence(sent *types.Sentence) {
	m := f.Model
	g := m.Grammar
	f.n = sent.Len()
	size := f.n + 2
	f.candidates = make([][]int, size)
	f.emission = make([][]float64, size)
	f.candidates[0], f.emission[0] = []int{0}, []float64{0}
	f.candidates[size-1], f.emission[size-1] = []int{0}, []float64{0}
	for i := 0; i < f.n; i++ {
		var (
			cands []int
			emit  []float64
		)
		for _, p := range g.LexicalProductions(sent.Word(i)) {
			if !m.IsTag(p.Parent) {
				continue
			}
			tag := m.tagIndex[p.Parent]
			found := false
			for j, c := range cands {
				if c == tag {
					emit[j] = max(emit[j], p.Prob)
					found = true
				}
			}
			if !found {
				cands = append(cands, tag)
				emit = append(emit, p.Prob)
			}
		}
		f.candidates[i+1], f.emission[i+1] = cands, emit
	}
	f.forward()
	f.backward()
	f.fillOutside()
	f.traceTags()
}

func (f *BoundaryInOut) forward() {
	m := f.Model
	size := f.n + 2
	f.fwd = make([][]float64, size)
	f.backptr = make([][]int, size)
	f.fwd[0], f.backptr[0] = []float64{0}, []int{-1}
	for i := 1; i < size; i++ {
		cands := f.candidates[i]
		f.fwd[i] = make([]float64, len(cands))
		f.backptr[i] = make([]int, len(cands))
		for j, tag := range cands {
			best, bestPrev := util.NegInf, -1
			for k, hist := range f.candidates[i-1] {
				score := f.fwd[i-1][k] + m.transition[tag][hist]
				if bestPrev < 0 || score > best {
					best, bestPrev = score, k
				}
			}
			f.fwd[i][j] = best + f.emission[i][j]
			f.backptr[i][j] = bestPrev
		}
	}
}

func (f *BoundaryInOut) backward() {
	m := f.Model
	size := f.n + 2
	f.bkw = make([][]float64, size)
	f.bkw[size-1] = []float64{0}
	for i := size - 2; i >= 0; i-- {
		cands := f.candidates[i]
		f.bkw[i] = make([]float64, len(cands))
		for j, tag := range cands {
			best := util.NegInf
			for k, next := range f.candidates[i+1] {
				best = max(best, m.transition[next][tag]+f.bkw[i+1][k])
			}
			f.bkw[i][j] = best + f.emission[i][j]
		}
	}
}

func (f *BoundaryInOut) fillOutside() {
	m := f.Model
	numNonTerms := m.Grammar.NumNonTerms()
	f.outsideLeft = util.NegInfMatrix(f.n+1, numNonTerms)
	f.outsideRight = util.NegInfMatrix(f.n+1, numNonTerms)
	// left context of a span starting at start is padded position start
	for start := 0; start < f.n; start++ {
		row := f.outsideLeft[start]
		for j, tag := range f.candidates[start] {
			fwd := f.fwd[start][j]
			if fwd == util.NegInf {
				continue
			}
			for nt, lb := range m.leftBoundary[tag] {
				row[nt] = max(row[nt], fwd+lb)
			}
		}
	}
	// right context of a span ending at end is padded position end+1
	for end := 1; end <= f.n; end++ {
		row := f.outsideRight[end]
		for j, tag := range f.candidates[end+1] {
			bkw := f.bkw[end+1][j]
			if bkw == util.NegInf {
				continue
			}
			for nt, rb := range m.rightBoundary[tag] {
				row[nt] = max(row[nt], rb+bkw)
			}
		}
	}
}

func (f *BoundaryInOut) traceTags() {
	f.tags = make([]int, f.n)
	j := 0
	for i := f.n + 1; i > 1; i-- {
		j = f.backptr[i][j]
		if j < 0 {
			// no tag candidates at position i-1
			for k := i - 2; k >= 0; k-- {
				f.tags[k] = -1
			}
			return
		}
		f.tags[i-2] = f.Model.tags[f.candidates[i-1][j]]
	}
}

// Tags is the 1-best POS sequence of the sentence; -1 marks tokens
// without a part of speech in the grammar.
func (f *BoundaryInOut) Tags() []int {
	return f.tags
}

func (f *BoundaryInOut) OutsideLeft(start, nt int) float64 {
	return f.outsideLeft[start][nt]
}

func (f *BoundaryInOut) OutsideRight(end, nt int) float64 {
	return f.outsideRight[end][nt]
}

func (f *BoundaryInOut) Score(start, end, nt int, inside float64) float64 {
	return inside + f.outsideLeft[start][nt] + f.outsideRight[end][nt]
}

func (f *BoundaryInOut) ScoreLexical(start, end, nt int, inside float64) float64 {
	return inside
}
