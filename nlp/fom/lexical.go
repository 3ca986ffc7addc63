package fom

import (
	"github.com/timvieira/bubs-parser-sub010/nlp/grammar"
	"github.com/timvieira/bubs-parser-sub010/nlp/types"
	"github.com/timvieira/bubs-parser-sub010/util"
	"github.com/timvieira/bubs-parser-sub010/util/conf"

	"github.com/golang/glog"
)

// LexicalBoundaryModel conditions boundary probabilities on word clusters
// instead of POS tags. Unseen (cluster, nonterminal) pairs and words
// without a cluster fall back to the UNK tables.
type LexicalBoundaryModel struct {
	Grammar  grammar.Interface
	Clusters *util.EnumSet

	wordCluster map[string]int
	// [cluster][nt], rows allocated on first entry
	leftBoundary  [][]float64
	rightBoundary [][]float64
	unkLeft       []float64
	unkRight      []float64
}

var _ Model = &LexicalBoundaryModel{}

func (m *LexicalBoundaryModel) Name() string {
	return "lexical"
}

func (m *LexicalBoundaryModel) NewFOM() FigureOfMerit {
	return &LexicalBoundary{Model: m}
}

// Cluster returns the cluster of word; the sentence boundary has cluster 0.
func (m *LexicalBoundaryModel) Cluster(word string) (int, bool) {
	c, exists := m.wordCluster[word]
	return c, exists
}

func (m *LexicalBoundaryModel) cluster(name string) int {
	c, _ := m.Clusters.Add(name)
	for len(m.leftBoundary) <= c {
		m.leftBoundary = append(m.leftBoundary, nil)
		m.rightBoundary = append(m.rightBoundary, nil)
	}
	return c
}

func setEntry(rows [][]float64, row, col, size int, prob float64) {
	if rows[row] == nil {
		rows[row] = make([]float64, size)
		util.FillNegInf(rows[row])
	}
	rows[row][col] = prob
}

// LeftBoundaryLogProb is log P(nt | cluster) with UNK fallback.
func (m *LexicalBoundaryModel) LeftBoundaryLogProb(nt, cluster int) float64 {
	if cluster >= 0 && m.leftBoundary[cluster] != nil {
		if prob := m.leftBoundary[cluster][nt]; prob > util.NegInf {
			return prob
		}
	}
	return m.unkLeft[nt]
}

// RightBoundaryLogProb is log P(cluster | nt) with UNK fallback.
func (m *LexicalBoundaryModel) RightBoundaryLogProb(cluster, nt int) float64 {
	if cluster >= 0 && m.rightBoundary[cluster] != nil {
		if prob := m.rightBoundary[cluster][nt]; prob > util.NegInf {
			return prob
		}
	}
	return m.unkRight[nt]
}

// ReadLexicalBoundaryModel parses
//
//	CL <word> <cluster>
//	LB <nt> | <cluster> <logprob>
//	RB <cluster> | <nt> <logprob>
//	UNK LB <nt> <logprob>
//	UNK RB <nt> <logprob>
//
// The sentence boundary is cluster <null>.
func ReadLexicalBoundaryModel(c *conf.Conf, g grammar.Interface) (*LexicalBoundaryModel, error) {
	numNonTerms := g.NumNonTerms()
	m := &LexicalBoundaryModel{
		Grammar:     g,
		Clusters:    util.NewEnumSet(256),
		wordCluster: make(map[string]int),
		unkLeft:     make([]float64, numNonTerms),
		unkRight:    make([]float64, numNonTerms),
	}
	util.FillNegInf(m.unkLeft)
	util.FillNegInf(m.unkRight)
	m.cluster(grammar.NULL_SYMBOL)
	for _, line := range c.Lines {
		fields := line.Fields()
		switch {
		case len(fields) == 3 && fields[0] == "CL":
			m.wordCluster[fields[1]] = m.cluster(fields[2])
		case len(fields) == 4 && fields[0] == "UNK":
			prob, err := parseLogProb(fields[3])
			if err != nil {
				return nil, c.Errorf(line, "%v", err)
			}
			nt, exists := g.NonTermIndex(fields[2])
			if !exists {
				glog.Warningf("%s:%d: skipping unknown nonterminal %s", c.Source, line.Num, fields[2])
				continue
			}
			switch fields[1] {
			case "LB":
				m.unkLeft[nt] = prob
			case "RB":
				m.unkRight[nt] = prob
			default:
				return nil, c.Errorf(line, "unknown UNK entry type %q", fields[1])
			}
		case len(fields) == 5 && fields[2] == "|" && (fields[0] == "LB" || fields[0] == "RB"):
			prob, err := parseLogProb(fields[4])
			if err != nil {
				return nil, c.Errorf(line, "%v", err)
			}
			ntName, clusterName := fields[1], fields[3]
			if fields[0] == "RB" {
				ntName, clusterName = clusterName, ntName
			}
			nt, exists := g.NonTermIndex(ntName)
			if !exists {
				glog.Warningf("%s:%d: skipping unknown nonterminal %s", c.Source, line.Num, ntName)
				continue
			}
			cl := m.cluster(clusterName)
			if fields[0] == "LB" {
				setEntry(m.leftBoundary, cl, nt, numNonTerms, prob)
			} else {
				setEntry(m.rightBoundary, cl, nt, numNonTerms, prob)
			}
		default:
			return nil, c.Errorf(line, "malformed lexical boundary entry")
		}
	}
	m.Clusters.Freeze()
	return m, nil
}

// LexicalBoundary is the per-sentence state of the lexical boundary FOM.
type LexicalBoundary struct {
	Model *LexicalBoundaryModel

	n                         int
	outsideLeft, outsideRight [][]float64
}

var _ FigureOfMerit = &LexicalBoundary{}

// clusterAt returns the cluster of token i, -1 if it has none. Unknown
// tokens are looked up by their signature class.
func (f *LexicalBoundary) clusterAt(sent *types.Sentence, i int) int {
	if i < 0 || i >= sent.Len() {
		return 0
	}
	if c, exists := f.Model.Cluster(sent.Token(i)); exists {
		return c
	}
	if c, exists := f.Model.Cluster(f.Model.Grammar.WordName(sent.Word(i))); exists {
		return c
	}
	return -1
}

func (f *LexicalBoundary) InitSentence(sent *types.Sentence) {
	m := f.Model
	numNonTerms := m.Grammar.NumNonTerms()
	f.n = sent.Len()
	f.outsideLeft = util.NegInfMatrix(f.n+1, numNonTerms)
	f.outsideRight = util.NegInfMatrix(f.n+1, numNonTerms)
	for start := 0; start < f.n; start++ {
		cl := f.clusterAt(sent, start-1)
		for nt := 0; nt < numNonTerms; nt++ {
			f.outsideLeft[start][nt] = m.LeftBoundaryLogProb(nt, cl)
		}
	}
	for end := 1; end <= f.n; end++ {
		cl := f.clusterAt(sent, end)
		for nt := 0; nt < numNonTerms; nt++ {
			f.outsideRight[end][nt] = m.RightBoundaryLogProb(cl, nt)
		}
	}
}

func (f *LexicalBoundary) Score(start, end, nt int, inside float64) float64 {
	return inside + f.outsideLeft[start][nt] + f.outsideRight[end][nt]
}

func (f *LexicalBoundary) ScoreLexical(start, end, nt int, inside float64) float64 {
	return inside
}
