package fom

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/timvieira/bubs-parser-sub010/nlp/grammar"
	"github.com/timvieira/bubs-parser-sub010/nlp/types"
	"github.com/timvieira/bubs-parser-sub010/util/conf"

	"github.com/pkg/errors"
)

const FOM_GRAMMAR = `start=S
S => X Y 0
S => X X 0
S => P 0
===== LEXICON =====
X => a -1
Y => a -0.1
P => b 0
`

const BOUNDARY_MODEL = `# model=FOM type=BoundaryInOut
LB S | <null> -0.5
LB P | <null> -0.25
LB S | X -0.5
LB S | Y -0.1
RB <null> | S -0.1
RB X | S -2
RB Y | S -1
PN P | <null> -1
PN <null> | P -2
PN X | <null> 0
PN Y | <null> -5
PN <null> | X 0
PN <null> | Y 0
PN X | X -1
PN Y | X -3
PN X | Y -1
PN Y | Y -1
LB S | UNSEEN -3
`

func fomGrammar(t *testing.T) *grammar.Grammar {
	g, err := grammar.Read(strings.NewReader(FOM_GRAMMAR), "fom")
	if err != nil {
		t.Fatalf("Failed to read grammar: %v", err)
	}
	return g
}

func readConf(t *testing.T, text string) *conf.Conf {
	c, err := conf.Read(strings.NewReader(text), "test")
	if err != nil {
		t.Fatalf("Failed to read conf: %v", err)
	}
	return c
}

func sentence(g grammar.Interface, tokens ...string) *types.Sentence {
	words := make([]int, len(tokens))
	for i, token := range tokens {
		words[i], _ = g.WordIndex(token)
	}
	return types.NewSentence(tokens, words)
}

func nt(g grammar.Interface, name string) int {
	i, exists := g.NonTermIndex(name)
	if !exists {
		panic("unknown nonterminal " + name)
	}
	return i
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func boundaryModel(t *testing.T, g grammar.Interface) *BoundaryModel {
	m, err := ReadBoundaryModel(readConf(t, BOUNDARY_MODEL), g)
	if err != nil {
		t.Fatalf("Failed to read boundary model: %v", err)
	}
	return m
}

func TestInsideModels(t *testing.T) {
	g := fomGrammar(t)
	s := nt(g, "S")
	if score := (Inside{}).NewFOM().Score(0, 3, s, -2); score != -2 {
		t.Errorf("Inside: expected -2 got %v", score)
	}
	if score := (NormalizedInside{0.5}).NewFOM().Score(0, 3, s, -2); score != -0.5 {
		t.Errorf("NormalizedInside: expected -0.5 got %v", score)
	}
	prior, err := ReadPrior(readConf(t, "S -1\nX -2\nUNKNOWN -3\n"), g, 0.5)
	if err != nil {
		t.Fatalf("Failed to read prior: %v", err)
	}
	f := prior.NewFOM()
	if score := f.Score(0, 3, s, -2); score != -1.5 {
		t.Errorf("Prior: expected -1.5 got %v", score)
	}
	if score := f.Score(0, 3, nt(g, "Y"), -2); !math.IsInf(score, -1) {
		t.Errorf("Prior: expected -Inf for a nonterminal without prior, got %v", score)
	}
}

func TestBoundarySingleToken(t *testing.T) {
	g := fomGrammar(t)
	m := boundaryModel(t, g)
	s, p := nt(g, "S"), nt(g, "P")
	f := m.NewFOM().(*BoundaryInOut)
	f.InitSentence(sentence(g, "b"))
	if f.OutsideLeft(0, s) != m.LeftBoundaryLogProb(s, g.NullSymbol()) {
		t.Errorf("Expected outside left %v got %v", m.LeftBoundaryLogProb(s, g.NullSymbol()), f.OutsideLeft(0, s))
	}
	if f.OutsideLeft(0, s) != -0.5 {
		t.Errorf("Expected outside left -0.5 got %v", f.OutsideLeft(0, s))
	}
	if f.OutsideRight(1, s) != -0.1 {
		t.Errorf("Expected outside right -0.1 got %v", f.OutsideRight(1, s))
	}
	if tags := f.Tags(); len(tags) != 1 || tags[0] != p {
		t.Errorf("Expected tags [%d] got %v", p, tags)
	}
	score := f.Score(0, 1, s, -1)
	if !closeTo(score, -1.6) {
		t.Errorf("Expected score -1.6 got %v", score)
	}
	if again := f.Score(0, 1, s, -1); again != score {
		t.Errorf("Score is not idempotent: %v then %v", score, again)
	}
	if f.ScoreLexical(0, 1, p, -0.3) != -0.3 {
		t.Errorf("Lexical edges should score their inside probability")
	}
}

func TestBoundaryForwardBackward(t *testing.T) {
	g := fomGrammar(t)
	m := boundaryModel(t, g)
	s, x := nt(g, "S"), nt(g, "X")
	f := m.NewFOM().(*BoundaryInOut)
	f.InitSentence(sentence(g, "a", "a"))
	// fwd[1] = {X: -1, Y: -5.1}
	if !closeTo(f.OutsideLeft(1, s), -1.5) {
		t.Errorf("Expected outside left -1.5 got %v", f.OutsideLeft(1, s))
	}
	// bkw[2] = {X: -1, Y: -0.1}
	if !closeTo(f.OutsideRight(1, s), -1.1) {
		t.Errorf("Expected outside right -1.1 got %v", f.OutsideRight(1, s))
	}
	if tags := f.Tags(); len(tags) != 2 || tags[0] != x || tags[1] != x {
		t.Errorf("Expected tags [X X] got %v", tags)
	}
	// no right boundary entry for a span ending at the sentence end
	if !closeTo(f.OutsideRight(2, s), -0.1) {
		t.Errorf("Expected outside right -0.1 got %v", f.OutsideRight(2, s))
	}
}

func TestBoundaryRoundTrip(t *testing.T) {
	g := fomGrammar(t)
	m := boundaryModel(t, g)
	m.SetTransition(nt(g, "P"), nt(g, "P"), -0.12345678901234567)
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("Failed to write model: %v", err)
	}
	m2, err := ReadBoundaryModel(readConf(t, buf.String()), g)
	if err != nil {
		t.Fatalf("Failed to re-read model: %v\n%s", err, buf.String())
	}
	for _, pos := range m.Tags() {
		for n := 0; n < g.NumNonTerms(); n++ {
			if m.LeftBoundaryLogProb(n, pos) != m2.LeftBoundaryLogProb(n, pos) {
				t.Errorf("LB %d|%d differs", n, pos)
			}
			if m.RightBoundaryLogProb(pos, n) != m2.RightBoundaryLogProb(pos, n) {
				t.Errorf("RB %d|%d differs", pos, n)
			}
		}
		for _, hist := range m.Tags() {
			if m.TransitionLogProb(pos, hist) != m2.TransitionLogProb(pos, hist) {
				t.Errorf("PN %d|%d differs", pos, hist)
			}
		}
	}
}

func TestBoundaryMalformed(t *testing.T) {
	g := fomGrammar(t)
	for _, text := range []string{
		"LB S <null> -1\n",
		"LB S | <null> abc\n",
		"XX S | <null> -1\n",
		"LB S | S -1\n",
		"PN S | X -1\n",
		"LB S | <null> NaN\n",
	} {
		_, err := ReadBoundaryModel(readConf(t, text), g)
		var formatErr *conf.FormatError
		if !errors.As(err, &formatErr) {
			t.Errorf("Expected FormatError for %q, got %v", text, err)
		}
	}
}

const LEXICAL_MODEL = `CL a c1
CL b c2
LB S | <null> -0.5
LB S | c1 -0.7
RB c2 | S -0.2
RB <null> | S -0.3
UNK LB S -4
UNK RB S -5
`

func TestLexicalBoundary(t *testing.T) {
	g := fomGrammar(t)
	m, err := ReadLexicalBoundaryModel(readConf(t, LEXICAL_MODEL), g)
	if err != nil {
		t.Fatalf("Failed to read model: %v", err)
	}
	s := nt(g, "S")
	f := m.NewFOM()
	f.InitSentence(sentence(g, "a", "b", "a"))
	cases := []struct {
		start, end int
		expected   float64
	}{
		// <null> left, b right
		{0, 1, -1 + -0.5 + -0.2},
		// a left, a right: RB c1|S unseen
		{1, 2, -1 + -0.7 + -5},
		// b left unseen, <null> right
		{2, 3, -1 + -4 + -0.3},
		{0, 3, -1 + -0.5 + -0.3},
	}
	for _, c := range cases {
		if score := f.Score(c.start, c.end, s, -1); !closeTo(score, c.expected) {
			t.Errorf("Score(%d,%d): expected %v got %v", c.start, c.end, c.expected, score)
		}
	}
	if _, err := ReadLexicalBoundaryModel(readConf(t, "CL a\n"), g); err == nil {
		t.Errorf("Expected error for a malformed cluster line")
	}
}

const DISCRIMINATIVE_MODEL = `
link: linear
features: [bias, span, lpos, rword, ratio]
weights:
  - {feature: bias, nonterminal: S, weight: 0.5}
  - {feature: span=2, nonterminal: S, weight: -1}
  - {feature: lpos=<null>, nonterminal: S, weight: 0.25}
  - {feature: rword=<null>, nonterminal: S, weight: 2}
  - {feature: ratio=end, nonterminal: S, weight: 1}
  - {feature: bias, nonterminal: X, weight: 3}
  - {feature: bias, nonterminal: UNKNOWN, weight: 3}
`

func TestDiscriminative(t *testing.T) {
	g := fomGrammar(t)
	setup, err := LoadDiscriminativeConf([]byte(DISCRIMINATIVE_MODEL))
	if err != nil {
		t.Fatalf("Failed to parse model: %v", err)
	}
	m, err := NewDiscriminativeModel(setup, g, boundaryModel(t, g))
	if err != nil {
		t.Fatalf("Failed to build model: %v", err)
	}
	s, x := nt(g, "S"), nt(g, "X")
	f := m.NewFOM()
	f.InitSentence(sentence(g, "a", "a"))
	// bias + span=2 + lpos=<null> + rword=<null> + 1.0*ratio=end
	expected := -1 + 0.5 - 1 + 0.25 + 2 + 1
	if score := f.Score(0, 2, s, -1); !closeTo(score, expected) {
		t.Errorf("Expected %v got %v", expected, score)
	}
	if score := f.Score(0, 2, x, -1); !closeTo(score, 2) {
		t.Errorf("Expected 2 got %v", score)
	}
	// lpos=X, rword=<null>, ratio=end 1, span=1 unweighted
	expected = -1 + 0.5 + 2 + 1
	if score := f.Score(1, 2, s, -1); !closeTo(score, expected) {
		t.Errorf("Expected %v got %v", expected, score)
	}
	if again := f.Score(0, 2, s, -1); !closeTo(again, -1+0.5-1+0.25+2+1) {
		t.Errorf("Score changed after scoring another cell: %v", again)
	}
}

func TestDiscriminativeErrors(t *testing.T) {
	g := fomGrammar(t)
	for _, text := range []string{
		"link: probit\nfeatures: [bias]\nweights: [{feature: bias, nonterminal: S, weight: 1}]\n",
		"features: [nope]\nweights: [{feature: bias, nonterminal: S, weight: 1}]\n",
		"features: [lpos]\nweights: [{feature: bias, nonterminal: S, weight: 1}]\n",
		"features: [bias]\n",
	} {
		setup, err := LoadDiscriminativeConf([]byte(text))
		if err != nil {
			t.Errorf("Failed to parse %q: %v", text, err)
			continue
		}
		if _, err := NewDiscriminativeModel(setup, g, nil); err == nil {
			t.Errorf("Expected error building %q", text)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	if (Config{Type: BOUNDARY}).Validate() == nil {
		t.Errorf("Boundary FOM without a model should not validate")
	}
	if (Config{Type: "bogus"}).Validate() == nil {
		t.Errorf("Unknown FOM type should not validate")
	}
	if err := (Config{Type: INSIDE}).Validate(); err != nil {
		t.Errorf("Got error %v", err)
	}
}
