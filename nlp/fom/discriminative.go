package fom

import (
	"fmt"
	"io/ioutil"
	"math"

	"github.com/timvieira/bubs-parser-sub010/alg/featurevector"
	"github.com/timvieira/bubs-parser-sub010/alg/perceptron"
	"github.com/timvieira/bubs-parser-sub010/nlp/grammar"
	"github.com/timvieira/bubs-parser-sub010/nlp/types"
	"github.com/timvieira/bubs-parser-sub010/util"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v2"
)

const (
	MAX_SPAN_FEATURE = 10
	UNKNOWN_TAG      = "<unk>"
)

var TEMPLATES = map[string]bool{
	"bias":  true,
	"span":  true,
	"lpos":  true,
	"rpos":  true,
	"ipos":  true,
	"lword": true,
	"rword": true,
	"ratio": true,
}

type WeightEntry struct {
	Feature     string
	NonTerminal string `yaml:"nonterminal"`
	Weight      float64
}

type DiscriminativeSetup struct {
	Link     string
	Features []string
	Weights  []WeightEntry
}

func LoadDiscriminativeConf(data []byte) (*DiscriminativeSetup, error) {
	setup := new(DiscriminativeSetup)
	if err := yaml.Unmarshal(data, setup); err != nil {
		return nil, errors.Wrap(err, "parsing discriminative model")
	}
	return setup, nil
}

func LoadDiscriminativeConfFile(filename string) (*DiscriminativeSetup, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading discriminative model")
	}
	setup, err := LoadDiscriminativeConf(data)
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}
	return setup, nil
}

// DiscriminativeModel scores every nonterminal of a cell at once with a
// linear model over cell features. Boundary POS features come from the
// 1-best tags of an embedded boundary-in-out FOM.
type DiscriminativeModel struct {
	Grammar   grammar.Interface
	Boundary  *BoundaryModel
	Templates []string
	Features  *util.EnumSet
	Weights   *perceptron.LinearModel
}

var _ Model = &DiscriminativeModel{}

func NewDiscriminativeModel(setup *DiscriminativeSetup, g grammar.Interface, boundary *BoundaryModel) (*DiscriminativeModel, error) {
	link, known := perceptron.ParseLink(setup.Link)
	if !known {
		return nil, errors.Errorf("unknown link function %q", setup.Link)
	}
	if len(setup.Features) == 0 {
		return nil, errors.New("no feature templates")
	}
	m := &DiscriminativeModel{
		Grammar:   g,
		Boundary:  boundary,
		Templates: setup.Features,
		Features:  util.NewEnumSet(len(setup.Weights)),
	}
	for _, tmpl := range setup.Features {
		if !TEMPLATES[tmpl] {
			return nil, errors.Errorf("unknown feature template %q", tmpl)
		}
		if (tmpl == "lpos" || tmpl == "rpos" || tmpl == "ipos") && boundary == nil {
			return nil, errors.Errorf("feature template %s requires a boundary model", tmpl)
		}
	}
	for _, w := range setup.Weights {
		m.Features.Add(w.Feature)
	}
	m.Features.Freeze()
	if m.Features.Len() == 0 {
		return nil, errors.New("no weights")
	}
	m.Weights = perceptron.NewLinearModel(m.Features.Len(), g.NumNonTerms(), link)
	for _, w := range setup.Weights {
		nt, exists := g.NonTermIndex(w.NonTerminal)
		if !exists {
			glog.Warningf("Skipping weight for unknown nonterminal %s", w.NonTerminal)
			continue
		}
		if math.IsNaN(w.Weight) || math.IsInf(w.Weight, 0) {
			return nil, errors.Errorf("degenerate weight for %s/%s", w.Feature, w.NonTerminal)
		}
		feature, _ := m.Features.IndexOf(w.Feature)
		m.Weights.SetWeight(feature, nt, w.Weight)
	}
	return m, nil
}

func (m *DiscriminativeModel) Name() string {
	return fmt.Sprintf("discriminative(%v)", m.Weights.Link)
}

func (m *DiscriminativeModel) NewFOM() FigureOfMerit {
	f := &Discriminative{
		Model:    m,
		features: featurevector.NewSparse(),
		scores:   mat.NewVecDense(m.Grammar.NumNonTerms(), nil),
	}
	if m.Boundary != nil {
		f.boundary = m.Boundary.NewFOM().(*BoundaryInOut)
	}
	return f
}

// Discriminative holds the sentence and the feature vector and model
// output of the most recently scored cell.
type Discriminative struct {
	Model *DiscriminativeModel

	sent     *types.Sentence
	boundary *BoundaryInOut

	cellStart, cellEnd int
	features           *featurevector.Sparse
	scores             *mat.VecDense
}

var _ FigureOfMerit = &Discriminative{}

func (f *Discriminative) InitSentence(sent *types.Sentence) {
	f.sent = sent
	if f.boundary != nil {
		f.boundary.InitSentence(sent)
	}
	f.cellStart, f.cellEnd = -1, -1
}

func (f *Discriminative) tagName(i int) string {
	if i < 0 || i >= f.sent.Len() {
		return grammar.NULL_SYMBOL
	}
	tag := f.boundary.Tags()[i]
	if tag < 0 {
		return UNKNOWN_TAG
	}
	return f.Model.Grammar.NonTermName(tag)
}

func (f *Discriminative) token(i int) string {
	if i < 0 || i >= f.sent.Len() {
		return grammar.NULL_SYMBOL
	}
	return f.sent.Token(i)
}

func (f *Discriminative) addFeature(name string, value float64) {
	if index, exists := f.Model.Features.IndexOf(name); exists {
		f.features.Add(index, value)
	}
}

// CellFeatures fills the feature vector of span [start, end).
func (f *Discriminative) CellFeatures(start, end int) *featurevector.Sparse {
	f.features.Clear()
	n := float64(f.sent.Len())
	for _, tmpl := range f.Model.Templates {
		switch tmpl {
		case "bias":
			f.addFeature("bias", 1)
		case "span":
			f.addFeature(fmt.Sprintf("span=%d", min(end-start, MAX_SPAN_FEATURE)), 1)
		case "lpos":
			f.addFeature("lpos="+f.tagName(start-1), 1)
		case "rpos":
			f.addFeature("rpos="+f.tagName(end), 1)
		case "ipos":
			f.addFeature("ipos="+f.tagName(start)+"_"+f.tagName(end-1), 1)
		case "lword":
			f.addFeature("lword="+f.token(start-1), 1)
		case "rword":
			f.addFeature("rword="+f.token(end), 1)
		case "ratio":
			f.addFeature("ratio=start", float64(start)/n)
			f.addFeature("ratio=end", float64(end)/n)
		}
	}
	return f.features
}

func (f *Discriminative) Score(start, end, nt int, inside float64) float64 {
	if start != f.cellStart || end != f.cellEnd {
		f.Model.Weights.Scores(f.CellFeatures(start, end), f.scores)
		f.cellStart, f.cellEnd = start, end
	}
	return inside + f.scores.AtVec(nt)
}

func (f *Discriminative) ScoreLexical(start, end, nt int, inside float64) float64 {
	return inside
}
