// Package eval scores parses against gold trees by labeled bracket
// precision, recall and F1.
package eval

import (
	"fmt"

	"github.com/timvieira/bubs-parser-sub010/nlp/tree"
)

const (
	MISSING = "missing"
	EXTRA   = "extra"
)

func Precision(truePositives, testPositives int) float64 {
	if testPositives == 0 {
		return 0
	}
	return float64(truePositives) / float64(testPositives)
}

func Recall(truePositives, conditionPositives int) float64 {
	if conditionPositives == 0 {
		return 0
	}
	return float64(truePositives) / float64(conditionPositives)
}

func F1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2.0 * (precision * recall) / (precision + recall)
}

// BracketError is a gold bracket the parse lacks, or a parse bracket the
// gold tree lacks.
type BracketError struct {
	Bracket tree.Bracket
	Kind    string
}

func (e *BracketError) String() string {
	return fmt.Sprintf("%s %v", e.Kind, e.Bracket)
}

func (e *BracketError) Class() string {
	return e.Kind + " " + e.Bracket.Label
}

type Errors []*BracketError

func (ers Errors) ByType() map[string]int {
	retval := make(map[string]int)
	for _, e := range ers {
		retval[e.Class()]++
	}
	return retval
}

type Result struct {
	TP, FP, FN int
	Errors     Errors
	// sentence had no parse
	Failed bool
}

func (r *Result) Incorrect() int {
	return r.FP + r.FN
}

func (r *Result) TestPositives() int {
	return r.TP + r.FP
}

func (r *Result) ConditionPositives() int {
	return r.TP + r.FN
}

func (r *Result) Precision() float64 {
	return Precision(r.TP, r.TestPositives())
}

func (r *Result) Recall() float64 {
	return Recall(r.TP, r.ConditionPositives())
}

func (r *Result) F1() float64 {
	return F1(r.Precision(), r.Recall())
}

func (r *Result) String() string {
	return fmt.Sprintf("P=%.2f R=%.2f F1=%.2f", 100*r.Precision(), 100*r.Recall(), 100*r.F1())
}

// Brackets compares the labeled brackets of test against gold, matching
// duplicates one to one. A nil test tree counts every gold bracket as
// missing.
func Brackets(test, gold *tree.Tree) *Result {
	r := &Result{}
	pending := make(map[tree.Bracket]int)
	for _, b := range gold.Brackets() {
		pending[b]++
	}
	if test == nil {
		r.Failed = true
	} else {
		for _, b := range test.Brackets() {
			if pending[b] > 0 {
				pending[b]--
				r.TP++
				continue
			}
			r.FP++
			r.Errors = append(r.Errors, &BracketError{Bracket: b, Kind: EXTRA})
		}
	}
	for _, b := range gold.Brackets() {
		if pending[b] > 0 {
			pending[b]--
			r.FN++
			r.Errors = append(r.Errors, &BracketError{Bracket: b, Kind: MISSING})
		}
	}
	return r
}

// Total accumulates corpus-level bracket counts. Results are kept only if
// Results is non-nil.
type Total struct {
	Result
	Results                   []*Result
	Exact, Failed, Population int
}

func (t *Total) Add(r *Result) {
	t.TP += r.TP
	t.FP += r.FP
	t.FN += r.FN
	if r.Incorrect() == 0 && !r.Failed {
		t.Exact++
	}
	if r.Failed {
		t.Failed++
	}
	t.Population++
	if t.Results != nil {
		t.Results = append(t.Results, r)
	}
}

func (t *Total) ExactMatch() float64 {
	if t.Population == 0 {
		return 0
	}
	return float64(t.Exact) / float64(t.Population)
}

func (t *Total) Errors() Errors {
	var retval Errors
	for _, v := range t.Results {
		retval = append(retval, v.Errors...)
	}
	return retval
}

func (t *Total) String() string {
	return fmt.Sprintf("%v EX=%.2f sentences=%d failed=%d", &t.Result, 100*t.ExactMatch(), t.Population, t.Failed)
}
