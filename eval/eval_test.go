package eval

import (
	"math"
	"testing"

	"github.com/timvieira/bubs-parser-sub010/nlp/tree"
)

func mustRead(t *testing.T, s string) *tree.Tree {
	parse, err := tree.Read(s)
	if err != nil {
		t.Fatalf("Failed to read %q: %v", s, err)
	}
	return parse
}

func TestBrackets(t *testing.T) {
	gold := mustRead(t, "(S (NP (D the) (N dog)) (VP (V saw) (NP (N cats))))")
	test := mustRead(t, "(S (NP (D the) (N dog)) (VP (V saw) (N cats)))")
	r := Brackets(test, gold)
	if r.TP != 3 || r.FP != 0 || r.FN != 1 {
		t.Fatalf("Got TP=%d FP=%d FN=%d", r.TP, r.FP, r.FN)
	}
	if r.Precision() != 1 || r.Recall() != 0.75 {
		t.Errorf("Got precision %v recall %v", r.Precision(), r.Recall())
	}
	if math.Abs(r.F1()-6.0/7.0) > 1e-9 {
		t.Errorf("Got F1 %v", r.F1())
	}
	if len(r.Errors) != 1 || r.Errors[0].Kind != MISSING || r.Errors[0].Bracket != (tree.Bracket{Label: "NP", Start: 3, End: 4}) {
		t.Errorf("Got errors %v", r.Errors)
	}
}

func TestBracketsDuplicates(t *testing.T) {
	gold := mustRead(t, "(S (S (A a)))")
	test := mustRead(t, "(S (A a))")
	r := Brackets(test, gold)
	if r.TP != 1 || r.FN != 1 || r.FP != 0 {
		t.Errorf("Got TP=%d FP=%d FN=%d", r.TP, r.FP, r.FN)
	}
}

func TestBracketsNoParse(t *testing.T) {
	gold := mustRead(t, "(S (NP (N it)) (VP (V works)))")
	r := Brackets(nil, gold)
	if !r.Failed || r.TP != 0 || r.FN != 3 {
		t.Errorf("Got %+v", r)
	}
	if r.Precision() != 0 || r.F1() != 0 {
		t.Errorf("Expected zero scores, got %v", r)
	}
}

func TestTotal(t *testing.T) {
	gold := mustRead(t, "(S (NP (N it)) (VP (V works)))")
	total := &Total{Results: []*Result{}}
	total.Add(Brackets(gold, gold))
	total.Add(Brackets(mustRead(t, "(S (X (N it)) (VP (V works)))"), gold))
	total.Add(Brackets(nil, gold))
	if total.TP != 5 || total.FP != 1 || total.FN != 4 {
		t.Errorf("Got TP=%d FP=%d FN=%d", total.TP, total.FP, total.FN)
	}
	if total.Exact != 1 || total.Failed != 1 || total.Population != 3 {
		t.Errorf("Got exact=%d failed=%d population=%d", total.Exact, total.Failed, total.Population)
	}
	if len(total.Results) != 3 {
		t.Errorf("Expected 3 kept results, got %d", len(total.Results))
	}
	byType := total.Errors().ByType()
	if byType["extra X"] != 1 || byType["missing NP"] != 2 || byType["missing S"] != 1 {
		t.Errorf("Got errors by type %v", byType)
	}
}
