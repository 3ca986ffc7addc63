package cellselect

import (
	"reflect"
	"strings"
	"testing"

	"github.com/timvieira/bubs-parser-sub010/nlp/types"
	"github.com/timvieira/bubs-parser-sub010/util/conf"
)

func sentenceOfLength(id, n int) *types.Sentence {
	sent := types.NewSentence(make([]string, n), make([]int, n))
	sent.ID = id
	return sent
}

func collect(s Selector) []Span {
	var spans []Span
	for s.HasNext() {
		start, end := s.Next()
		spans = append(spans, Span{start, end})
	}
	return spans
}

func TestLeftRightBottomTop(t *testing.T) {
	s := LeftRightBottomTopModel{}.NewSelector()
	s.InitSentence(sentenceOfLength(0, 3))
	expected := []Span{{0, 1}, {1, 2}, {2, 3}, {0, 2}, {1, 3}, {0, 3}}
	if spans := collect(s); !reflect.DeepEqual(spans, expected) {
		t.Errorf("Expected %v got %v", expected, spans)
	}
	s.InitSentence(sentenceOfLength(1, 0))
	if s.HasNext() {
		t.Errorf("Empty sentence has cells")
	}
	s.InitSentence(sentenceOfLength(2, 1))
	if spans := collect(s); !reflect.DeepEqual(spans, []Span{{0, 1}}) {
		t.Errorf("Got %v for a single token", spans)
	}
}

func TestBottomUpOrder(t *testing.T) {
	s := LeftRightBottomTopModel{}.NewSelector()
	s.InitSentence(sentenceOfLength(0, 7))
	visited := make(map[Span]bool)
	for s.HasNext() {
		start, end := s.Next()
		for mid := start + 1; mid < end; mid++ {
			if !visited[Span{start, mid}] || !visited[Span{mid, end}] {
				t.Fatalf("Cell [%d,%d] visited before its children at %d", start, end, mid)
			}
		}
		visited[Span{start, end}] = true
	}
	if len(visited) != 28 {
		t.Errorf("Expected 28 cells, got %d", len(visited))
	}
}

func readConstraints(t *testing.T, text string) *Constraints {
	c, err := conf.ReadFunc(strings.NewReader(text), "constraints", noComments)
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	constraints, err := ReadConstraints(c)
	if err != nil {
		t.Fatalf("Failed to parse constraints: %v", err)
	}
	return constraints
}

func TestConstrained(t *testing.T) {
	m := &ConstrainedModel{readConstraints(t, "1,3\n\n0,2 1,3 0,1 0,3\n")}
	s := m.NewSelector()

	s.InitSentence(sentenceOfLength(0, 3))
	expected := []Span{{0, 1}, {1, 2}, {2, 3}, {0, 2}, {0, 3}}
	if spans := collect(s); !reflect.DeepEqual(spans, expected) {
		t.Errorf("Sentence 0: expected %v got %v", expected, spans)
	}

	s.InitSentence(sentenceOfLength(1, 3))
	if spans := collect(s); len(spans) != 6 {
		t.Errorf("Sentence 1: expected all cells open, got %v", spans)
	}

	// width-1 and top cells stay open
	s.InitSentence(sentenceOfLength(2, 3))
	expected = []Span{{0, 1}, {1, 2}, {2, 3}, {0, 3}}
	if spans := collect(s); !reflect.DeepEqual(spans, expected) {
		t.Errorf("Sentence 2: expected %v got %v", expected, spans)
	}
	if s.IsOpen(1, 3) || !s.IsOpen(0, 1) {
		t.Errorf("Wrong IsOpen for sentence 2")
	}

	s.InitSentence(sentenceOfLength(10, 3))
	if spans := collect(s); len(spans) != 6 {
		t.Errorf("Sentence beyond the constraints file should be unconstrained, got %v", spans)
	}
	if m.Constraints.NumClosed(2) != 4 {
		t.Errorf("Expected 4 closed cells, got %d", m.Constraints.NumClosed(2))
	}
}

func TestReadConstraintsMalformed(t *testing.T) {
	for _, text := range []string{"1-3\n", "3,1\n", "a,b\n", "1,2,3\n"} {
		c, _ := conf.ReadFunc(strings.NewReader(text), "constraints", noComments)
		if _, err := ReadConstraints(c); err == nil {
			t.Errorf("Expected error for %q", text)
		}
	}
}
