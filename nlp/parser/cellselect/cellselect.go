// Package cellselect supplies the order in which chart cells are visited.
// Every order is bottom-up: all narrower cells precede a cell.
package cellselect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/timvieira/bubs-parser-sub010/nlp/types"
	"github.com/timvieira/bubs-parser-sub010/util/conf"

	"github.com/pkg/errors"
)

// Selector iterates over the cells of one sentence. Selectors are owned by
// a single parser.
type Selector interface {
	InitSentence(sent *types.Sentence)
	HasNext() bool
	Next() (start, end int)
	IsOpen(start, end int) bool
}

// Model is shared between parsers and hands out selectors.
type Model interface {
	Name() string
	NewSelector() Selector
}

// LeftRightBottomTop visits cells by increasing width, left to right.
type LeftRightBottomTop struct {
	n          int
	start, end int
}

var _ Selector = &LeftRightBottomTop{}

type LeftRightBottomTopModel struct{}

func (LeftRightBottomTopModel) Name() string          { return "lrbt" }
func (LeftRightBottomTopModel) NewSelector() Selector { return &LeftRightBottomTop{} }

func (s *LeftRightBottomTop) InitSentence(sent *types.Sentence) {
	s.Reset(sent.Len())
}

// Reset starts iteration over the cells of a sentence of length n.
func (s *LeftRightBottomTop) Reset(n int) {
	s.n, s.start, s.end = n, 0, 1
}

func (s *LeftRightBottomTop) HasNext() bool {
	return s.end <= s.n
}

func (s *LeftRightBottomTop) Next() (int, int) {
	if !s.HasNext() {
		panic("Next called on an exhausted cell selector")
	}
	start, end := s.start, s.end
	if end == s.n {
		width := end - start + 1
		s.start, s.end = 0, width
	} else {
		s.start, s.end = start+1, end+1
	}
	return start, end
}

func (s *LeftRightBottomTop) IsOpen(start, end int) bool {
	return true
}

type Span [2]int

func (s Span) String() string {
	return fmt.Sprintf("%d,%d", s[0], s[1])
}

// Constraints lists closed cells per sentence ID.
type Constraints struct {
	Closed []map[Span]bool
}

func (c *Constraints) IsClosed(sentID, start, end int) bool {
	if sentID < 0 || sentID >= len(c.Closed) {
		return false
	}
	return c.Closed[sentID][Span{start, end}]
}

// NumClosed counts the closed cells of a sentence.
func (c *Constraints) NumClosed(sentID int) int {
	if sentID < 0 || sentID >= len(c.Closed) {
		return 0
	}
	return len(c.Closed[sentID])
}

func noComments(string) bool {
	return false
}

// ReadConstraints parses one line per sentence of space-separated closed
// spans "start,end"; line k holds the constraints of sentence k-1 and an
// empty line closes nothing.
func ReadConstraints(c *conf.Conf) (*Constraints, error) {
	constraints := &Constraints{}
	for _, line := range c.Lines {
		sentID := line.Num - 1
		for len(constraints.Closed) <= sentID {
			constraints.Closed = append(constraints.Closed, nil)
		}
		closed := make(map[Span]bool)
		for _, field := range line.Fields() {
			span, err := parseSpan(field)
			if err != nil {
				return nil, c.Errorf(line, "%v", err)
			}
			closed[span] = true
		}
		constraints.Closed[sentID] = closed
	}
	return constraints, nil
}

func ReadConstraintsFile(filename string) (*Constraints, error) {
	c, err := conf.ReadFileFunc(filename, noComments)
	if err != nil {
		return nil, err
	}
	return ReadConstraints(c)
}

func parseSpan(field string) (Span, error) {
	parts := strings.Split(field, ",")
	if len(parts) != 2 {
		return Span{}, errors.Errorf("bad span %q", field)
	}
	start, err1 := strconv.Atoi(parts[0])
	end, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || start < 0 || end <= start {
		return Span{}, errors.Errorf("bad span %q", field)
	}
	return Span{start, end}, nil
}

// ConstrainedModel closes the cells named by Constraints. Width-1 cells and
// the top cell are always open.
type ConstrainedModel struct {
	Constraints *Constraints
}

func (m *ConstrainedModel) Name() string {
	return "constrained"
}

func (m *ConstrainedModel) NewSelector() Selector {
	return &Constrained{Constraints: m.Constraints}
}

type Constrained struct {
	Constraints *Constraints

	sentID  int
	inner   LeftRightBottomTop
	pending Span
	hasNext bool
}

var _ Selector = &Constrained{}

func (s *Constrained) InitSentence(sent *types.Sentence) {
	s.sentID = sent.ID
	s.inner.Reset(sent.Len())
	s.advance()
}

func (s *Constrained) advance() {
	for s.inner.HasNext() {
		start, end := s.inner.Next()
		if s.IsOpen(start, end) {
			s.pending, s.hasNext = Span{start, end}, true
			return
		}
	}
	s.hasNext = false
}

func (s *Constrained) HasNext() bool {
	return s.hasNext
}

func (s *Constrained) Next() (int, int) {
	if !s.hasNext {
		panic("Next called on an exhausted cell selector")
	}
	span := s.pending
	s.advance()
	return span[0], span[1]
}

func (s *Constrained) IsOpen(start, end int) bool {
	if end-start == 1 || (start == 0 && end == s.inner.n) {
		return true
	}
	return !s.Constraints.IsClosed(s.sentID, start, end)
}
