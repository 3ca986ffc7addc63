package beam

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Config holds the pruning parameters shared by all policies. A policy
// reads only the fields it needs.
type Config struct {
	BeamWidth      int
	DeltaThreshold float64
	MaxPops        int
	MinPops        int
	Lambda         float64
	UnaryBeamWidth int
}

func DefaultConfig() Config {
	return Config{
		BeamWidth:      30,
		DeltaThreshold: math.Inf(1),
		MaxPops:        60,
		MinPops:        5,
		Lambda:         0.2,
		UnaryBeamWidth: 5,
	}
}

func (c Config) Validate() error {
	switch {
	case c.BeamWidth < 0:
		return errors.Errorf("negative beam width %d", c.BeamWidth)
	case c.UnaryBeamWidth < 0:
		return errors.Errorf("negative unary beam width %d", c.UnaryBeamWidth)
	case math.IsNaN(c.DeltaThreshold) || c.DeltaThreshold < 0:
		return errors.Errorf("bad delta threshold %v", c.DeltaThreshold)
	case c.MinPops < 0 || c.MaxPops < c.MinPops:
		return errors.Errorf("bad pop bounds [%d, %d]", c.MinPops, c.MaxPops)
	case math.IsNaN(c.Lambda) || c.Lambda < 0:
		return errors.Errorf("bad decay rate %v", c.Lambda)
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("width=%d delta=%v pops=[%d,%d] lambda=%v unaryWidth=%d",
		c.BeamWidth, c.DeltaThreshold, c.MinPops, c.MaxPops, c.Lambda, c.UnaryBeamWidth)
}

// Stats are cumulative diagnostic counters of a parser.
type Stats struct {
	Sentences, Parsed, Failed  int
	CellsVisited, CellsSkipped int
	Considered                 int
	Pushed, Popped             int
	Accepted, Lexical          int
	UnaryConsidered            int
}

func (s *Stats) Add(other *Stats) {
	s.Sentences += other.Sentences
	s.Parsed += other.Parsed
	s.Failed += other.Failed
	s.CellsVisited += other.CellsVisited
	s.CellsSkipped += other.CellsSkipped
	s.Considered += other.Considered
	s.Pushed += other.Pushed
	s.Popped += other.Popped
	s.Accepted += other.Accepted
	s.Lexical += other.Lexical
	s.UnaryConsidered += other.UnaryConsidered
}

// Fields returns the counters as name/value pairs in display order.
func (s *Stats) Fields() [][2]string {
	values := []struct {
		name  string
		value int
	}{
		{"sentences", s.Sentences},
		{"parsed", s.Parsed},
		{"failed", s.Failed},
		{"cells visited", s.CellsVisited},
		{"cells skipped", s.CellsSkipped},
		{"edges considered", s.Considered},
		{"unary considered", s.UnaryConsidered},
		{"pushed", s.Pushed},
		{"popped", s.Popped},
		{"accepted", s.Accepted},
		{"lexical", s.Lexical},
	}
	retval := make([][2]string, len(values))
	for i, v := range values {
		retval[i] = [2]string{v.name, fmt.Sprintf("%d", v.value)}
	}
	return retval
}

func (s *Stats) String() string {
	return fmt.Sprintf("sentences=%d parsed=%d failed=%d cells=%d skipped=%d considered=%d unary=%d pushed=%d popped=%d accepted=%d lexical=%d",
		s.Sentences, s.Parsed, s.Failed, s.CellsVisited, s.CellsSkipped, s.Considered, s.UnaryConsidered,
		s.Pushed, s.Popped, s.Accepted, s.Lexical)
}
