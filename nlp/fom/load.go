package fom

import (
	"github.com/timvieira/bubs-parser-sub010/nlp/grammar"
	"github.com/timvieira/bubs-parser-sub010/util/conf"

	"github.com/pkg/errors"
)

const (
	INSIDE         = "inside"
	NORMALIZED     = "normalized"
	BOUNDARY       = "boundary"
	LEXICAL        = "lexical"
	DISCRIMINATIVE = "discriminative"
	PRIOR          = "prior"
)

var TYPES = []string{INSIDE, NORMALIZED, BOUNDARY, LEXICAL, DISCRIMINATIVE, PRIOR}

// Config selects and locates a FOM model.
type Config struct {
	Type   string
	Model  string
	Tuning float64
	// boundary model supplying POS tags to discriminative features
	Boundary string
}

func (c Config) Validate() error {
	switch c.Type {
	case INSIDE, NORMALIZED:
		return nil
	case BOUNDARY, LEXICAL, DISCRIMINATIVE, PRIOR:
		if c.Model == "" {
			return errors.Errorf("FOM type %s requires a model file", c.Type)
		}
		return nil
	}
	return errors.Errorf("unknown FOM type %q (expected one of %v)", c.Type, TYPES)
}

func ReadBoundaryModelFile(filename string, g grammar.Interface) (*BoundaryModel, error) {
	c, err := conf.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ReadBoundaryModel(c, g)
}

// Load reads the model named by cfg against grammar g.
func Load(cfg Config, g grammar.Interface) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Type {
	case INSIDE:
		return Inside{}, nil
	case NORMALIZED:
		return NormalizedInside{cfg.Tuning}, nil
	case DISCRIMINATIVE:
		return loadDiscriminative(cfg, g)
	}
	c, err := conf.ReadFile(cfg.Model)
	if err != nil {
		return nil, err
	}
	var m Model
	switch cfg.Type {
	case BOUNDARY:
		m, err = ReadBoundaryModel(c, g)
	case LEXICAL:
		m, err = ReadLexicalBoundaryModel(c, g)
	case PRIOR:
		m, err = ReadPrior(c, g, cfg.Tuning)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func loadDiscriminative(cfg Config, g grammar.Interface) (Model, error) {
	setup, err := LoadDiscriminativeConfFile(cfg.Model)
	if err != nil {
		return nil, err
	}
	var boundary *BoundaryModel
	if cfg.Boundary != "" {
		if boundary, err = ReadBoundaryModelFile(cfg.Boundary, g); err != nil {
			return nil, err
		}
	}
	m, err := NewDiscriminativeModel(setup, g, boundary)
	if err != nil {
		return nil, errors.Wrap(err, cfg.Model)
	}
	return m, nil
}
