// Package parser assembles beam-search parsers from configuration and runs
// them concurrently over batches of sentences.
package parser

import (
	"fmt"
	"io/ioutil"
	"math"
	"runtime"

	"github.com/timvieira/bubs-parser-sub010/nlp/fom"
	"github.com/timvieira/bubs-parser-sub010/nlp/grammar"
	"github.com/timvieira/bubs-parser-sub010/nlp/parser/beam"
	"github.com/timvieira/bubs-parser-sub010/nlp/parser/cellselect"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	SELECTOR_LRBT        = "lrbt"
	SELECTOR_CONSTRAINED = "constrained"
)

type BeamOptions struct {
	Policy     string
	Width      int
	Delta      float64
	MaxPops    int `yaml:"maxPops"`
	MinPops    int `yaml:"minPops"`
	Lambda     float64
	UnaryWidth int `yaml:"unaryWidth"`
}

type CellOptions struct {
	Selector    string
	Constraints string
}

// Options is the parser configuration, read from YAML and overridden by
// command line flags.
type Options struct {
	Grammar string
	Workers int
	Beam    BeamOptions
	FOM     fom.Config `yaml:"fom"`
	Cells   CellOptions
}

func DefaultOptions() *Options {
	cfg := beam.DefaultConfig()
	return &Options{
		Workers: runtime.GOMAXPROCS(0),
		Beam: BeamOptions{
			Policy:     beam.PRUNE_VITERBI,
			Width:      cfg.BeamWidth,
			Delta:      cfg.DeltaThreshold,
			MaxPops:    cfg.MaxPops,
			MinPops:    cfg.MinPops,
			Lambda:     cfg.Lambda,
			UnaryWidth: cfg.UnaryBeamWidth,
		},
		FOM:   fom.Config{Type: fom.INSIDE},
		Cells: CellOptions{Selector: SELECTOR_LRBT},
	}
}

// LoadOptions overlays the YAML document data on the defaults.
func LoadOptions(data []byte) (*Options, error) {
	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, errors.Wrap(err, "parsing parser options")
	}
	return opts, nil
}

func LoadOptionsFile(filename string) (*Options, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading parser options")
	}
	opts, err := LoadOptions(data)
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}
	return opts, nil
}

func (o *Options) BeamConfig() beam.Config {
	return beam.Config{
		BeamWidth:      o.Beam.Width,
		DeltaThreshold: o.Beam.Delta,
		MaxPops:        o.Beam.MaxPops,
		MinPops:        o.Beam.MinPops,
		Lambda:         o.Beam.Lambda,
		UnaryBeamWidth: o.Beam.UnaryWidth,
	}
}

func (o *Options) Validate() error {
	if o.Workers < 1 {
		return errors.Errorf("need at least one worker, got %d", o.Workers)
	}
	if _, err := beam.NewPolicy(o.Beam.Policy); err != nil {
		return err
	}
	if err := o.BeamConfig().Validate(); err != nil {
		return err
	}
	if err := o.FOM.Validate(); err != nil {
		return err
	}
	switch o.Cells.Selector {
	case SELECTOR_LRBT:
	case SELECTOR_CONSTRAINED:
		if o.Cells.Constraints == "" {
			return errors.New("constrained cell selection requires a constraints file")
		}
	default:
		return errors.Errorf("unknown cell selector %q", o.Cells.Selector)
	}
	return nil
}

func (o *Options) String() string {
	delta := fmt.Sprintf("%v", o.Beam.Delta)
	if math.IsInf(o.Beam.Delta, 1) {
		delta = "none"
	}
	return fmt.Sprintf("policy=%s width=%d delta=%s fom=%s cells=%s workers=%d",
		o.Beam.Policy, o.Beam.Width, delta, o.FOM.Type, o.Cells.Selector, o.Workers)
}

// Resources are the immutable models shared by every parser.
type Resources struct {
	Grammar  grammar.Interface
	FOM      fom.Model
	Selector cellselect.Model
}

// LoadResources reads the grammar and models named by o. Any failure here
// is a load-time error that must abort before parsing.
func LoadResources(o *Options) (*Resources, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	g, err := grammar.ReadFile(o.Grammar)
	if err != nil {
		return nil, err
	}
	glog.Infof("Loaded %v", g)
	return NewResources(o, g)
}

// NewResources loads the FOM and cell selection models for grammar g.
func NewResources(o *Options, g grammar.Interface) (*Resources, error) {
	r := &Resources{Grammar: g}
	var err error
	if r.FOM, err = fom.Load(o.FOM, g); err != nil {
		return nil, err
	}
	glog.Infof("Loaded FOM %s", r.FOM.Name())
	switch o.Cells.Selector {
	case SELECTOR_CONSTRAINED:
		constraints, err := cellselect.ReadConstraintsFile(o.Cells.Constraints)
		if err != nil {
			return nil, err
		}
		r.Selector = &cellselect.ConstrainedModel{Constraints: constraints}
	default:
		r.Selector = cellselect.LeftRightBottomTopModel{}
	}
	return r, nil
}

// New builds one parser. Parsers are not safe for concurrent use.
func New(o *Options, r *Resources) (*beam.Parser, error) {
	policy, err := beam.NewPolicy(o.Beam.Policy)
	if err != nil {
		return nil, err
	}
	return beam.NewParser(r.Grammar, r.FOM, r.Selector, policy, o.BeamConfig()), nil
}
