package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/timvieira/bubs-parser-sub010/eval"
	"github.com/timvieira/bubs-parser-sub010/nlp/lexicon"
	"github.com/timvieira/bubs-parser-sub010/nlp/parser"
	"github.com/timvieira/bubs-parser-sub010/nlp/tree"
	"github.com/timvieira/bubs-parser-sub010/nlp/types"
	"github.com/timvieira/bubs-parser-sub010/util"

	"github.com/golang/glog"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/pkg/errors"
)

const NO_PARSE = "()"

var (
	policy                string
	beamWidth, unaryWidth int
	maxPops, minPops      int
	delta, lambda, tuning float64
	fomType               string
	workers               int
	rawInput, showStats   bool
)

func ParseConfigOut(opts *parser.Options) {
	glog.Infof("Configuration")
	glog.Infof("Grammar:\t\t%s (md5 %s)", opts.Grammar, util.Checksum(opts.Grammar))
	glog.Infof("Policy:\t\t%s", opts.Beam.Policy)
	glog.Infof("Beam:\t\t%v", opts.BeamConfig())
	glog.Infof("FOM:\t\t%s %s (md5 %s)", opts.FOM.Type, opts.FOM.Model, util.Checksum(opts.FOM.Model))
	glog.Infof("Cells:\t\t%s %s", opts.Cells.Selector, opts.Cells.Constraints)
	glog.Infof("Workers:\t\t%d", opts.Workers)
	glog.Infof("Input:\t\t%s", input)
	if inputGold != "" {
		glog.Infof("Gold:\t\t%s", inputGold)
	}
}

// ParseOptions builds options from the YAML file, if any, then applies
// the flags set on the command line.
func ParseOptions(cmd *commander.Command) (*parser.Options, error) {
	opts := parser.DefaultOptions()
	if confFile != "" {
		var err error
		if opts, err = parser.LoadOptionsFile(confFile); err != nil {
			return nil, err
		}
	}
	cmd.Flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "g":
			opts.Grammar = grammarFile
		case "policy":
			opts.Beam.Policy = policy
		case "b":
			opts.Beam.Width = beamWidth
		case "d":
			opts.Beam.Delta = delta
		case "maxpops":
			opts.Beam.MaxPops = maxPops
		case "minpops":
			opts.Beam.MinPops = minPops
		case "lambda":
			opts.Beam.Lambda = lambda
		case "ub":
			opts.Beam.UnaryWidth = unaryWidth
		case "fom":
			opts.FOM.Type = fomType
		case "fm":
			opts.FOM.Model = fomModelFile
		case "fb":
			opts.FOM.Boundary = boundaryFile
		case "tuning":
			opts.FOM.Tuning = tuning
		case "cells":
			opts.Cells.Selector = parser.SELECTOR_CONSTRAINED
			opts.Cells.Constraints = constraintsFile
		case "workers":
			opts.Workers = workers
		}
	})
	return opts, opts.Validate()
}

// ReadSentences maps input lines to sentences. Lines the lexicon cannot
// map are logged and left nil.
func ReadSentences(lex *lexicon.Lexicon, lines []string, raw bool) []*types.Sentence {
	sents := make([]*types.Sentence, len(lines))
	for i, line := range lines {
		tokens := lexicon.Tokenize(line)
		if raw {
			var err error
			if tokens, err = lexicon.Segment(line); err != nil {
				glog.Errorf("Sentence %d: %v", i, err)
				continue
			}
		}
		sent, err := lex.Sentence(tokens)
		if err != nil {
			glog.Errorf("Sentence %d: %v", i, err)
			continue
		}
		sent.ID = i
		sents[i] = sent
	}
	return sents
}

func ReadGold(filename string) ([]*tree.Tree, error) {
	lines, err := ReadLines(filename)
	if err != nil {
		return nil, err
	}
	trees := make([]*tree.Tree, len(lines))
	for i, line := range lines {
		if trees[i], err = tree.Read(line); err != nil {
			return nil, errors.Wrapf(err, "%s line %d", filename, i+1)
		}
	}
	return trees, nil
}

func Parse(cmd *commander.Command, args []string) error {
	opts, err := ParseOptions(cmd)
	if err != nil {
		return err
	}
	if opts.Grammar == "" || !VerifyExists(opts.Grammar) {
		glog.Errorf("A grammar is required (-g or grammar: in -conf)")
		cmd.Usage()
		os.Exit(1)
	}
	ParseConfigOut(opts)

	res, err := parser.LoadResources(opts)
	if err != nil {
		glog.Fatalf("Failed loading models: %v", err)
	}
	lines, err := ReadLines(input)
	if err != nil {
		return err
	}
	var gold []*tree.Tree
	if inputGold != "" {
		if gold, err = ReadGold(inputGold); err != nil {
			return err
		}
		if len(gold) != len(lines) {
			return errors.Errorf("%d gold trees for %d sentences", len(gold), len(lines))
		}
	}
	all := ReadSentences(lexicon.New(res.Grammar), lines, rawInput)
	var sents []*types.Sentence
	for _, sent := range all {
		if sent != nil {
			sents = append(sents, sent)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	pool, err := parser.NewPool(ctx, opts, res)
	if err != nil {
		return err
	}
	defer pool.Close()
	start := time.Now()
	parses := make([]*tree.Tree, len(all))
	for _, result := range pool.ParseAll(ctx, sents) {
		if result.Err != nil && !result.NoParse() {
			glog.Errorf("Sentence %d: %v", result.Sentence.ID, result.Err)
		}
		parses[result.Sentence.ID] = result.Tree
	}
	elapsed := time.Since(start)

	out, err := CreateOutput(outFile)
	if err != nil {
		return err
	}
	defer out.Close()
	for _, parse := range parses {
		if parse == nil {
			fmt.Fprintln(out, NO_PARSE)
			continue
		}
		fmt.Fprintln(out, parse)
	}
	glog.Infof("Parsed %d sentences in %v", len(all), elapsed)
	if showStats {
		WriteTable([]string{"Statistic", "Value"}, pool.Stats.Fields())
	}
	if gold != nil {
		total := &eval.Total{}
		for i, parse := range parses {
			total.Add(eval.Brackets(parse, gold[i]))
		}
		glog.Infof("Evaluation: %v", total)
		WriteTable([]string{"Metric", "Value"}, [][2]string{
			{"precision", fmt.Sprintf("%.2f", 100*total.Precision())},
			{"recall", fmt.Sprintf("%.2f", 100*total.Recall())},
			{"F1", fmt.Sprintf("%.2f", 100*total.F1())},
			{"exact", fmt.Sprintf("%.2f", 100*total.ExactMatch())},
			{"failed", fmt.Sprintf("%d/%d", total.Failed, total.Population)},
		})
	}
	return ctx.Err()
}

func ParseCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Parse,
		UsageLine: "parse <file options> [arguments]",
		Short:     "parses sentences with a beam-search chart parser",
		Long: `
parses sentences with a beam-search chart parser, one sentence per line

	$ ./bubs parse -g <grammar> -in <sentences> [-out <trees>] [-gold <trees>] [-conf <yaml>] [options]

`,
		Flag: *flag.NewFlagSet("parse", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&confFile, "conf", "", "Optional - YAML parser options (flags override)")
	cmd.Flag.StringVar(&grammarFile, "g", "", "Grammar File")
	cmd.Flag.StringVar(&input, "in", "", "Input Sentences File (default stdin)")
	cmd.Flag.StringVar(&outFile, "out", "", "Output Trees File (default stdout)")
	cmd.Flag.StringVar(&inputGold, "gold", "", "Optional - Gold Trees File for evaluation")
	cmd.Flag.BoolVar(&rawInput, "raw", false, "Segment raw text input into words")
	cmd.Flag.StringVar(&policy, "policy", "viterbi", "Beam policy [viterbi, expdecay, boundedheap, splitunary, online]")
	cmd.Flag.IntVar(&beamWidth, "b", 30, "Beam Width")
	cmd.Flag.Float64Var(&delta, "d", 0, "Beam Delta Threshold (default none)")
	cmd.Flag.IntVar(&maxPops, "maxpops", 60, "Exponential decay: max pops per cell")
	cmd.Flag.IntVar(&minPops, "minpops", 5, "Exponential decay: min pops per cell")
	cmd.Flag.Float64Var(&lambda, "lambda", 0.2, "Exponential decay rate")
	cmd.Flag.IntVar(&unaryWidth, "ub", 5, "Split unary: unary beam width")
	cmd.Flag.StringVar(&fomType, "fom", "inside", "FOM [inside, normalized, boundary, lexical, discriminative, prior]")
	cmd.Flag.StringVar(&fomModelFile, "fm", "", "FOM Model File")
	cmd.Flag.StringVar(&boundaryFile, "fb", "", "Optional - Boundary Model for discriminative FOM tag features")
	cmd.Flag.Float64Var(&tuning, "tuning", 0, "Normalized inside span tuning")
	cmd.Flag.StringVar(&constraintsFile, "cells", "", "Optional - Closed Cells File")
	cmd.Flag.IntVar(&workers, "workers", 0, "Parser goroutines (default GOMAXPROCS)")
	cmd.Flag.BoolVar(&showStats, "stats", false, "Show parsing statistics")
	return cmd
}
