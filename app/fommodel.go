package app

import (
	"fmt"
	"math"

	"github.com/timvieira/bubs-parser-sub010/nlp/fom"
	"github.com/timvieira/bubs-parser-sub010/nlp/grammar"

	"github.com/golang/glog"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/pkg/errors"
)

// BoundarySummary counts the finite entries of each table of m.
func BoundarySummary(m *fom.BoundaryModel, g grammar.Interface) [][2]string {
	var left, right, transitions int
	tags := m.Tags()
	for nt := 0; nt < g.NumNonTerms(); nt++ {
		for _, pos := range tags {
			if !math.IsInf(m.LeftBoundaryLogProb(nt, pos), -1) {
				left++
			}
			if !math.IsInf(m.RightBoundaryLogProb(pos, nt), -1) {
				right++
			}
		}
	}
	for _, pos := range tags {
		for _, hist := range tags {
			if !math.IsInf(m.TransitionLogProb(pos, hist), -1) {
				transitions++
			}
		}
	}
	return [][2]string{
		{"tags", fmt.Sprintf("%d", len(tags))},
		{"left boundary", fmt.Sprintf("%d", left)},
		{"right boundary", fmt.Sprintf("%d", right)},
		{"transitions", fmt.Sprintf("%d", transitions)},
	}
}

func FOMModel(cmd *commander.Command, args []string) error {
	VerifyFlags(cmd, []string{"g", "fm"})
	if !VerifyExists(grammarFile) || !VerifyExists(fomModelFile) {
		return errors.New("missing input files")
	}
	g, err := grammar.ReadFile(grammarFile)
	if err != nil {
		glog.Fatalf("Failed loading grammar: %v", err)
	}
	glog.Infof("Loaded %v", g)
	m, err := fom.ReadBoundaryModelFile(fomModelFile, g)
	if err != nil {
		glog.Fatalf("Failed loading boundary model: %v", err)
	}
	WriteTable([]string{"Table", "Entries"}, BoundarySummary(m, g))
	out, err := CreateOutput(outFile)
	if err != nil {
		return err
	}
	defer out.Close()
	written, err := m.WriteTo(out)
	if err != nil {
		return err
	}
	glog.Infof("Wrote %d bytes", written)
	return nil
}

func FOMModelCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       FOMModel,
		UsageLine: "fom-model <file options>",
		Short:     "validates and rewrites a boundary FOM model",
		Long: `
reads a boundary FOM model against a grammar, prints a summary of its tables
and writes it back in canonical form

	$ ./bubs fom-model -g <grammar> -fm <model> [-out <model>]

`,
		Flag: *flag.NewFlagSet("fom-model", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&grammarFile, "g", "", "Grammar File")
	cmd.Flag.StringVar(&fomModelFile, "fm", "", "Boundary Model File")
	cmd.Flag.StringVar(&outFile, "out", "", "Output Model File (default stdout)")
	return cmd
}
