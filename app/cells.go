package app

import (
	"fmt"
	"os"

	"github.com/timvieira/bubs-parser-sub010/nlp/parser/cellselect"
	"github.com/timvieira/bubs-parser-sub010/nlp/types"

	"github.com/golang/glog"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

var (
	sentLength, sentID int
)

// VisitOrder lists the cells sel visits for a sentence of n tokens.
func VisitOrder(sel cellselect.Selector, id, n int) []cellselect.Span {
	sent := types.NewSentence(make([]string, n), make([]int, n))
	sent.ID = id
	sel.InitSentence(sent)
	var order []cellselect.Span
	for sel.HasNext() {
		start, end := sel.Next()
		order = append(order, cellselect.Span{start, end})
	}
	return order
}

func Cells(cmd *commander.Command, args []string) error {
	if sentLength < 1 {
		return errors.Errorf("sentence length must be positive, got %d", sentLength)
	}
	var model cellselect.Model = cellselect.LeftRightBottomTopModel{}
	if constraintsFile != "" {
		constraints, err := cellselect.ReadConstraintsFile(constraintsFile)
		if err != nil {
			glog.Fatalf("Failed loading constraints: %v", err)
		}
		model = &cellselect.ConstrainedModel{Constraints: constraints}
	}
	order := VisitOrder(model.NewSelector(), sentID, sentLength)
	glog.Infof("Selector %s visits %d of %d cells", model.Name(), len(order), sentLength*(sentLength+1)/2)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Start", "End", "Width"})
	for i, span := range order {
		table.Append([]string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d", span[0]),
			fmt.Sprintf("%d", span[1]),
			fmt.Sprintf("%d", span[1]-span[0]),
		})
	}
	table.Render()
	return nil
}

func CellsCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Cells,
		UsageLine: "cells [options]",
		Short:     "prints the chart cell visitation order",
		Long: `
prints the order in which chart cells are visited for a sentence length,
optionally under a closed cells file

	$ ./bubs cells -n <length> [-cells <closed cells> -id <sentence>]

`,
		Flag: *flag.NewFlagSet("cells", flag.ExitOnError),
	}
	cmd.Flag.IntVar(&sentLength, "n", 5, "Sentence Length")
	cmd.Flag.IntVar(&sentID, "id", 0, "Sentence ID (selects constraints)")
	cmd.Flag.StringVar(&constraintsFile, "cells", "", "Optional - Closed Cells File")
	return cmd
}
