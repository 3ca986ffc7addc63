package grammar

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/timvieira/bubs-parser-sub010/util/conf"

	"github.com/pkg/errors"
)

// isComment skips '#' lines unless they are rules, since "#" is a common
// part-of-speech and token in treebank grammars.
func isComment(line string) bool {
	return line[0] == '#' && !strings.Contains(line, " "+RULE_ARROW+" ")
}

// Read parses a grammar in text form:
//
//	start=S
//	S => NP VP -0.1
//	NP => D -2.3
//	===== LEXICON =====
//	D => the -0.5
//
// A malformed line yields a *conf.FormatError.
func Read(reader io.Reader, source string) (*Grammar, error) {
	c, err := conf.ReadFunc(reader, source, isComment)
	if err != nil {
		return nil, err
	}
	if len(c.Lines) == 0 {
		return nil, &conf.FormatError{Source: source, Reason: "empty grammar"}
	}
	header := c.Lines[0]
	start, err := parseHeader(header.Fields())
	if err != nil {
		return nil, c.Errorf(header, "%v", err)
	}
	b := NewBuilder(start)
	lexicon := false
	for _, line := range c.Lines[1:] {
		if line.Text == LEXICON_DELIMITER {
			if lexicon {
				return nil, c.Errorf(line, "duplicate lexicon delimiter")
			}
			lexicon = true
			continue
		}
		fields := line.Fields()
		if len(fields) < 4 || fields[1] != RULE_ARROW {
			return nil, c.Errorf(line, "expected '<parent> %s <rhs> <logprob>'", RULE_ARROW)
		}
		prob, perr := strconv.ParseFloat(fields[len(fields)-1], 64)
		if perr != nil {
			return nil, c.Errorf(line, "bad log probability")
		}
		rhs := fields[2 : len(fields)-1]
		switch {
		case lexicon && len(rhs) == 1:
			err = b.AddLexical(fields[0], rhs[0], prob)
		case !lexicon && len(rhs) == 1:
			err = b.AddUnary(fields[0], rhs[0], prob)
		case !lexicon && len(rhs) == 2:
			err = b.AddBinary(fields[0], rhs[0], rhs[1], prob)
		default:
			err = errors.Errorf("%d right-hand-side symbols", len(rhs))
		}
		if err != nil {
			return nil, c.Errorf(line, "%v", err)
		}
	}
	g, err := b.Build()
	if err != nil {
		return nil, &conf.FormatError{Source: source, Line: header.Num, Text: header.Text, Reason: err.Error()}
	}
	return g, nil
}

func parseHeader(fields []string) (string, error) {
	var start string
	for _, field := range fields {
		kv := strings.SplitN(field, "=", 2)
		if len(kv) != 2 {
			return "", errors.Errorf("bad header field %q", field)
		}
		if kv[0] == "start" {
			start = kv[1]
		}
	}
	if start == "" {
		return "", errors.New("header does not name a start symbol")
	}
	return start, nil
}

func ReadFile(filename string) (*Grammar, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening grammar")
	}
	defer file.Close()
	return Read(file, filename)
}

// Write serializes g in the format accepted by Read.
func Write(writer io.Writer, g *Grammar) error {
	w := bufio.NewWriter(writer)
	fmt.Fprintf(w, "start=%s\n", g.NonTermName(g.Start))
	for _, p := range g.productions {
		if !p.IsLexical() {
			writeProduction(w, g, p)
		}
	}
	fmt.Fprintln(w, LEXICON_DELIMITER)
	for _, p := range g.productions {
		if p.IsLexical() {
			writeProduction(w, g, p)
		}
	}
	return errors.Wrap(w.Flush(), "writing grammar")
}

func writeProduction(w io.Writer, g *Grammar, p *Production) {
	fmt.Fprintln(w, p.Format(g))
}
