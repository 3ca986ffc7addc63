package conf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Line is a non-comment, non-blank line of a model or grammar file.
type Line struct {
	Num  int
	Text string
}

// Fields splits the line on whitespace.
func (l Line) Fields() []string {
	return strings.Fields(l.Text)
}

type Conf struct {
	Source string
	Lines  []Line
}

// Values returns the raw text of every line.
func (c *Conf) Values() []string {
	retval := make([]string, len(c.Lines))
	for i, line := range c.Lines {
		retval[i] = line.Text
	}
	return retval
}

// Errorf builds a FormatError for a line of this conf.
func (c *Conf) Errorf(line Line, format string, args ...interface{}) error {
	return &FormatError{c.Source, line.Num, line.Text, fmt.Sprintf(format, args...)}
}

// FormatError reports a malformed line in a model, grammar or constraints file.
type FormatError struct {
	Source string
	Line   int
	Text   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s:%d: %s (%q)", e.Source, e.Line, e.Reason, e.Text)
}

// IsComment is the default comment test: a line starting with '#'.
func IsComment(line string) bool {
	return line[0] == '#'
}

// Read collects the lines of reader, skipping blank lines and '#' comments.
func Read(reader io.Reader, source string) (*Conf, error) {
	return ReadFunc(reader, source, IsComment)
}

// ReadFunc is Read with a custom comment test, for formats where '#' may
// start a meaningful line (e.g. the "#" part of speech in a lexicon).
func ReadFunc(reader io.Reader, source string, comment func(string) bool) (*Conf, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	retval := &Conf{Source: source}
	num := 0
	for scanner.Scan() {
		num++
		line := strings.TrimSpace(scanner.Text())
		if len(line) > 0 && !comment(line) {
			retval.Lines = append(retval.Lines, Line{num, line})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", source)
	}
	return retval, nil
}

func ReadFile(filename string) (*Conf, error) {
	return ReadFileFunc(filename, IsComment)
}

func ReadFileFunc(filename string, comment func(string) bool) (*Conf, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening conf file")
	}
	defer file.Close()

	return ReadFunc(file, filename, comment)
}
