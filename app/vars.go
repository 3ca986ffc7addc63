package app

import (
	"bufio"
	"os"

	"github.com/golang/glog"
	"github.com/gonuts/commander"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

var (
	// file names
	grammarFile     string
	confFile        string
	fomModelFile    string
	boundaryFile    string
	constraintsFile string
	input           string
	inputGold       string
	outFile         string
)

func VerifyExists(filename string) bool {
	_, err := os.Stat(filename)
	if err != nil {
		glog.Errorf("Error accessing file %s: %v", filename, err)
		return false
	}
	return true
}

func VerifyFlags(cmd *commander.Command, required []string) {
	for _, flag := range required {
		f := cmd.Flag.Lookup(flag)
		if f == nil || f.Value.String() == "" {
			glog.Errorf("Required flag %s not set", flag)
			cmd.Usage()
			os.Exit(1)
		}
	}
}

// ReadLines returns the lines of filename, or of stdin for "" or "-".
func ReadLines(filename string) ([]string, error) {
	file := os.Stdin
	if filename != "" && filename != "-" {
		var err error
		if file, err = os.Open(filename); err != nil {
			return nil, errors.Wrap(err, "opening input")
		}
		defer file.Close()
	}
	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, errors.Wrap(scanner.Err(), "reading input")
}

// CreateOutput opens filename for writing, or returns stdout for "" or "-".
func CreateOutput(filename string) (*os.File, error) {
	if filename == "" || filename == "-" {
		return os.Stdout, nil
	}
	file, err := os.Create(filename)
	return file, errors.Wrap(err, "creating output")
}

// WriteTable renders name/value rows to stderr.
func WriteTable(header []string, rows [][2]string) {
	table := tablewriter.NewWriter(os.Stderr)
	table.SetHeader(header)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, row := range rows {
		table.Append([]string{row[0], row[1]})
	}
	table.Render()
}
