package conf

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

const MODEL = `# header
LB NP | DT -0.5

RB DT | NP -1
# => # -2
`

func TestRead(t *testing.T) {
	c, err := Read(strings.NewReader(MODEL), "model")
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	expected := []Line{{2, "LB NP | DT -0.5"}, {4, "RB DT | NP -1"}}
	if !reflect.DeepEqual(c.Lines, expected) {
		t.Errorf("Got lines %v", c.Lines)
	}
	if !reflect.DeepEqual(c.Lines[1].Fields(), []string{"RB", "DT", "|", "NP", "-1"}) {
		t.Errorf("Got fields %v", c.Lines[1].Fields())
	}
}

func TestReadFunc(t *testing.T) {
	rules := func(line string) bool {
		return IsComment(line) && !strings.Contains(line, "=>")
	}
	c, err := ReadFunc(strings.NewReader(MODEL), "model", rules)
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	if values := c.Values(); len(values) != 3 || values[2] != "# => # -2" {
		t.Errorf("Got values %v", values)
	}
}

func TestFormatError(t *testing.T) {
	c, _ := Read(strings.NewReader(MODEL), "model")
	err := errors.Wrap(c.Errorf(c.Lines[1], "bad %s", "entry"), "loading")
	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Expected a FormatError, got %v", err)
	}
	if formatErr.Line != 4 || formatErr.Reason != "bad entry" || formatErr.Source != "model" {
		t.Errorf("Got %+v", formatErr)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile("/nonexistent/model"); err == nil {
		t.Errorf("Expected an error")
	}
}
