package util

import (
	"math"
	"os"
	"reflect"
	"testing"
	"unicode"
)

func TestEnumSet(t *testing.T) {
	e := NewEnumSet(4)
	for i, value := range []string{"<null>", "S", "NP"} {
		index, added := e.Add(value)
		if index != i || !added {
			t.Errorf("Add %s: got %d %v", value, index, added)
		}
	}
	if index, added := e.Add("S"); index != 1 || added {
		t.Errorf("Re-adding S: got %d %v", index, added)
	}
	e.Freeze()
	if index, exists := e.IndexOf("NP"); index != 2 || !exists {
		t.Errorf("IndexOf NP: got %d %v", index, exists)
	}
	if _, exists := e.IndexOf("VP"); exists {
		t.Errorf("Found VP")
	}
	if e.ValueOf(1) != "S" || e.Len() != 3 {
		t.Errorf("Got %s, length %d", e.ValueOf(1), e.Len())
	}
	if !reflect.DeepEqual(e.Values(), []string{"<null>", "S", "NP"}) {
		t.Errorf("Got values %v", e.Values())
	}
}

func TestEnumSetPanics(t *testing.T) {
	e := NewEnumSet(1)
	e.Add("a")
	e.Freeze()
	for name, f := range map[string]func(){
		"add":   func() { e.Add("b") },
		"value": func() { e.ValueOf(1) },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: expected a panic", name)
				}
			}()
			f()
		}()
	}
}

func TestRuneTests(t *testing.T) {
	if !TestEach(unicode.IsDigit, "abc1") || TestEach(unicode.IsDigit, "abc") {
		t.Errorf("TestEach failed")
	}
	if !TestAll(unicode.IsSpace, " \t") || TestAll(unicode.IsSpace, " a") || TestAll(unicode.IsSpace, "") {
		t.Errorf("TestAll failed")
	}
	if !IsDash('-') || !IsDash('–') || IsDash('a') {
		t.Errorf("IsDash failed")
	}
}

func TestAffixes(t *testing.T) {
	if Prefix("walking", 3) != "wal" || Prefix("a", 3) != "a" {
		t.Errorf("Prefix failed")
	}
	if Suffix("walking", 3) != "ing" || Suffix("a", 3) != "a" {
		t.Errorf("Suffix failed")
	}
	if suffix, found := HasAnySuffix("quickly", []string{"ed", "ly"}); !found || suffix != "ly" {
		t.Errorf("HasAnySuffix got %s %v", suffix, found)
	}
}

func TestNegInf(t *testing.T) {
	if !IsDegenerate(math.NaN()) || !IsDegenerate(math.Inf(1)) || IsDegenerate(NegInf) || IsDegenerate(-3) {
		t.Errorf("IsDegenerate failed")
	}
	m := NegInfMatrix(2, 3)
	m[0][2] = 1
	if len(m) != 2 || len(m[1]) != 3 || m[1][0] != NegInf || m[0][2] != 1 || cap(m[0]) != 3 {
		t.Errorf("Got matrix %v", m)
	}
}

func TestChecksum(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "model")
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	file.WriteString("abc")
	file.Close()
	if sum := Checksum(file.Name()); sum != "900150983cd24fb0d6963f7d28e17f72" {
		t.Errorf("Got checksum %s", sum)
	}
	if Checksum("") != "-" || Checksum("/nonexistent/model") != "-" {
		t.Errorf("Expected - for missing files")
	}
}
