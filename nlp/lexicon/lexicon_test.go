package lexicon

import (
	"reflect"
	"strings"
	"testing"

	"github.com/timvieira/bubs-parser-sub010/nlp/grammar"

	"github.com/pkg/errors"
)

const LEXICON_GRAMMAR = `start=S
S => NP VP 0
===== LEXICON =====
NP => dogs -1
VP => running -1
VP => bark -1
NP => UNK -5
NP => UNK-LC -4
NP => UNK-INITC -3
NP => UNK-CAPS -3
NP => UNK-NUM -3
`

func lexiconGrammar(t *testing.T, text string) *grammar.Grammar {
	g, err := grammar.Read(strings.NewReader(text), "lexicon")
	if err != nil {
		t.Fatalf("Failed to read grammar: %v", err)
	}
	return g
}

func TestSignature(t *testing.T) {
	l := New(lexiconGrammar(t, LEXICON_GRAMMAR))
	cases := []struct {
		token    string
		initial  bool
		expected string
	}{
		{"Running", true, "UNK-INITC-KNOWNLC-ing"},
		{"Zebra", true, "UNK-INITC"},
		{"Zebra", false, "UNK-CAPS"},
		{"IBM", true, "UNK-CAPS"},
		{"cats", false, "UNK-LC-s"},
		{"class", false, "UNK-LC"},
		{"1990", false, "UNK-NUM"},
		{"well-known", false, "UNK-LC-DASH"},
		{"quickly", false, "UNK-LC-ly"},
		{"iPod", false, "UNK-CAPS"},
	}
	for _, c := range cases {
		if sig := l.Signature(c.token, c.initial); sig != c.expected {
			t.Errorf("Signature(%q, %v): expected %s got %s", c.token, c.initial, c.expected, sig)
		}
	}
}

func TestSentence(t *testing.T) {
	g := lexiconGrammar(t, LEXICON_GRAMMAR)
	l := New(g)
	sent, err := l.Sentence([]string{"Zebras", "bark", "loudly", "42"})
	if err != nil {
		t.Fatalf("Got error %v", err)
	}
	expected := make([]int, 4)
	for i, word := range []string{"UNK-INITC", "bark", "UNK-LC", "UNK-NUM"} {
		expected[i], _ = g.WordIndex(word)
	}
	if !reflect.DeepEqual(sent.Words, expected) {
		t.Errorf("Expected words %v got %v", expected, sent.Words)
	}
	if !reflect.DeepEqual(sent.Signatures, []string{"UNK-INITC", "", "UNK-LC", "UNK-NUM"}) {
		t.Errorf("Got signatures %v", sent.Signatures)
	}
	if sent.Len() != 4 || sent.Token(0) != "Zebras" {
		t.Errorf("Bad sentence %v", sent)
	}
}

func TestSentenceNoUnknownClass(t *testing.T) {
	g := lexiconGrammar(t, "start=S\n===== LEXICON =====\nS => a 0\n")
	_, err := New(g).Sentence([]string{"a", "b"})
	if errors.Cause(err) != ErrNoUnknownClass {
		t.Errorf("Expected ErrNoUnknownClass, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	// e + combining acute composes to a single rune
	if n := Normalize("cafe\u0301"); n != "caf\u00e9" {
		t.Errorf("Expected composed form, got %q", n)
	}
}

func TestTokenize(t *testing.T) {
	if tokens := Tokenize("  the dog\tbarks \n"); !reflect.DeepEqual(tokens, []string{"the", "dog", "barks"}) {
		t.Errorf("Got tokens %v", tokens)
	}
}

func TestSegment(t *testing.T) {
	tokens, err := Segment("Hello world.")
	if err != nil {
		t.Fatalf("Got error %v", err)
	}
	if !reflect.DeepEqual(tokens, []string{"Hello", "world", "."}) {
		t.Errorf("Got segments %q", tokens)
	}
}
