package types

import (
	"reflect"
	"strings"
)

// Sentence is a tokenized sentence together with the grammar-internal
// lexical indices of its tokens (after unknown-word mapping).
type Sentence struct {
	ID     int
	Tokens []string
	Words  []int
	// Signatures records, per token, the lexical class used for unknown
	// tokens (empty for known tokens).
	Signatures []string
}

func NewSentence(tokens []string, words []int) *Sentence {
	if len(tokens) != len(words) {
		panic("Sentence tokens and words differ in length")
	}
	return &Sentence{Tokens: tokens, Words: words, Signatures: make([]string, len(tokens))}
}

func (s *Sentence) Len() int {
	return len(s.Words)
}

func (s *Sentence) Word(i int) int {
	return s.Words[i]
}

func (s *Sentence) Token(i int) string {
	return s.Tokens[i]
}

func (s *Sentence) Equal(other *Sentence) bool {
	return reflect.DeepEqual(s.Tokens, other.Tokens) && reflect.DeepEqual(s.Words, other.Words)
}

func (s *Sentence) String() string {
	return strings.Join(s.Tokens, " ")
}
