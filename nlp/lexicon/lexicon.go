// Package lexicon maps raw tokens to grammar word indices, substituting
// unknown-word signature classes for tokens the grammar has not seen.
package lexicon

import (
	"strings"
	"unicode"

	"github.com/timvieira/bubs-parser-sub010/nlp/grammar"
	"github.com/timvieira/bubs-parser-sub010/nlp/types"
	"github.com/timvieira/bubs-parser-sub010/util"

	"github.com/golang/glog"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax29"
	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrNoUnknownClass = errors.New("grammar has no unknown-word class")

	// checked in order, first match wins
	SUFFIXES = []string{"ed", "ing", "ion", "er", "est", "ly", "ity", "y", "al"}
)

type Lexicon struct {
	Grammar grammar.Interface
}

func New(g grammar.Interface) *Lexicon {
	return &Lexicon{g}
}

// Normalize returns the NFC form of token.
func Normalize(token string) string {
	return norm.NFC.String(token)
}

// Tokenize splits pre-tokenized input on whitespace.
func Tokenize(line string) []string {
	return strings.Fields(line)
}

// Segment splits raw text into words by Unicode word boundaries (UAX #29),
// dropping whitespace.
func Segment(raw string) ([]string, error) {
	segmenter := segment.NewSegmenter(uax29.NewWordBreaker(1))
	segmenter.Init(strings.NewReader(raw))
	var tokens []string
	for segmenter.Next() {
		text := segmenter.Text()
		if len(text) == 0 || util.TestAll(unicode.IsSpace, text) {
			continue
		}
		tokens = append(tokens, text)
	}
	if err := segmenter.Err(); err != nil {
		return nil, errors.Wrap(err, "segmenting input")
	}
	return tokens, nil
}

// Sentence maps tokens to grammar word indices. Unknown tokens take the
// most specific signature class the grammar knows.
func (l *Lexicon) Sentence(tokens []string) (*types.Sentence, error) {
	words := make([]int, len(tokens))
	normalized := make([]string, len(tokens))
	signatures := make([]string, len(tokens))
	for i, token := range tokens {
		token = Normalize(token)
		normalized[i] = token
		if word, exists := l.Grammar.WordIndex(token); exists {
			words[i] = word
			continue
		}
		class, word, err := l.Unknown(token, i == 0)
		if err != nil {
			return nil, errors.Wrapf(err, "token %d %q", i, token)
		}
		glog.V(3).Infof("Unknown token %q mapped to %s", token, class)
		words[i] = word
		signatures[i] = class
	}
	sent := types.NewSentence(normalized, words)
	sent.Signatures = signatures
	return sent, nil
}

// Unknown backs off from the full signature of token, dropping trailing
// "-" components until the grammar knows the class.
func (l *Lexicon) Unknown(token string, sentenceInitial bool) (string, int, error) {
	sig := l.Signature(token, sentenceInitial)
	for {
		if word, exists := l.Grammar.WordIndex(sig); exists {
			return sig, word, nil
		}
		cut := strings.LastIndex(sig, "-")
		if cut < 0 {
			return "", 0, ErrNoUnknownClass
		}
		sig = sig[:cut]
	}
}

// Signature computes the unknown-word class of token, e.g. UNK-INITC-s.
func (l *Lexicon) Signature(token string, sentenceInitial bool) string {
	var (
		sig                  strings.Builder
		numCaps              int
		hasDigit, hasDash    bool
		hasLower, firstUpper bool
	)
	sig.WriteString(grammar.UNKNOWN_WORD)
	for i, r := range token {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case util.IsDash(r):
			hasDash = true
		case unicode.IsLetter(r):
			if unicode.IsLower(r) {
				hasLower = true
			} else if unicode.IsTitle(r) || unicode.IsUpper(r) {
				numCaps++
				if i == 0 {
					firstUpper = true
				}
			}
		}
	}
	lower := strings.ToLower(token)
	switch {
	case firstUpper:
		if sentenceInitial && numCaps == 1 {
			sig.WriteString("-INITC")
			if _, known := l.Grammar.WordIndex(lower); known {
				sig.WriteString("-KNOWNLC")
			}
		} else {
			sig.WriteString("-CAPS")
		}
	case numCaps > 0:
		sig.WriteString("-CAPS")
	case hasLower:
		sig.WriteString("-LC")
	}
	if hasDigit {
		sig.WriteString("-NUM")
	}
	if hasDash {
		sig.WriteString("-DASH")
	}
	runes := []rune(lower)
	if len(runes) >= 3 && runes[len(runes)-1] == 's' && !strings.ContainsRune("siu", runes[len(runes)-2]) {
		sig.WriteString("-s")
	} else if len(runes) >= 5 && !hasDash && !(hasDigit && numCaps > 0) {
		if suffix, found := util.HasAnySuffix(lower, SUFFIXES); found {
			sig.WriteString("-" + suffix)
		}
	}
	return sig.String()
}
