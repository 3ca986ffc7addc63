package util

import (
	"math"
	"strings"
	. "unicode"
	"unicode/utf8"
)

type RuneTester func(r rune) bool

// TestEach reports whether any rune of s passes t.
func TestEach(t RuneTester, s string) bool {
	for i, w := 0, 0; i < len(s); i += w {
		runeValue, width := utf8.DecodeRuneInString(s[i:])
		if t(runeValue) {
			return true
		}
		w = width
	}
	return false
}

// TestAll reports whether every rune of s passes t.
func TestAll(t RuneTester, s string) bool {
	for _, r := range s {
		if !t(r) {
			return false
		}
	}
	return len(s) > 0
}

func IsDash(r rune) bool {
	return r == '-' || Is(Pd, r)
}

func Prefix(s string, n int) string {
	return s[0:min(len(s), n)]
}

func Suffix(s string, n int) string {
	return s[max(len(s)-n, 0):]
}

func HasAnySuffix(s string, suffixes []string) (string, bool) {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return suffix, true
		}
	}
	return "", false
}

// IsDegenerate reports a log-probability that would corrupt max comparisons:
// NaN or +Inf. -Inf is the legitimate "no derivation" value.
func IsDegenerate(logProb float64) bool {
	return math.IsNaN(logProb) || math.IsInf(logProb, 1)
}

// NegInf is the "no derivation" score.
var NegInf = math.Inf(-1)

// FillNegInf resets every entry of v to NegInf.
func FillNegInf(v []float64) {
	for i := range v {
		v[i] = NegInf
	}
}

func NegInfMatrix(rows, cols int) [][]float64 {
	backing := make([]float64, rows*cols)
	FillNegInf(backing)
	retval := make([][]float64, rows)
	for i := range retval {
		retval[i] = backing[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return retval
}
