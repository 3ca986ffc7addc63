package perceptron

import (
	"github.com/timvieira/bubs-parser-sub010/alg/featurevector"

	"gonum.org/v1/gonum/mat"
)

// Model scores a feature vector against every output class at once.
type Model interface {
	NumClasses() int
	NumFeatures() int
	Scores(features *featurevector.Sparse, out *mat.VecDense)
}

type Link byte

const (
	LINEAR Link = iota
	LOGISTIC
)

func (l Link) String() string {
	switch l {
	case LINEAR:
		return "linear"
	case LOGISTIC:
		return "logistic"
	default:
		return "unknown"
	}
}

func ParseLink(s string) (Link, bool) {
	switch s {
	case "", "linear", "perceptron":
		return LINEAR, true
	case "logistic", "logit":
		return LOGISTIC, true
	}
	return LINEAR, false
}
