package perceptron

import (
	"fmt"
	"math"

	"github.com/timvieira/bubs-parser-sub010/alg/featurevector"

	"gonum.org/v1/gonum/mat"
)

// LinearModel is a trained multi-class linear model with weights laid out
// features x classes. It is immutable once loaded and shared between
// parser goroutines; scoring writes only into caller-owned vectors.
type LinearModel struct {
	Weights *mat.Dense
	Link    Link
}

var _ Model = &LinearModel{}

func NewLinearModel(numFeatures, numClasses int, link Link) *LinearModel {
	if numFeatures <= 0 || numClasses <= 0 {
		panic(fmt.Sprintf("Bad model dimensions %dx%d", numFeatures, numClasses))
	}
	return &LinearModel{mat.NewDense(numFeatures, numClasses, nil), link}
}

func (m *LinearModel) NumFeatures() int {
	r, _ := m.Weights.Dims()
	return r
}

func (m *LinearModel) NumClasses() int {
	_, c := m.Weights.Dims()
	return c
}

func (m *LinearModel) SetWeight(feature, class int, weight float64) {
	m.Weights.Set(feature, class, weight)
}

// Scores fills out with one value per class: the raw margin for LINEAR, the
// log of the logistic probability for LOGISTIC (so scores stay log-domain).
func (m *LinearModel) Scores(features *featurevector.Sparse, out *mat.VecDense) {
	features.DotMatrix(m.Weights, out)
	if m.Link == LOGISTIC {
		for j := 0; j < out.Len(); j++ {
			out.SetVec(j, LogSigmoid(out.AtVec(j)))
		}
	}
}

// LogSigmoid is log(1/(1+exp(-z))) without overflow.
func LogSigmoid(z float64) float64 {
	if z >= 0 {
		return -math.Log1p(math.Exp(-z))
	}
	return z - math.Log1p(math.Exp(z))
}
