package featurevector

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

const BASE_SIZE int = 16

type Feature struct {
	Index int
	Value float64
}

// Sparse is a real-valued feature vector. Indicator features carry 1.0.
// Features are kept in insertion order so dot products sum deterministically.
type Sparse struct {
	Features []Feature
}

func NewSparse() *Sparse {
	return &Sparse{make([]Feature, 0, BASE_SIZE)}
}

func (v *Sparse) Add(index int, value float64) {
	if value == 0.0 {
		return
	}
	v.Features = append(v.Features, Feature{index, value})
}

func (v *Sparse) Len() int {
	return len(v.Features)
}

func (v *Sparse) Clear() {
	v.Features = v.Features[0:0]
}

// DotMatrix computes out = vᵀ·m where m is features x outputs. Rows past
// the matrix are ignored.
func (v *Sparse) DotMatrix(m mat.Matrix, out *mat.VecDense) {
	rows, cols := m.Dims()
	if out.Len() != cols {
		panic(fmt.Sprintf("output length %d does not match %d matrix columns", out.Len(), cols))
	}
	out.Zero()
	var rowView mat.RowViewer
	rowView, _ = m.(mat.RowViewer)
	for _, f := range v.Features {
		if f.Index < 0 || f.Index >= rows {
			continue
		}
		if rowView != nil {
			out.AddScaledVec(out, f.Value, rowView.RowView(f.Index))
			continue
		}
		for j := 0; j < cols; j++ {
			out.SetVec(j, out.AtVec(j)+f.Value*m.At(f.Index, j))
		}
	}
}

func (v *Sparse) String() string {
	strs := make([]string, len(v.Features))
	for i, f := range v.Features {
		strs[i] = fmt.Sprintf("%v:%v", f.Index, f.Value)
	}
	return strings.Join(strs, " ")
}
