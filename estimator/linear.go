package estimator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/resalelab/carprice/features"
)

type LinearParams struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

type linear struct {
	intercept float64
	coef      *mat.VecDense
}

func newLinear(p *LinearParams) (*linear, error) {
	if len(p.Coefficients) != len(features.FeatureNames) {
		return nil, fmt.Errorf("linear model has %d coefficients, want %d", len(p.Coefficients), len(features.FeatureNames))
	}
	for i, c := range p.Coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("coefficient %d is not finite", i)
		}
	}
	coef := make([]float64, len(p.Coefficients))
	copy(coef, p.Coefficients)
	return &linear{intercept: p.Intercept, coef: mat.NewVecDense(len(coef), coef)}, nil
}

func (l *linear) Predict(x features.Vector) (float64, error) {
	if len(x) != l.coef.Len() {
		return 0, fmt.Errorf("expected %d features, got %d", l.coef.Len(), len(x))
	}
	v := mat.NewVecDense(len(x), append([]float64(nil), x...))
	return l.intercept + mat.Dot(l.coef, v), nil
}
