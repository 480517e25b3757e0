package service

import (
	"fmt"
	"math"

	"github.com/resalelab/carprice/estimator"
	"github.com/resalelab/carprice/features"
	"github.com/resalelab/carprice/util/common"
)

const cannotSellMessage = "Sorry, you cannot sell this car at a profit."

// Outcome is the result of one successful prediction.
type Outcome struct {
	Car          features.Car
	Price        float64
	ModelVersion string
	Message      string
}

// Profitable reports whether the price is shown to the user.
func (o Outcome) Profitable() bool {
	return Profitable(o.Price)
}

// Profitable reports whether a stored or predicted price may be displayed.
// Zero counts as a sale.
func Profitable(price float64) bool {
	return price >= 0
}

type PredictionService struct{}

// Predict normalizes car against the loaded model's reference year and
// returns the price rounded to two decimals.
func (s *PredictionService) Predict(car features.Car) (Outcome, error) {
	m, err := estimator.Current()
	if err != nil {
		return Outcome{}, err
	}

	vec, err := features.Normalize(car, m.ReferenceYear)
	if err != nil {
		return Outcome{}, err
	}

	raw, err := m.Predict(vec)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return Outcome{}, fmt.Errorf("%w: model returned %v", ErrModelUnavailable, raw)
	}

	price := common.RoundPrice(raw)
	return Outcome{
		Car:          car,
		Price:        price,
		ModelVersion: m.Version,
		Message:      Verdict(price),
	}, nil
}

// Verdict is the text shown for a rounded price. Zero counts as a sale; a
// negative price is never shown.
func Verdict(price float64) string {
	if Profitable(price) {
		return fmt.Sprintf("You Can Sell The Car at %s Lakhs", common.FormatFloat(price))
	}
	return cannotSellMessage
}

// Ready returns ErrModelUnavailable when no model is loaded.
func (s *PredictionService) Ready() error {
	_, err := estimator.Current()
	return err
}

// ModelVersion returns the version of the loaded model, or "".
func (s *PredictionService) ModelVersion() string {
	m, err := estimator.Current()
	if err != nil {
		return ""
	}
	return m.Version
}
