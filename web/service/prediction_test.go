package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resalelab/carprice/estimator"
	"github.com/resalelab/carprice/features"
)

func sampleCar() features.Car {
	return features.Car{
		Year:         2015,
		PresentPrice: 5.0,
		KmsDriven:    27000,
		Owner:        0,
		FuelType:     features.Petrol,
		SellerType:   features.Individual,
		Transmission: features.Manual,
	}
}

func TestProfitable(t *testing.T) {
	assert.True(t, Profitable(0))
	assert.True(t, Profitable(3.5))
	assert.False(t, Profitable(-0.01))
}

func TestVerdict(t *testing.T) {
	assert.Equal(t, "You Can Sell The Car at 0.0 Lakhs", Verdict(0))
	assert.Equal(t, "You Can Sell The Car at 4.25 Lakhs", Verdict(4.25))
	assert.Equal(t, "You Can Sell The Car at 7.0 Lakhs", Verdict(7))
	assert.Equal(t, "Sorry, you cannot sell this car at a profit.", Verdict(-1))
	assert.Equal(t, "Sorry, you cannot sell this car at a profit.", Verdict(-0.01))
}

func TestPredict(t *testing.T) {
	// 0.5*Present_Price - 0.1*Years_Old
	installLinear(t, 0, []float64{0.5, 0, 0, -0.1, 0, 0, 0, 0})
	s := &PredictionService{}

	out, err := s.Predict(sampleCar())
	require.NoError(t, err)
	assert.Equal(t, 2.0, out.Price)
	assert.Equal(t, "test-model", out.ModelVersion)
	assert.Equal(t, "You Can Sell The Car at 2.0 Lakhs", out.Message)
	assert.True(t, out.Profitable())
}

func TestPredictRoundsToTwoDecimals(t *testing.T) {
	installLinear(t, 0.004, []float64{0.3333, 0, 0, 0, 0, 0, 0, 0})
	s := &PredictionService{}

	out, err := s.Predict(sampleCar())
	require.NoError(t, err)
	assert.Equal(t, 1.67, out.Price)
}

func TestPredictNegative(t *testing.T) {
	installLinear(t, -10, make([]float64, len(features.FeatureNames)))
	s := &PredictionService{}

	out, err := s.Predict(sampleCar())
	require.NoError(t, err)
	assert.Equal(t, -10.0, out.Price)
	assert.False(t, out.Profitable())
	assert.Equal(t, "Sorry, you cannot sell this car at a profit.", out.Message)
}

func TestPredictWithoutModel(t *testing.T) {
	estimator.Close()
	s := &PredictionService{}

	_, err := s.Predict(sampleCar())
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestPredictInvalidCar(t *testing.T) {
	installLinear(t, 0, make([]float64, len(features.FeatureNames)))
	s := &PredictionService{}

	car := sampleCar()
	car.KmsDriven = -1
	_, err := s.Predict(car)
	assert.ErrorIs(t, err, features.ErrInvalidInput)
}

func TestNewRecord(t *testing.T) {
	out := Outcome{Car: sampleCar(), Price: 2, ModelVersion: "v1"}
	rec := NewRecord("alice", out)
	assert.Equal(t, "alice", rec.Username)
	assert.Equal(t, "Petrol", rec.FuelType)
	assert.Equal(t, "Individual", rec.SellerType)
	assert.Equal(t, "Manual", rec.Transmission)
	assert.Equal(t, int64(27000), rec.KmsDriven)
	assert.Equal(t, 2.0, rec.PredictedPrice)
	assert.Equal(t, "v1", rec.ModelVersion)
}
