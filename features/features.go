// Package features turns the prediction form into the fixed-order numeric
// vector the price model was trained on.
package features

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultReferenceYear is the year vehicle age is measured against when the
// model artifact does not name one.
const DefaultReferenceYear = 2020

// FeatureNames is the column order of Vector. Models are trained on this
// exact order; a different order yields wrong prices without any error.
var FeatureNames = []string{
	"Present_Price",
	"Kms_Driven_Log",
	"Owner",
	"Years_Old",
	"Fuel_Type_Diesel",
	"Fuel_Type_Petrol",
	"Seller_Type_Individual",
	"Transmission_Manual",
}

// Form field names.
const (
	FieldYear         = "Year"
	FieldPresentPrice = "Present_Price"
	FieldKmsDriven    = "Kms_Driven"
	FieldOwner        = "Owner"
	FieldFuelType     = "Fuel_Type"
	FieldSellerType   = "Seller_Type"
	FieldTransmission = "Transmission"
)

// Older forms posted the categorical fields under their one-hot column names.
var legacyFields = map[string]string{
	FieldFuelType:     "Fuel_Type_Petrol",
	FieldSellerType:   "Seller_Type_Individual",
	FieldTransmission: "Transmission_Mannual",
}

type FuelType string

const (
	Petrol FuelType = "Petrol"
	Diesel FuelType = "Diesel"
	CNG    FuelType = "CNG"
)

type SellerType string

const (
	Individual SellerType = "Individual"
	Dealer     SellerType = "Dealer"
)

type Transmission string

const (
	Manual    Transmission = "Manual"
	Automatic Transmission = "Automatic"
)

var ErrInvalidInput = errors.New("invalid input")

// FieldError reports which form field failed to parse or validate.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

func fieldErr(field, format string, a ...any) error {
	return &FieldError{Field: field, Reason: fmt.Sprintf(format, a...)}
}

// Car holds validated form values.
type Car struct {
	Year         int
	PresentPrice float64
	KmsDriven    int64
	Owner        int
	FuelType     FuelType
	SellerType   SellerType
	Transmission Transmission
}

// Vector is a model input in FeatureNames order.
type Vector []float64

// Lookup returns a raw form value; gin's Context.GetPostForm satisfies it.
type Lookup func(key string) (string, bool)

// Parse reads and validates every field. The first failure is returned as
// a *FieldError wrapping ErrInvalidInput.
func Parse(lookup Lookup) (Car, error) {
	var car Car

	raw, err := required(lookup, FieldYear)
	if err != nil {
		return Car{}, err
	}
	if car.Year, err = strconv.Atoi(raw); err != nil {
		return Car{}, fieldErr(FieldYear, "not an integer")
	}

	if raw, err = required(lookup, FieldPresentPrice); err != nil {
		return Car{}, err
	}
	if car.PresentPrice, err = strconv.ParseFloat(raw, 64); err != nil {
		return Car{}, fieldErr(FieldPresentPrice, "not a number")
	}

	if raw, err = required(lookup, FieldKmsDriven); err != nil {
		return Car{}, err
	}
	if car.KmsDriven, err = strconv.ParseInt(raw, 10, 64); err != nil {
		return Car{}, fieldErr(FieldKmsDriven, "not an integer")
	}

	if raw, err = required(lookup, FieldOwner); err != nil {
		return Car{}, err
	}
	if car.Owner, err = strconv.Atoi(raw); err != nil {
		return Car{}, fieldErr(FieldOwner, "not an integer")
	}

	if raw, err = required(lookup, FieldFuelType); err != nil {
		return Car{}, err
	}
	if car.FuelType, err = ParseFuelType(raw); err != nil {
		return Car{}, err
	}

	if raw, err = required(lookup, FieldSellerType); err != nil {
		return Car{}, err
	}
	if car.SellerType, err = ParseSellerType(raw); err != nil {
		return Car{}, err
	}

	if raw, err = required(lookup, FieldTransmission); err != nil {
		return Car{}, err
	}
	if car.Transmission, err = ParseTransmission(raw); err != nil {
		return Car{}, err
	}

	return car, car.Validate()
}

func required(lookup Lookup, field string) (string, error) {
	v, ok := lookup(field)
	if !ok {
		if legacy, has := legacyFields[field]; has {
			v, ok = lookup(legacy)
		}
	}
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", fieldErr(field, "missing")
	}
	return v, nil
}

func ParseFuelType(s string) (FuelType, error) {
	switch strings.TrimSpace(s) {
	case string(Petrol):
		return Petrol, nil
	case string(Diesel):
		return Diesel, nil
	case string(CNG):
		return CNG, nil
	}
	return "", fieldErr(FieldFuelType, "unknown fuel type %q", s)
}

func ParseSellerType(s string) (SellerType, error) {
	switch strings.TrimSpace(s) {
	case string(Individual):
		return Individual, nil
	case string(Dealer):
		return Dealer, nil
	}
	return "", fieldErr(FieldSellerType, "unknown seller type %q", s)
}

// ParseTransmission also accepts the misspelled "Mannual" older forms used.
func ParseTransmission(s string) (Transmission, error) {
	switch strings.TrimSpace(s) {
	case string(Manual), "Mannual":
		return Manual, nil
	case string(Automatic):
		return Automatic, nil
	}
	return "", fieldErr(FieldTransmission, "unknown transmission %q", s)
}

// Validate checks ranges of the numeric fields and the categorical values.
func (c Car) Validate() error {
	if c.Year < 1000 || c.Year > 9999 {
		return fieldErr(FieldYear, "must be a four-digit year")
	}
	if math.IsNaN(c.PresentPrice) || math.IsInf(c.PresentPrice, 0) || c.PresentPrice < 0 {
		return fieldErr(FieldPresentPrice, "must be a non-negative number")
	}
	if c.KmsDriven < 0 {
		return fieldErr(FieldKmsDriven, "must not be negative")
	}
	if c.Owner < 0 {
		return fieldErr(FieldOwner, "must not be negative")
	}
	switch c.FuelType {
	case Petrol, Diesel, CNG:
	default:
		return fieldErr(FieldFuelType, "unknown fuel type %q", c.FuelType)
	}
	switch c.SellerType {
	case Individual, Dealer:
	default:
		return fieldErr(FieldSellerType, "unknown seller type %q", c.SellerType)
	}
	switch c.Transmission {
	case Manual, Automatic:
	default:
		return fieldErr(FieldTransmission, "unknown transmission %q", c.Transmission)
	}
	return nil
}

// Normalize derives the model input. Age is counted from referenceYear, not
// the current calendar year.
func Normalize(car Car, referenceYear int) (Vector, error) {
	if err := car.Validate(); err != nil {
		return nil, err
	}
	if referenceYear <= 0 {
		referenceYear = DefaultReferenceYear
	}

	var diesel, petrol float64
	switch car.FuelType {
	case Diesel:
		diesel = 1
	case Petrol:
		petrol = 1
	}

	return Vector{
		car.PresentPrice,
		math.Log(float64(car.KmsDriven) + 1),
		float64(car.Owner),
		float64(referenceYear - car.Year),
		diesel,
		petrol,
		indicator(car.SellerType == Individual),
		indicator(car.Transmission == Manual),
	}, nil
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
