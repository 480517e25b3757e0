package estimator

import (
	"fmt"
	"os"
	"slices"

	"github.com/goccy/go-json"

	"github.com/resalelab/carprice/features"
)

const (
	KindLinear = "linear"
	KindForest = "forest"
)

// Artifact is the on-disk model description.
type Artifact struct {
	Version       string        `json:"version"`
	Kind          string        `json:"kind"`
	ReferenceYear int           `json:"reference_year"`
	Features      []string      `json:"features"`
	Linear        *LinearParams `json:"linear,omitempty"`
	Forest        *ForestParams `json:"forest,omitempty"`
}

// Regressor maps a feature vector to a price in Lakhs.
type Regressor interface {
	Predict(x features.Vector) (float64, error)
}

// Loaded is a decoded, validated model. It is never mutated after Load.
type Loaded struct {
	Version       string
	Kind          string
	ReferenceYear int
	regressor     Regressor
}

func (l *Loaded) Predict(x features.Vector) (float64, error) {
	if len(x) != len(features.FeatureNames) {
		return 0, fmt.Errorf("expected %d features, got %d", len(features.FeatureNames), len(x))
	}
	return l.regressor.Predict(x)
}

// Load reads and decodes the artifact at path.
func Load(path string) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode validates an artifact and builds its regressor.
func Decode(data []byte) (*Loaded, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	return a.Build()
}

func (a *Artifact) Build() (*Loaded, error) {
	if !slices.Equal(a.Features, features.FeatureNames) {
		return nil, fmt.Errorf("model feature order %v does not match %v", a.Features, features.FeatureNames)
	}
	refYear := a.ReferenceYear
	if refYear == 0 {
		refYear = features.DefaultReferenceYear
	}
	if refYear < 0 {
		return nil, fmt.Errorf("invalid reference_year %d", refYear)
	}

	var (
		r   Regressor
		err error
	)
	switch a.Kind {
	case KindLinear:
		if a.Linear == nil {
			return nil, fmt.Errorf("linear model without parameters")
		}
		r, err = newLinear(a.Linear)
	case KindForest:
		if a.Forest == nil {
			return nil, fmt.Errorf("forest model without trees")
		}
		r, err = newForest(a.Forest)
	default:
		return nil, fmt.Errorf("unsupported model kind %q", a.Kind)
	}
	if err != nil {
		return nil, err
	}

	version := a.Version
	if version == "" {
		version = "unversioned"
	}
	return &Loaded{
		Version:       version,
		Kind:          a.Kind,
		ReferenceYear: refYear,
		regressor:     r,
	}, nil
}
