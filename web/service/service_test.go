package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/resalelab/carprice/config"
	"github.com/resalelab/carprice/database"
	"github.com/resalelab/carprice/estimator"
	"github.com/resalelab/carprice/features"
)

func setupDB(t *testing.T) {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Type:   config.DatabaseTypeSQLite,
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "service.db")},
	}
	require.NoError(t, database.InitDB(cfg))
	t.Cleanup(func() { _ = database.CloseDB() })
}

// installLinear publishes a linear model with the given intercept and
// coefficients for the duration of the test.
func installLinear(t *testing.T, intercept float64, coef []float64) {
	t.Helper()
	a := estimator.Artifact{
		Version:       "test-model",
		Kind:          estimator.KindLinear,
		ReferenceYear: features.DefaultReferenceYear,
		Features:      features.FeatureNames,
		Linear:        &estimator.LinearParams{Intercept: intercept, Coefficients: coef},
	}
	l, err := a.Build()
	require.NoError(t, err)
	estimator.Install(l)
	t.Cleanup(estimator.Close)
}
