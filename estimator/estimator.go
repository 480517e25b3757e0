// Package estimator loads the price model artifact and publishes it as a
// process-wide read-only value.
//
// The model is either available, after a successful Init, or unavailable:
// before Init, after a failed Init and after Close. Current reports the
// unavailable state as ErrUnavailable and never returns a nil model with a
// nil error.
package estimator

import (
	"errors"
	"fmt"

	"go.uber.org/atomic"

	"github.com/resalelab/carprice/logger"
	"github.com/resalelab/carprice/util/metrics"
)

var ErrUnavailable = errors.New("prediction model unavailable")

var current atomic.Pointer[Loaded]

// Init loads the artifact at path. On failure the previous model, if any,
// is dropped and the error wraps ErrUnavailable.
func Init(path string) error {
	l, err := Load(path)
	if err != nil {
		Install(nil)
		return fmt.Errorf("%w: load %s: %v", ErrUnavailable, path, err)
	}
	Install(l)
	logger.Infof("loaded %s model %s (reference year %d)", l.Kind, l.Version, l.ReferenceYear)
	return nil
}

// Install publishes l, or marks the model unavailable when l is nil.
func Install(l *Loaded) {
	current.Store(l)
	metrics.SetModelLoaded(l != nil)
}

func Current() (*Loaded, error) {
	l := current.Load()
	if l == nil {
		return nil, ErrUnavailable
	}
	return l, nil
}

func Available() bool {
	return current.Load() != nil
}

func Close() {
	Install(nil)
}
