// Package tracker defines the fact store the CLI talks to. Times crossing
// this boundary are store stamps (see timecalc.Stamp); 0 means "not given".
package tracker

import (
	"context"
	"errors"

	"github.com/Tiliavir/hamster-cli/internal/model"
)

// ErrNoActiveFact is returned by StopTracking when nothing is running.
var ErrNoActiveFact = errors.New("no activity is being tracked")

// Store records and lists facts.
type Store interface {
	// AddFact records activity ("name@category, description #tag"). A zero
	// start means now; a zero end leaves the fact running.
	AddFact(ctx context.Context, activity string, start, end int64) error
	// StopTracking ends the running fact now.
	StopTracking(ctx context.Context) error
	// GetFacts returns the facts of every day touched by [start, end]. Callers
	// filter to the exact range.
	GetFacts(ctx context.Context, start, end int64) ([]model.Fact, error)
	GetActivities(ctx context.Context) ([]model.Activity, error)
	GetCategories(ctx context.Context) ([]string, error)
}
