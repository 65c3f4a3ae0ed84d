package profileform

import (
	"context"

	"github.com/riskibarqy/pawmatch/internal/domain/profile"
)

// Loader fetches the current user's profile. found is false when the user has none yet.
type Loader interface {
	LoadProfile(ctx context.Context) (p profile.Profile, found bool, err error)
}

// UpdateResult is the outcome reported by an Updater that did not fail outright.
type UpdateResult struct {
	Success bool
	Error   string
}

// Updater persists the edited profile. A returned error is a thrown failure,
// an unsuccessful UpdateResult is a rejected one.
type Updater interface {
	UpdateProfile(ctx context.Context, p profile.Profile) (UpdateResult, error)
}

// Navigator moves the owner of the form away from it.
type Navigator interface {
	Back()
	Push(path string)
}

type LoaderFunc func(ctx context.Context) (profile.Profile, bool, error)

func (f LoaderFunc) LoadProfile(ctx context.Context) (profile.Profile, bool, error) {
	return f(ctx)
}

type UpdaterFunc func(ctx context.Context, p profile.Profile) (UpdateResult, error)

func (f UpdaterFunc) UpdateProfile(ctx context.Context, p profile.Profile) (UpdateResult, error) {
	return f(ctx, p)
}

// NopNavigator ignores navigation. Used by hosts that read Snapshot.NavigatedTo instead.
type NopNavigator struct{}

func (NopNavigator) Back()       {}
func (NopNavigator) Push(string) {}
