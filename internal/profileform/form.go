// Package profileform implements the profile edit form: load the current
// profile, edit it through typed commands, submit it and navigate away.
package profileform

import (
	"context"
	"errors"
	"sync"

	"github.com/riskibarqy/pawmatch/internal/domain/profile"
	"github.com/riskibarqy/pawmatch/internal/platform/logging"
)

const (
	ProfilePath = "/profile"

	LoadFailedMessage   = "Failed to load profile"
	UpdateFailedMessage = "Failed to update profile."
)

var (
	ErrNotReady         = errors.New("profile form is still loading")
	ErrSubmitInProgress = errors.New("profile submit already in progress")
	ErrClosed           = errors.New("profile form is closed")
	ErrDiscarded        = errors.New("profile form closed while request was in flight")
)

type Status string

const (
	StatusLoading    Status = "loading"
	StatusReady      Status = "ready"
	StatusSubmitting Status = "submitting"
	StatusNavigated  Status = "navigated"
	StatusClosed     Status = "closed"
)

// Form holds the local editable copy of a profile. It is safe for concurrent use;
// collaborator calls run outside the lock and their results are dropped once
// the form has been closed.
type Form struct {
	loader    Loader
	updater   Updater
	navigator Navigator
	logger    *logging.Logger

	mu          sync.Mutex
	values      profile.Profile
	status      Status
	loading     bool
	saving      bool
	errMsg      string
	navigatedTo string
	generation  uint64
}

func New(loader Loader, updater Updater, navigator Navigator, logger *logging.Logger) *Form {
	if navigator == nil {
		navigator = NopNavigator{}
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Form{
		loader:    loader,
		updater:   updater,
		navigator: navigator,
		logger:    logger,
		values:    profile.Placeholder(),
		status:    StatusLoading,
		loading:   true,
	}
}

// Load fetches the profile and replaces the placeholder values. A failed fetch
// leaves the placeholder in place and sets the load error. loading is cleared
// either way.
func (f *Form) Load(ctx context.Context) Snapshot {
	f.mu.Lock()
	if f.terminal() {
		defer f.mu.Unlock()
		return f.snapshotLocked()
	}
	gen := f.generation
	f.loading = true
	f.status = StatusLoading
	f.mu.Unlock()

	fetched, found, err := f.loader.LoadProfile(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation {
		f.logger.DebugContext(ctx, "discard stale profile load")
		return f.snapshotLocked()
	}

	f.loading = false
	f.status = StatusReady
	switch {
	case err != nil:
		f.logger.WarnContext(ctx, "load profile failed", "error", err)
		f.errMsg = LoadFailedMessage
	case found:
		f.values = profile.FromFetched(fetched)
		f.errMsg = ""
	default:
		f.errMsg = ""
	}

	return f.snapshotLocked()
}

// Dispatch applies one command to the local values.
func (f *Form) Dispatch(cmd Command) (Snapshot, error) {
	return f.DispatchAll(cmd)
}

// DispatchAll applies commands in order as a single edit.
func (f *Form) DispatchAll(cmds ...Command) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.terminal() {
		return f.snapshotLocked(), ErrClosed
	}
	if f.loading {
		return f.snapshotLocked(), ErrNotReady
	}

	values := f.values
	for _, cmd := range cmds {
		values = Reduce(values, cmd)
	}
	f.values = values

	return f.snapshotLocked(), nil
}

// ApplyFields converts named input events and applies them. Nothing is applied
// if any change is invalid.
func (f *Form) ApplyFields(changes []FieldChange) (Snapshot, error) {
	cmds, err := CommandsFromFields(changes)
	if err != nil {
		return f.Snapshot(), err
	}
	return f.DispatchAll(cmds...)
}

// Submit sends the full local values to the Updater. Rejections are reported
// through Snapshot.Error; a successful update navigates to the profile view.
func (f *Form) Submit(ctx context.Context) (Snapshot, error) {
	f.mu.Lock()
	switch {
	case f.terminal():
		defer f.mu.Unlock()
		return f.snapshotLocked(), ErrClosed
	case f.loading:
		defer f.mu.Unlock()
		return f.snapshotLocked(), ErrNotReady
	case f.saving:
		defer f.mu.Unlock()
		return f.snapshotLocked(), ErrSubmitInProgress
	}
	gen := f.generation
	f.saving = true
	f.errMsg = ""
	f.status = StatusSubmitting
	payload := f.values.Clone()
	f.mu.Unlock()

	result, err := f.updater.UpdateProfile(ctx, payload)

	f.mu.Lock()
	if gen != f.generation {
		defer f.mu.Unlock()
		f.saving = false
		f.logger.DebugContext(ctx, "discard stale profile submit")
		return f.snapshotLocked(), ErrDiscarded
	}

	f.saving = false
	switch {
	case err != nil:
		f.logger.WarnContext(ctx, "update profile failed", "error", err)
		f.errMsg = UpdateFailedMessage
		f.status = StatusReady
	case !result.Success:
		f.errMsg = result.Error
		if f.errMsg == "" {
			f.errMsg = UpdateFailedMessage
		}
		f.status = StatusReady
	default:
		f.status = StatusNavigated
		f.navigatedTo = ProfilePath
	}
	snap := f.snapshotLocked()
	navigate := f.status == StatusNavigated
	f.mu.Unlock()

	if navigate {
		f.navigator.Push(ProfilePath)
	}
	return snap, nil
}

// Cancel navigates back and closes the form.
func (f *Form) Cancel() Snapshot {
	f.mu.Lock()
	if f.terminal() {
		defer f.mu.Unlock()
		return f.snapshotLocked()
	}
	f.closeLocked()
	snap := f.snapshotLocked()
	f.mu.Unlock()

	f.navigator.Back()
	return snap
}

// Close discards the form. Results of in-flight Load or Submit calls are dropped.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status == StatusClosed {
		return
	}
	f.closeLocked()
}

func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Form) closeLocked() {
	f.generation++
	f.status = StatusClosed
	f.loading = false
	f.saving = false
}

func (f *Form) terminal() bool {
	return f.status == StatusClosed || f.status == StatusNavigated
}
