package profileform

import (
	"unicode/utf8"

	"github.com/riskibarqy/pawmatch/internal/domain/profile"
)

// Snapshot is a point-in-time copy of the form for rendering.
type Snapshot struct {
	Values      profile.Profile
	Status      Status
	Loading     bool
	Saving      bool
	Error       string
	BioLength   int
	BioLimit    int
	NavigatedTo string
	// CanSubmit mirrors the enabled state of the submit control.
	CanSubmit bool
}

func (f *Form) snapshotLocked() Snapshot {
	return Snapshot{
		Values:      f.values.Clone(),
		Status:      f.status,
		Loading:     f.loading,
		Saving:      f.saving,
		Error:       f.errMsg,
		BioLength:   utf8.RuneCountInString(f.values.Bio),
		BioLimit:    profile.BioMaxLength,
		NavigatedTo: f.navigatedTo,
		CanSubmit:   f.status == StatusReady && !f.saving,
	}
}
