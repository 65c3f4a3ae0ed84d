package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/riskibarqy/pawmatch/internal/domain/profile"
)

type ProfileRepository struct {
	mu    sync.RWMutex
	items map[string]profile.Profile
}

func NewProfileRepository(profiles []profile.Profile) *ProfileRepository {
	items := make(map[string]profile.Profile, len(profiles))
	for _, p := range profiles {
		items[p.UserID] = p.Clone()
	}

	return &ProfileRepository{items: items}
}

func (r *ProfileRepository) GetByUserID(_ context.Context, userID string) (profile.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[userID]
	if !ok {
		return profile.Profile{}, false, nil
	}

	return p.Clone(), true, nil
}

func (r *ProfileRepository) GetByUsername(_ context.Context, username string) (profile.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.items {
		if strings.EqualFold(p.Username, username) {
			return p.Clone(), true, nil
		}
	}

	return profile.Profile{}, false, nil
}

func (r *ProfileRepository) Upsert(_ context.Context, p profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for userID, existing := range r.items {
		if userID != p.UserID && strings.EqualFold(existing.Username, p.Username) {
			return profile.ErrUsernameTaken
		}
	}
	r.items[p.UserID] = p.Clone()

	return nil
}
