package cache

import (
	"context"
	"strings"

	"github.com/riskibarqy/pawmatch/internal/domain/profile"
	basecache "github.com/riskibarqy/pawmatch/internal/platform/cache"
)

type ProfileRepository struct {
	next  profile.Repository
	cache *basecache.Store
}

func NewProfileRepository(next profile.Repository, cache *basecache.Store) *ProfileRepository {
	return &ProfileRepository{next: next, cache: cache}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (profile.Profile, bool, error) {
	key := "profile:user:" + userID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		return cachedProfile{value: item, exists: exists}, nil
	})
	if err != nil {
		return profile.Profile{}, false, err
	}

	cached, _ := v.(cachedProfile)
	return cached.value.Clone(), cached.exists, nil
}

// GetByUsername always reads through so uniqueness checks never see stale owners.
func (r *ProfileRepository) GetByUsername(ctx context.Context, username string) (profile.Profile, bool, error) {
	return r.next.GetByUsername(ctx, username)
}

func (r *ProfileRepository) Upsert(ctx context.Context, p profile.Profile) error {
	if err := r.next.Upsert(ctx, p); err != nil {
		return err
	}
	r.Invalidate(ctx, p.UserID)
	return nil
}

// Invalidate drops the cached copy of userID's profile.
func (r *ProfileRepository) Invalidate(ctx context.Context, userID string) {
	r.cache.Delete(ctx, "profile:user:"+strings.TrimSpace(userID))
}

type cachedProfile struct {
	value  profile.Profile
	exists bool
}
