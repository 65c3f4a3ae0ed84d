package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/pawmatch/internal/domain/profile"
)

func TestProfileRepository_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository(SeedProfiles())

	got, ok, err := repo.GetByUsername(ctx, "PICKLES")
	if err != nil || !ok {
		t.Fatalf("expected seeded profile, ok=%v err=%v", ok, err)
	}
	if got.UserID != "demo-pet" {
		t.Fatalf("unexpected user id: %s", got.UserID)
	}

	got.Bio = "changed"
	stored, _, _ := repo.GetByUserID(ctx, "demo-pet")
	if stored.Bio == "changed" {
		t.Fatalf("expected repository to return copies")
	}

	if err := repo.Upsert(ctx, profile.Profile{UserID: "new", Username: "Dana"}); !errors.Is(err, profile.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if err := repo.Upsert(ctx, profile.Profile{UserID: "new", Username: "newbie"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, ok, _ := repo.GetByUserID(ctx, "new"); !ok {
		t.Fatalf("expected upserted profile")
	}
}
