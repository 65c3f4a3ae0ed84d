package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/pawmatch/internal/domain/profile"
	profilemock "github.com/riskibarqy/pawmatch/internal/mocks/domain/profile"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validUpdateInput() UpdateProfileInput {
	return UpdateProfileInput{
		UserID:    "user-1",
		FullName:  "Biscuit",
		Username:  "biscuit",
		Bio:       "good dog",
		Adopter:   "pet",
		Gender:    "female",
		Birthdate: "2020-04-01",
		Breed:     "Beagle",
		AvatarURL: "https://cdn.example.com/a.png",
		Preferences: UpdatePreferencesInput{
			AgeMin:            20,
			AgeMax:            40,
			Distance:          10,
			GenderPreference:  []string{"male", "male", "Other"},
			AdopterPreference: "adopter",
		},
	}
}

type recordedEvents struct {
	events []profile.UpdatedEvent
}

func (r *recordedEvents) DispatchProfileUpdated(_ context.Context, event profile.UpdatedEvent) {
	r.events = append(r.events, event)
}

func TestProfileService_UpdateUserProfile_PersistsAndDispatches(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := profilemock.NewRepository(t)
	events := &recordedEvents{}
	service := NewProfileService(repo, nil, WithProfileEvents(events))
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	createdAt := now.Add(-48 * time.Hour)
	service.now = func() time.Time { return now }

	repo.On("GetByUsername", ctx, "biscuit").Return(profile.Profile{UserID: "user-1"}, true, nil).Once()
	repo.On("GetByUserID", ctx, "user-1").Return(profile.Profile{UserID: "user-1", CreatedAt: createdAt}, true, nil).Once()
	repo.On("Upsert", ctx, mock.MatchedBy(func(p profile.Profile) bool {
		return p.UserID == "user-1" &&
			p.CreatedAt.Equal(createdAt) &&
			p.UpdatedAt.Equal(now) &&
			len(p.Preferences.GenderPreference) == 2
	})).Return(nil).Once()

	got, err := service.UpdateUserProfile(ctx, validUpdateInput())
	require.NoError(t, err)
	require.Equal(t, []profile.Gender{profile.GenderMale, profile.GenderOther}, got.Preferences.GenderPreference)
	require.Equal(t, profile.RolePet, got.Adopter)
	require.Len(t, events.events, 1)
	require.Equal(t, "user-1", events.events[0].UserID)
}

func TestProfileService_UpdateUserProfile_UsernameTaken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := profilemock.NewRepository(t)
	service := NewProfileService(repo, nil)

	repo.On("GetByUsername", ctx, "biscuit").Return(profile.Profile{UserID: "someone-else"}, true, nil).Once()

	_, err := service.UpdateUserProfile(ctx, validUpdateInput())
	require.ErrorIs(t, err, ErrConflict)
	require.Equal(t, "username is already taken", UserMessage(err))
}

func TestProfileService_UpdateUserProfile_RepositoryConflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := profilemock.NewRepository(t)
	service := NewProfileService(repo, nil)

	repo.On("GetByUsername", ctx, "biscuit").Return(profile.Profile{}, false, nil).Once()
	repo.On("GetByUserID", ctx, "user-1").Return(profile.Profile{}, false, nil).Once()
	repo.On("Upsert", ctx, mock.Anything).Return(profile.ErrUsernameTaken).Once()

	_, err := service.UpdateUserProfile(ctx, validUpdateInput())
	require.ErrorIs(t, err, ErrConflict)
}

func TestProfileService_UpdateUserProfile_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*UpdateProfileInput)
		wantMsg string
	}{
		{name: "missing full name", mutate: func(in *UpdateProfileInput) { in.FullName = " " }, wantMsg: "full_name is required"},
		{name: "username with space", mutate: func(in *UpdateProfileInput) { in.Username = "big dog" }, wantMsg: "username must not contain spaces"},
		{name: "short username", mutate: func(in *UpdateProfileInput) { in.Username = "ab" }, wantMsg: "username must be at least 3 characters"},
		{name: "bad gender", mutate: func(in *UpdateProfileInput) { in.Gender = "robot" }, wantMsg: "gender must be one of: male, female, other"},
		{name: "bad birthdate", mutate: func(in *UpdateProfileInput) { in.Birthdate = "01/04/2020" }, wantMsg: "birthdate must be a date in YYYY-MM-DD format"},
		{name: "long bio", mutate: func(in *UpdateProfileInput) { in.Bio = strings.Repeat("a", 501) }, wantMsg: "bio must be at most 500 characters"},
		{name: "inverted age range", mutate: func(in *UpdateProfileInput) { in.Preferences.AgeMin = 50 }, wantMsg: "age_range_max must not be less than age_range_min"},
		{name: "bad gender preference", mutate: func(in *UpdateProfileInput) { in.Preferences.GenderPreference = []string{"cat"} }, wantMsg: "must be one of"},
		{name: "distance too far", mutate: func(in *UpdateProfileInput) { in.Preferences.Distance = 501 }, wantMsg: "distance must be at most 500"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			service := NewProfileService(profilemock.NewRepository(t), nil)
			input := validUpdateInput()
			tc.mutate(&input)

			_, err := service.UpdateUserProfile(context.Background(), input)
			require.ErrorIs(t, err, ErrInvalidInput)
			require.Contains(t, UserMessage(err), tc.wantMsg)
		})
	}
}

type recordingInvalidator struct {
	userIDs []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, userID string) {
	r.userIDs = append(r.userIDs, userID)
}

func TestProfileService_RefreshProfile_InvalidatesCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := profilemock.NewRepository(t)
	invalidator := &recordingInvalidator{}
	service := NewProfileService(repo, nil, WithProfileCacheInvalidator(invalidator))

	repo.On("GetByUserID", ctx, "user-1").Return(profile.Profile{UserID: "user-1"}, true, nil).Once()

	_, found, err := service.RefreshProfile(ctx, " user-1 ")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []string{"user-1"}, invalidator.userIDs)
}

func TestProfileService_GetCurrentUserProfile_RepositoryError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := profilemock.NewRepository(t)
	service := NewProfileService(repo, nil)

	repo.On("GetByUserID", ctx, "user-1").Return(profile.Profile{}, false, errors.New("db down")).Once()

	_, _, err := service.GetCurrentUserProfile(ctx, "user-1")
	require.Error(t, err)
}

func TestUpdateProfileInputFromProfile_DefaultsMissingPreferences(t *testing.T) {
	t.Parallel()

	input := UpdateProfileInputFromProfile("user-1", profile.Profile{Username: "rex"})
	require.Equal(t, "user-1", input.UserID)
	require.Equal(t, profile.DefaultAgeMax, input.Preferences.AgeMax)
	require.Equal(t, profile.DefaultDistance, input.Preferences.Distance)
	require.Equal(t, "pet", input.Preferences.AdopterPreference)
	require.Empty(t, input.Preferences.GenderPreference)
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	require.Equal(t, "plain", UserMessage(errors.New("plain")))
	require.Equal(t, "taken", UserMessage(fmt.Errorf("update profile: %w", fmt.Errorf("%w: taken", ErrConflict))))
	require.Equal(t, "", UserMessage(nil))
}
