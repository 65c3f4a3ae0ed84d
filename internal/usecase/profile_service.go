package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/pawmatch/internal/domain/profile"
	"github.com/riskibarqy/pawmatch/internal/platform/logging"
)

const usernameTakenMessage = "username is already taken"

type UpdateProfileInput struct {
	UserID      string                 `json:"user_id" validate:"required"`
	FullName    string                 `json:"full_name" validate:"required,max=100"`
	Username    string                 `json:"username" validate:"required,min=3,max=30,handle"`
	Bio         string                 `json:"bio" validate:"required,max=500"`
	Adopter     string                 `json:"adopter" validate:"required,oneof=adopter pet"`
	Gender      string                 `json:"gender" validate:"required,oneof=male female other"`
	Birthdate   string                 `json:"birthdate" validate:"required,datetime=2006-01-02"`
	Breed       string                 `json:"breed" validate:"required,max=100"`
	AvatarURL   string                 `json:"avatar_url" validate:"omitempty,url"`
	Preferences UpdatePreferencesInput `json:"preferences"`
}

type UpdatePreferencesInput struct {
	AgeMin            int      `json:"age_range_min" validate:"gte=0,lte=120"`
	AgeMax            int      `json:"age_range_max" validate:"gte=0,lte=120,gtefield=AgeMin"`
	Distance          int      `json:"distance" validate:"gte=0,lte=500"`
	GenderPreference  []string `json:"gender_preference" validate:"dive,oneof=male female other"`
	AdopterPreference string   `json:"adopter_preference" validate:"required,oneof=adopter pet"`
	BreedPreference   string   `json:"breed_preference" validate:"max=100"`
}

// UpdateProfileInputFromProfile flattens a profile into service input. Missing
// preferences are sent as the defaults.
func UpdateProfileInputFromProfile(userID string, p profile.Profile) UpdateProfileInput {
	prefs := p.Prefs()
	genders := make([]string, 0, len(prefs.GenderPreference))
	for _, g := range prefs.GenderPreference {
		genders = append(genders, string(g))
	}

	return UpdateProfileInput{
		UserID:    userID,
		FullName:  p.FullName,
		Username:  p.Username,
		Bio:       p.Bio,
		Adopter:   string(p.Adopter),
		Gender:    string(p.Gender),
		Birthdate: p.Birthdate,
		Breed:     p.Breed,
		AvatarURL: p.AvatarURL,
		Preferences: UpdatePreferencesInput{
			AgeMin:            prefs.AgeRange.Min,
			AgeMax:            prefs.AgeRange.Max,
			Distance:          prefs.Distance,
			GenderPreference:  genders,
			AdopterPreference: string(prefs.AdopterPreference),
			BreedPreference:   prefs.BreedPreference,
		},
	}
}

type profileEventDispatcher interface {
	DispatchProfileUpdated(ctx context.Context, event profile.UpdatedEvent)
}

type profileCacheInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

type ProfileService struct {
	repo        profile.Repository
	events      profileEventDispatcher
	invalidator profileCacheInvalidator
	validate    *validator.Validate
	logger      *logging.Logger
	now         func() time.Time
}

type ProfileServiceOption func(*ProfileService)

func WithProfileEvents(events profileEventDispatcher) ProfileServiceOption {
	return func(s *ProfileService) {
		s.events = events
	}
}

// WithProfileCacheInvalidator is used by RefreshProfile to drop cached copies.
func WithProfileCacheInvalidator(invalidator profileCacheInvalidator) ProfileServiceOption {
	return func(s *ProfileService) {
		s.invalidator = invalidator
	}
}

func NewProfileService(repo profile.Repository, logger *logging.Logger, opts ...ProfileServiceOption) *ProfileService {
	if logger == nil {
		logger = logging.Default()
	}

	s := &ProfileService{
		repo:     repo,
		validate: newProfileValidator(),
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *ProfileService) GetCurrentUserProfile(ctx context.Context, userID string) (profile.Profile, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.GetCurrentUserProfile")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return profile.Profile{}, false, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	p, exists, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return profile.Profile{}, false, fmt.Errorf("get profile by user id: %w", err)
	}

	return p, exists, nil
}

func (s *ProfileService) UpdateUserProfile(ctx context.Context, input UpdateProfileInput) (profile.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.UpdateUserProfile")
	defer span.End()

	input = normalizeUpdateProfileInput(input)
	if err := s.validate.StructCtx(ctx, input); err != nil {
		return profile.Profile{}, fmt.Errorf("%w: %s", ErrInvalidInput, describeValidationError(err))
	}

	owner, exists, err := s.repo.GetByUsername(ctx, input.Username)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("get profile by username: %w", err)
	}
	if exists && owner.UserID != input.UserID {
		return profile.Profile{}, fmt.Errorf("%w: %s", ErrConflict, usernameTakenMessage)
	}

	current, exists, err := s.repo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("get profile by user id: %w", err)
	}

	now := s.now().UTC()
	updated := profileFromInput(input)
	updated.CreatedAt = now
	if exists && !current.CreatedAt.IsZero() {
		updated.CreatedAt = current.CreatedAt
	}
	updated.UpdatedAt = now

	if err := s.repo.Upsert(ctx, updated); err != nil {
		if errors.Is(err, profile.ErrUsernameTaken) {
			return profile.Profile{}, fmt.Errorf("%w: %s", ErrConflict, usernameTakenMessage)
		}
		return profile.Profile{}, fmt.Errorf("upsert profile: %w", err)
	}

	s.logger.InfoContext(ctx, "profile updated", "user_id", updated.UserID, "username", updated.Username)
	if s.events != nil {
		s.events.DispatchProfileUpdated(ctx, profile.UpdatedEvent{
			UserID:     updated.UserID,
			Username:   updated.Username,
			OccurredAt: now,
		})
	}

	return updated, nil
}

// RefreshProfile drops cached copies of the profile and reads it back from storage.
func (s *ProfileService) RefreshProfile(ctx context.Context, userID string) (profile.Profile, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.RefreshProfile")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return profile.Profile{}, false, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, userID)
	}

	return s.GetCurrentUserProfile(ctx, userID)
}

func normalizeUpdateProfileInput(input UpdateProfileInput) UpdateProfileInput {
	input.UserID = strings.TrimSpace(input.UserID)
	input.FullName = strings.TrimSpace(input.FullName)
	input.Username = strings.TrimSpace(input.Username)
	input.Adopter = strings.ToLower(strings.TrimSpace(input.Adopter))
	input.Gender = strings.ToLower(strings.TrimSpace(input.Gender))
	input.Birthdate = strings.TrimSpace(input.Birthdate)
	input.Breed = strings.TrimSpace(input.Breed)
	input.AvatarURL = strings.TrimSpace(input.AvatarURL)
	input.Preferences.AdopterPreference = strings.ToLower(strings.TrimSpace(input.Preferences.AdopterPreference))
	input.Preferences.BreedPreference = strings.TrimSpace(input.Preferences.BreedPreference)
	genders := make([]string, 0, len(input.Preferences.GenderPreference))
	for _, g := range input.Preferences.GenderPreference {
		genders = append(genders, strings.ToLower(strings.TrimSpace(g)))
	}
	input.Preferences.GenderPreference = genders

	return input
}

func profileFromInput(input UpdateProfileInput) profile.Profile {
	genders := make([]profile.Gender, 0, len(input.Preferences.GenderPreference))
	for _, g := range input.Preferences.GenderPreference {
		gender := profile.Gender(g)
		if !slices.Contains(genders, gender) {
			genders = append(genders, gender)
		}
	}

	return profile.Profile{
		UserID:    input.UserID,
		FullName:  input.FullName,
		Username:  input.Username,
		Bio:       input.Bio,
		Adopter:   profile.Role(input.Adopter),
		Gender:    profile.Gender(input.Gender),
		Birthdate: input.Birthdate,
		Breed:     input.Breed,
		AvatarURL: input.AvatarURL,
		Preferences: &profile.Preferences{
			AgeRange: profile.AgeRange{
				Min: input.Preferences.AgeMin,
				Max: input.Preferences.AgeMax,
			},
			Distance:          input.Preferences.Distance,
			GenderPreference:  genders,
			AdopterPreference: profile.Role(input.Preferences.AdopterPreference),
			BreedPreference:   input.Preferences.BreedPreference,
		},
	}
}

func newProfileValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	// handle: a username without whitespace
	_ = v.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
		return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
	})
	return v
}

func describeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "datetime":
			msgs = append(msgs, field+" must be a date in YYYY-MM-DD format")
		case "url":
			msgs = append(msgs, field+" must be a valid URL")
		case "handle":
			msgs = append(msgs, field+" must not contain spaces")
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		case "gtefield":
			msgs = append(msgs, field+" must not be less than age_range_min")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}

	return strings.Join(msgs, "; ")
}
