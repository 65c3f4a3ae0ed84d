package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/pawmatch/internal/domain/profile"
	"github.com/riskibarqy/pawmatch/internal/platform/cache"
	"github.com/riskibarqy/pawmatch/internal/platform/id"
	"github.com/riskibarqy/pawmatch/internal/platform/logging"
	"github.com/riskibarqy/pawmatch/internal/profileform"
)

const DefaultEditSessionTTL = 30 * time.Minute

type EditSession struct {
	ID       string
	UserID   string
	Snapshot profileform.Snapshot
}

// ProfileEditService hosts profile edit forms on behalf of thin clients.
// Each session is bound to the user that started it.
type ProfileEditService struct {
	profiles *ProfileService
	sessions *cache.Store
	ids      id.Generator
	logger   *logging.Logger
}

type ProfileEditServiceOption func(*profileEditConfig)

type profileEditConfig struct {
	now func() time.Time
}

// WithEditSessionClock replaces time.Now for session expiry.
func WithEditSessionClock(now func() time.Time) ProfileEditServiceOption {
	return func(c *profileEditConfig) {
		c.now = now
	}
}

func NewProfileEditService(profiles *ProfileService, ttl time.Duration, ids id.Generator, logger *logging.Logger, opts ...ProfileEditServiceOption) *ProfileEditService {
	if ttl <= 0 {
		ttl = DefaultEditSessionTTL
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	cfg := profileEditConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	svc := &ProfileEditService{
		profiles: profiles,
		ids:      ids,
		logger:   logger,
	}
	svc.sessions = cache.NewStore(ttl, cache.WithClock(cfg.now), cache.WithEvictHook(svc.expireSession))
	return svc
}

// expireSession closes a form whose session timed out so in-flight work on it
// is discarded.
func (s *ProfileEditService) expireSession(key string, value any) {
	if form, ok := value.(*profileform.Form); ok {
		form.Close()
	}
	s.logger.Debug("edit session expired", "key", key)
}

// PurgeExpired closes and drops every timed-out session.
func (s *ProfileEditService) PurgeExpired(ctx context.Context) int {
	return s.sessions.PurgeExpired(ctx)
}

// Start creates a form for userID and loads the current profile into it.
func (s *ProfileEditService) Start(ctx context.Context, userID string) (EditSession, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileEditService.Start")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return EditSession{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	if purged := s.sessions.PurgeExpired(ctx); purged > 0 {
		s.logger.DebugContext(ctx, "purged expired edit sessions", "count", purged)
	}

	sessionID, err := s.ids.NewID()
	if err != nil {
		return EditSession{}, fmt.Errorf("generate edit session id: %w", err)
	}

	form := profileform.New(
		profileform.LoaderFunc(func(ctx context.Context) (profile.Profile, bool, error) {
			return s.profiles.GetCurrentUserProfile(ctx, userID)
		}),
		&profileUpdateAdapter{userID: userID, profiles: s.profiles},
		profileform.NopNavigator{},
		s.logger.With("user_id", userID, "edit_session_id", sessionID),
	)
	snap := form.Load(ctx)
	s.sessions.Set(ctx, sessionKey(userID, sessionID), form)

	return EditSession{ID: sessionID, UserID: userID, Snapshot: snap}, nil
}

func (s *ProfileEditService) Get(ctx context.Context, userID, sessionID string) (EditSession, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileEditService.Get")
	defer span.End()

	form, err := s.form(ctx, userID, sessionID)
	if err != nil {
		return EditSession{}, err
	}

	return EditSession{ID: sessionID, UserID: userID, Snapshot: form.Snapshot()}, nil
}

// Apply runs field changes through the form. Either all changes apply or none do.
func (s *ProfileEditService) Apply(ctx context.Context, userID, sessionID string, changes []profileform.FieldChange) (EditSession, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileEditService.Apply")
	defer span.End()

	if len(changes) == 0 {
		return EditSession{}, fmt.Errorf("%w: at least one field change is required", ErrInvalidInput)
	}

	form, err := s.form(ctx, userID, sessionID)
	if err != nil {
		return EditSession{}, err
	}

	snap, err := form.ApplyFields(changes)
	if err != nil {
		return EditSession{}, s.mapFormError(ctx, userID, sessionID, err)
	}

	return EditSession{ID: sessionID, UserID: userID, Snapshot: snap}, nil
}

// Submit submits the form. A rejected update stays in the session with the
// error on the snapshot; a successful one ends the session.
func (s *ProfileEditService) Submit(ctx context.Context, userID, sessionID string) (EditSession, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileEditService.Submit")
	defer span.End()

	form, err := s.form(ctx, userID, sessionID)
	if err != nil {
		return EditSession{}, err
	}

	snap, err := form.Submit(ctx)
	if err != nil {
		return EditSession{}, s.mapFormError(ctx, userID, sessionID, err)
	}
	if snap.Status == profileform.StatusNavigated {
		s.sessions.Delete(ctx, sessionKey(userID, sessionID))
	}

	return EditSession{ID: sessionID, UserID: userID, Snapshot: snap}, nil
}

// Cancel navigates the form back and ends the session.
func (s *ProfileEditService) Cancel(ctx context.Context, userID, sessionID string) (EditSession, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileEditService.Cancel")
	defer span.End()

	form, err := s.form(ctx, userID, sessionID)
	if err != nil {
		return EditSession{}, err
	}

	snap := form.Cancel()
	s.sessions.Delete(ctx, sessionKey(userID, sessionID))

	return EditSession{ID: sessionID, UserID: userID, Snapshot: snap}, nil
}

func (s *ProfileEditService) form(ctx context.Context, userID, sessionID string) (*profileform.Form, error) {
	userID = strings.TrimSpace(userID)
	sessionID = strings.TrimSpace(sessionID)
	if userID == "" || sessionID == "" {
		return nil, fmt.Errorf("%w: user id and session id are required", ErrInvalidInput)
	}

	value, ok := s.sessions.Get(ctx, sessionKey(userID, sessionID))
	if !ok {
		return nil, fmt.Errorf("%w: edit session=%s", ErrNotFound, sessionID)
	}
	form, ok := value.(*profileform.Form)
	if !ok {
		return nil, fmt.Errorf("%w: edit session=%s", ErrNotFound, sessionID)
	}

	return form, nil
}

func (s *ProfileEditService) mapFormError(ctx context.Context, userID, sessionID string, err error) error {
	switch {
	case errors.Is(err, profileform.ErrUnknownField), errors.Is(err, profileform.ErrInvalidValue):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, profileform.ErrSubmitInProgress), errors.Is(err, profileform.ErrNotReady):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, profileform.ErrClosed), errors.Is(err, profileform.ErrDiscarded):
		s.sessions.Delete(ctx, sessionKey(userID, sessionID))
		return fmt.Errorf("%w: edit session=%s is closed", ErrNotFound, sessionID)
	default:
		return fmt.Errorf("edit session=%s: %w", sessionID, err)
	}
}

func sessionKey(userID, sessionID string) string {
	return "profile-edit:" + userID + ":" + sessionID
}

// profileUpdateAdapter exposes ProfileService as a form Updater. Validation and
// conflict errors become rejected results; anything else is a failure.
type profileUpdateAdapter struct {
	userID   string
	profiles *ProfileService
}

func (a *profileUpdateAdapter) UpdateProfile(ctx context.Context, p profile.Profile) (profileform.UpdateResult, error) {
	_, err := a.profiles.UpdateUserProfile(ctx, UpdateProfileInputFromProfile(a.userID, p))
	switch {
	case err == nil:
		return profileform.UpdateResult{Success: true}, nil
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrConflict):
		return profileform.UpdateResult{Success: false, Error: UserMessage(err)}, nil
	default:
		return profileform.UpdateResult{}, err
	}
}
