package httpapi

import (
	"time"

	"github.com/riskibarqy/pawmatch/internal/domain/profile"
	"github.com/riskibarqy/pawmatch/internal/profileform"
	"github.com/riskibarqy/pawmatch/internal/usecase"
)

type ageRangeDTO struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type preferencesDTO struct {
	AgeRange          ageRangeDTO `json:"age_range"`
	Distance          int         `json:"distance"`
	GenderPreference  []string    `json:"gender_preference"`
	AdopterPreference string      `json:"adopter_preference"`
	BreedPreference   string      `json:"breed_preference"`
}

type profileDTO struct {
	UserID      string          `json:"user_id"`
	FullName    string          `json:"full_name"`
	Username    string          `json:"username"`
	Bio         string          `json:"bio"`
	Adopter     string          `json:"adopter"`
	Gender      string          `json:"gender"`
	Birthdate   string          `json:"birthdate"`
	Breed       string          `json:"breed"`
	AvatarURL   string          `json:"avatar_url,omitempty"`
	Preferences *preferencesDTO `json:"preferences,omitempty"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

type editSessionDTO struct {
	SessionID   string     `json:"session_id"`
	Status      string     `json:"status"`
	Values      profileDTO `json:"values"`
	Loading     bool       `json:"loading"`
	Saving      bool       `json:"saving"`
	Error       string     `json:"error,omitempty"`
	BioLength   int        `json:"bio_length"`
	BioLimit    int        `json:"bio_limit"`
	NavigatedTo string     `json:"navigated_to,omitempty"`
	CanSubmit   bool       `json:"can_submit"`
}

type avatarUploadDTO struct {
	UploadURL string            `json:"upload_url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	ObjectKey string            `json:"object_key"`
	AvatarURL string            `json:"avatar_url"`
	ExpiresAt time.Time         `json:"expires_at"`
}

type updateProfileRequest struct {
	FullName    string                `json:"full_name"`
	Username    string                `json:"username"`
	Bio         string                `json:"bio"`
	Adopter     string                `json:"adopter"`
	Gender      string                `json:"gender"`
	Birthdate   string                `json:"birthdate"`
	Breed       string                `json:"breed"`
	AvatarURL   string                `json:"avatar_url"`
	Preferences *updatePreferencesBody `json:"preferences"`
}

// updatePreferencesBody uses pointers so absent fields fall back to the
// default preferences instead of zero values.
type updatePreferencesBody struct {
	AgeRange          *updateAgeRangeBody `json:"age_range"`
	Distance          *int                `json:"distance"`
	GenderPreference  []string            `json:"gender_preference"`
	AdopterPreference *string             `json:"adopter_preference"`
	BreedPreference   *string             `json:"breed_preference"`
}

type updateAgeRangeBody struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

type avatarUploadRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required"`
}

type fieldChangeRequest struct {
	Name    string `json:"name" validate:"required"`
	Value   string `json:"value"`
	Checked bool   `json:"checked"`
}

type applyEditSessionRequest struct {
	Changes []fieldChangeRequest `json:"changes" validate:"required,min=1,dive"`
}

type profileUpdatedJobRequest struct {
	UserID     string    `json:"user_id" validate:"required"`
	Username   string    `json:"username"`
	OccurredAt time.Time `json:"occurred_at"`
}

func profileToDTO(p profile.Profile) profileDTO {
	out := profileDTO{
		UserID:    p.UserID,
		FullName:  p.FullName,
		Username:  p.Username,
		Bio:       p.Bio,
		Adopter:   string(p.Adopter),
		Gender:    string(p.Gender),
		Birthdate: p.Birthdate,
		Breed:     p.Breed,
		AvatarURL: p.AvatarURL,
	}
	if p.Preferences != nil {
		prefs := preferencesToDTO(*p.Preferences)
		out.Preferences = &prefs
	}
	if !p.CreatedAt.IsZero() {
		createdAt := p.CreatedAt
		out.CreatedAt = &createdAt
	}
	if !p.UpdatedAt.IsZero() {
		updatedAt := p.UpdatedAt
		out.UpdatedAt = &updatedAt
	}
	return out
}

func preferencesToDTO(p profile.Preferences) preferencesDTO {
	genders := make([]string, 0, len(p.GenderPreference))
	for _, g := range p.GenderPreference {
		genders = append(genders, string(g))
	}
	return preferencesDTO{
		AgeRange:          ageRangeDTO{Min: p.AgeRange.Min, Max: p.AgeRange.Max},
		Distance:          p.Distance,
		GenderPreference:  genders,
		AdopterPreference: string(p.AdopterPreference),
		BreedPreference:   p.BreedPreference,
	}
}

func editSessionToDTO(session usecase.EditSession) editSessionDTO {
	snap := session.Snapshot
	return editSessionDTO{
		SessionID:   session.ID,
		Status:      string(snap.Status),
		Values:      profileToDTO(snap.Values),
		Loading:     snap.Loading,
		Saving:      snap.Saving,
		Error:       snap.Error,
		BioLength:   snap.BioLength,
		BioLimit:    snap.BioLimit,
		NavigatedTo: snap.NavigatedTo,
		CanSubmit:   snap.CanSubmit,
	}
}

func (r updateProfileRequest) toInput(userID string) usecase.UpdateProfileInput {
	return usecase.UpdateProfileInput{
		UserID:      userID,
		FullName:    r.FullName,
		Username:    r.Username,
		Bio:         r.Bio,
		Adopter:     r.Adopter,
		Gender:      r.Gender,
		Birthdate:   r.Birthdate,
		Breed:       r.Breed,
		AvatarURL:   r.AvatarURL,
		Preferences: r.Preferences.toInput(),
	}
}

// toInput overlays the fields the client sent on the default preferences. A
// nil body yields the defaults.
func (b *updatePreferencesBody) toInput() usecase.UpdatePreferencesInput {
	defaults := profile.DefaultPreferences()
	out := usecase.UpdatePreferencesInput{
		AgeMin:            defaults.AgeRange.Min,
		AgeMax:            defaults.AgeRange.Max,
		Distance:          defaults.Distance,
		GenderPreference:  []string{},
		AdopterPreference: string(defaults.AdopterPreference),
		BreedPreference:   defaults.BreedPreference,
	}
	if b == nil {
		return out
	}

	if b.AgeRange != nil {
		if b.AgeRange.Min != nil {
			out.AgeMin = *b.AgeRange.Min
		}
		if b.AgeRange.Max != nil {
			out.AgeMax = *b.AgeRange.Max
		}
	}
	if b.Distance != nil {
		out.Distance = *b.Distance
	}
	if b.GenderPreference != nil {
		out.GenderPreference = b.GenderPreference
	}
	if b.AdopterPreference != nil {
		out.AdopterPreference = *b.AdopterPreference
	}
	if b.BreedPreference != nil {
		out.BreedPreference = *b.BreedPreference
	}
	return out
}

func (r applyEditSessionRequest) toFieldChanges() []profileform.FieldChange {
	out := make([]profileform.FieldChange, 0, len(r.Changes))
	for _, change := range r.Changes {
		out = append(out, profileform.FieldChange{
			Name:    change.Name,
			Value:   change.Value,
			Checked: change.Checked,
		})
	}
	return out
}
