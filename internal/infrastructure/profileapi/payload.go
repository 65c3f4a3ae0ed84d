package profileapi

import (
	"time"

	"github.com/riskibarqy/pawmatch/internal/domain/profile"
)

type envelope[T any] struct {
	APIVersion string     `json:"apiVersion"`
	Data       T          `json:"data"`
	Error      *errorBody `json:"error"`
}

type errorBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Status  string      `json:"status"`
	Errors  []errorItem `json:"errors"`
}

type errorItem struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// userMessage prefers the per-item message, which carries no error prefix.
func (e *errorBody) userMessage() string {
	if e == nil {
		return ""
	}
	for _, item := range e.Errors {
		if item.Message != "" {
			return item.Message
		}
	}
	return e.Message
}

type ageRangePayload struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type preferencesPayload struct {
	AgeRange          ageRangePayload `json:"age_range"`
	Distance          int             `json:"distance"`
	GenderPreference  []string        `json:"gender_preference"`
	AdopterPreference string          `json:"adopter_preference"`
	BreedPreference   string          `json:"breed_preference"`
}

type profilePayload struct {
	UserID      string              `json:"user_id,omitempty"`
	FullName    string              `json:"full_name"`
	Username    string              `json:"username"`
	Bio         string              `json:"bio"`
	Adopter     string              `json:"adopter"`
	Gender      string              `json:"gender"`
	Birthdate   string              `json:"birthdate"`
	Breed       string              `json:"breed"`
	AvatarURL   string              `json:"avatar_url,omitempty"`
	Preferences *preferencesPayload `json:"preferences,omitempty"`
	CreatedAt   *time.Time          `json:"created_at,omitempty"`
	UpdatedAt   *time.Time          `json:"updated_at,omitempty"`
}

func payloadFromProfile(p profile.Profile) profilePayload {
	prefs := p.Prefs()
	genders := make([]string, 0, len(prefs.GenderPreference))
	for _, g := range prefs.GenderPreference {
		genders = append(genders, string(g))
	}

	return profilePayload{
		FullName:  p.FullName,
		Username:  p.Username,
		Bio:       p.Bio,
		Adopter:   string(p.Adopter),
		Gender:    string(p.Gender),
		Birthdate: p.Birthdate,
		Breed:     p.Breed,
		AvatarURL: p.AvatarURL,
		Preferences: &preferencesPayload{
			AgeRange:          ageRangePayload{Min: prefs.AgeRange.Min, Max: prefs.AgeRange.Max},
			Distance:          prefs.Distance,
			GenderPreference:  genders,
			AdopterPreference: string(prefs.AdopterPreference),
			BreedPreference:   prefs.BreedPreference,
		},
	}
}

func (p profilePayload) toProfile() profile.Profile {
	out := profile.Profile{
		UserID:    p.UserID,
		FullName:  p.FullName,
		Username:  p.Username,
		Bio:       p.Bio,
		Adopter:   profile.Role(p.Adopter),
		Gender:    profile.Gender(p.Gender),
		Birthdate: p.Birthdate,
		Breed:     p.Breed,
		AvatarURL: p.AvatarURL,
	}
	if p.Preferences != nil {
		genders := make([]profile.Gender, 0, len(p.Preferences.GenderPreference))
		for _, g := range p.Preferences.GenderPreference {
			genders = append(genders, profile.Gender(g))
		}
		out.Preferences = &profile.Preferences{
			AgeRange:          profile.AgeRange{Min: p.Preferences.AgeRange.Min, Max: p.Preferences.AgeRange.Max},
			Distance:          p.Preferences.Distance,
			GenderPreference:  genders,
			AdopterPreference: profile.Role(p.Preferences.AdopterPreference),
			BreedPreference:   p.Preferences.BreedPreference,
		}
	}
	if p.CreatedAt != nil {
		out.CreatedAt = *p.CreatedAt
	}
	if p.UpdatedAt != nil {
		out.UpdatedAt = *p.UpdatedAt
	}
	return out
}
