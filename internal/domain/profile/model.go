package profile

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Role says which side of a match a profile belongs to.
type Role string

const (
	RoleAdopter Role = "adopter"
	RolePet     Role = "pet"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Genders lists the selectable genders in display order.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

const (
	BioMaxLength = 500
	DefaultBreed = "N/A"

	DefaultAgeMin   = 0
	DefaultAgeMax   = 99
	DefaultDistance = 25
)

func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleAdopter:
		return RoleAdopter, nil
	case RolePet:
		return RolePet, nil
	default:
		return "", fmt.Errorf("invalid role %q", value)
	}
}

func ParseGender(value string) (Gender, error) {
	switch Gender(strings.ToLower(strings.TrimSpace(value))) {
	case GenderMale:
		return GenderMale, nil
	case GenderFemale:
		return GenderFemale, nil
	case GenderOther:
		return GenderOther, nil
	default:
		return "", fmt.Errorf("invalid gender %q", value)
	}
}

type AgeRange struct {
	Min int
	Max int
}

// Preferences controls match filtering.
type Preferences struct {
	AgeRange          AgeRange
	Distance          int
	GenderPreference  []Gender
	AdopterPreference Role
	BreedPreference   string
}

func DefaultPreferences() Preferences {
	return Preferences{
		AgeRange:          AgeRange{Min: DefaultAgeMin, Max: DefaultAgeMax},
		Distance:          DefaultDistance,
		GenderPreference:  []Gender{},
		AdopterPreference: RolePet,
	}
}

func (p Preferences) Clone() Preferences {
	out := p
	out.GenderPreference = append([]Gender{}, p.GenderPreference...)
	return out
}

// HasGender reports whether g is among the preferred genders.
func (p Preferences) HasGender(g Gender) bool {
	return slices.Contains(p.GenderPreference, g)
}

// Profile is the editable record describing a user or pet.
// Preferences is nil when storage has none recorded.
type Profile struct {
	UserID      string
	FullName    string
	Username    string
	Bio         string
	Adopter     Role
	Gender      Gender
	Birthdate   string
	Breed       string
	AvatarURL   string
	Preferences *Preferences
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Placeholder is the state shown before a profile has been fetched.
func Placeholder() Profile {
	prefs := DefaultPreferences()
	return Profile{
		Adopter:     RoleAdopter,
		Gender:      GenderMale,
		Preferences: &prefs,
	}
}

// FromFetched applies the load defaults to a stored profile. Missing
// preferences are replaced wholesale by the default record.
func FromFetched(p Profile) Profile {
	out := p.Clone()
	if out.Breed == "" {
		out.Breed = DefaultBreed
	}
	if out.Adopter == "" {
		out.Adopter = RoleAdopter
	}
	if out.Gender == "" {
		out.Gender = GenderMale
	}
	if out.Preferences == nil {
		prefs := DefaultPreferences()
		out.Preferences = &prefs
	}
	return out
}

// Clone returns a deep copy so callers can mutate it freely.
func (p Profile) Clone() Profile {
	out := p
	if p.Preferences != nil {
		prefs := p.Preferences.Clone()
		out.Preferences = &prefs
	}
	return out
}

// Prefs returns the preferences or the defaults when none are set.
func (p Profile) Prefs() Preferences {
	if p.Preferences == nil {
		return DefaultPreferences()
	}
	return p.Preferences.Clone()
}
