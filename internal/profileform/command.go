package profileform

import (
	"slices"
	"unicode/utf8"

	"github.com/riskibarqy/pawmatch/internal/domain/profile"
)

// Command is a single field update. The set of commands is closed; Reduce is
// the only place they are interpreted.
type Command interface {
	isCommand()
}

type (
	SetFullName  struct{ Value string }
	SetUsername  struct{ Value string }
	SetBio       struct{ Value string }
	SetAdopter   struct{ Value profile.Role }
	SetGender    struct{ Value profile.Gender }
	SetBirthdate struct{ Value string }
	SetBreed     struct{ Value string }
	// SetAvatarURL is dispatched once a photo upload completes.
	SetAvatarURL         struct{ Value string }
	SetBreedPreference   struct{ Value string }
	SetDistance          struct{ Value int }
	SetAgeRange          struct{ Value profile.AgeRange }
	SetAgeRangeMin       struct{ Value int }
	SetAgeRangeMax       struct{ Value int }
	SetAdopterPreference struct{ Value profile.Role }

	ToggleGenderPreference struct {
		Gender  profile.Gender
		Checked bool
	}
)

func (SetFullName) isCommand()            {}
func (SetUsername) isCommand()            {}
func (SetBio) isCommand()                 {}
func (SetAdopter) isCommand()             {}
func (SetGender) isCommand()              {}
func (SetBirthdate) isCommand()           {}
func (SetBreed) isCommand()               {}
func (SetAvatarURL) isCommand()           {}
func (SetBreedPreference) isCommand()     {}
func (SetDistance) isCommand()            {}
func (SetAgeRange) isCommand()            {}
func (SetAgeRangeMin) isCommand()         {}
func (SetAgeRangeMax) isCommand()         {}
func (SetAdopterPreference) isCommand()   {}
func (ToggleGenderPreference) isCommand() {}

// Reduce returns values with cmd applied. values is not modified.
func Reduce(values profile.Profile, cmd Command) profile.Profile {
	out := values.Clone()
	if out.Preferences == nil {
		prefs := profile.DefaultPreferences()
		out.Preferences = &prefs
	}
	prefs := out.Preferences

	switch c := cmd.(type) {
	case SetFullName:
		out.FullName = c.Value
	case SetUsername:
		out.Username = c.Value
	case SetBio:
		out.Bio = capRunes(c.Value, profile.BioMaxLength)
	case SetAdopter:
		out.Adopter = c.Value
	case SetGender:
		out.Gender = c.Value
	case SetBirthdate:
		out.Birthdate = c.Value
	case SetBreed:
		out.Breed = c.Value
	case SetAvatarURL:
		out.AvatarURL = c.Value
	case SetBreedPreference:
		prefs.BreedPreference = c.Value
	case SetDistance:
		prefs.Distance = c.Value
	case SetAgeRange:
		prefs.AgeRange = c.Value
	case SetAgeRangeMin:
		prefs.AgeRange.Min = c.Value
	case SetAgeRangeMax:
		prefs.AgeRange.Max = c.Value
	case SetAdopterPreference:
		prefs.AdopterPreference = c.Value
	case ToggleGenderPreference:
		prefs.GenderPreference = toggleGender(prefs.GenderPreference, c.Gender, c.Checked)
	}

	return out
}

// toggleGender appends g when checked and absent; unchecking drops every occurrence.
func toggleGender(current []profile.Gender, g profile.Gender, checked bool) []profile.Gender {
	if checked {
		if slices.Contains(current, g) {
			return current
		}
		return append(current, g)
	}
	return slices.DeleteFunc(current, func(v profile.Gender) bool { return v == g })
}

func capRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
