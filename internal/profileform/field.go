package profileform

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/pawmatch/internal/domain/profile"
)

var (
	ErrUnknownField = errors.New("unknown form field")
	ErrInvalidValue = errors.New("invalid field value")
)

// Form field names as submitted by clients.
const (
	FieldFullName          = "full_name"
	FieldUsername          = "username"
	FieldBio               = "bio"
	FieldAdopter           = "adopter"
	FieldGender            = "gender"
	FieldBirthdate         = "birthdate"
	FieldBreed             = "breed"
	FieldAvatarURL         = "avatar_url"
	FieldBreedPreference   = "breed_preference"
	FieldGenderPreference  = "gender_preference"
	FieldDistance          = "distance"
	FieldAgeRangeMin       = "age_range_min"
	FieldAgeRangeMax       = "age_range_max"
	FieldAdopterPreference = "adopter_preference"
)

// Fields lists every accepted field name.
var Fields = []string{
	FieldFullName,
	FieldUsername,
	FieldAdopter,
	FieldBirthdate,
	FieldGender,
	FieldGenderPreference,
	FieldBreed,
	FieldBreedPreference,
	FieldBio,
	FieldAvatarURL,
	FieldDistance,
	FieldAgeRangeMin,
	FieldAgeRangeMax,
	FieldAdopterPreference,
}

// FieldChange is one input event. Checked only matters for gender_preference.
type FieldChange struct {
	Name    string
	Value   string
	Checked bool
}

// CommandFromField maps a named input event onto a Command.
func CommandFromField(name, value string, checked bool) (Command, error) {
	name = strings.TrimSpace(name)
	switch name {
	case FieldFullName:
		return SetFullName{Value: value}, nil
	case FieldUsername:
		return SetUsername{Value: value}, nil
	case FieldBio:
		return SetBio{Value: value}, nil
	case FieldBirthdate:
		return SetBirthdate{Value: value}, nil
	case FieldBreed:
		return SetBreed{Value: value}, nil
	case FieldAvatarURL:
		return SetAvatarURL{Value: value}, nil
	case FieldBreedPreference:
		return SetBreedPreference{Value: value}, nil
	case FieldAdopter:
		role, err := profile.ParseRole(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidValue, name, err)
		}
		return SetAdopter{Value: role}, nil
	case FieldAdopterPreference:
		role, err := profile.ParseRole(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidValue, name, err)
		}
		return SetAdopterPreference{Value: role}, nil
	case FieldGender:
		gender, err := profile.ParseGender(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidValue, name, err)
		}
		return SetGender{Value: gender}, nil
	case FieldGenderPreference:
		gender, err := profile.ParseGender(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidValue, name, err)
		}
		return ToggleGenderPreference{Gender: gender, Checked: checked}, nil
	case FieldDistance, FieldAgeRangeMin, FieldAgeRangeMax:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer", ErrInvalidValue, name)
		}
		switch name {
		case FieldDistance:
			return SetDistance{Value: n}, nil
		case FieldAgeRangeMin:
			return SetAgeRangeMin{Value: n}, nil
		default:
			return SetAgeRangeMax{Value: n}, nil
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
}

// CommandsFromFields converts every change, stopping at the first bad one.
func CommandsFromFields(changes []FieldChange) ([]Command, error) {
	out := make([]Command, 0, len(changes))
	for _, change := range changes {
		cmd, err := CommandFromField(change.Name, change.Value, change.Checked)
		if err != nil {
			return nil, err
		}
		out = append(out, cmd)
	}
	return out, nil
}
