package profileform

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/pawmatch/internal/domain/profile"
)

func TestReduce_GenderPreferenceToggle(t *testing.T) {
	values := profile.Placeholder()

	values = Reduce(values, ToggleGenderPreference{Gender: profile.GenderMale, Checked: true})
	if diff := cmp.Diff([]profile.Gender{profile.GenderMale}, values.Preferences.GenderPreference); diff != "" {
		t.Fatalf("after checking male (-want +got):\n%s", diff)
	}

	values = Reduce(values, ToggleGenderPreference{Gender: profile.GenderFemale, Checked: true})
	if diff := cmp.Diff([]profile.Gender{profile.GenderMale, profile.GenderFemale}, values.Preferences.GenderPreference); diff != "" {
		t.Fatalf("after checking female (-want +got):\n%s", diff)
	}

	values = Reduce(values, ToggleGenderPreference{Gender: profile.GenderMale, Checked: true})
	if len(values.Preferences.GenderPreference) != 2 {
		t.Fatalf("expected re-checking to keep set semantics, got %v", values.Preferences.GenderPreference)
	}
}

func TestReduce_ToggleOnThenOffRestoresPriorSet(t *testing.T) {
	tests := []struct {
		name   string
		prior  []profile.Gender
		toggle profile.Gender
	}{
		{name: "empty", prior: []profile.Gender{}, toggle: profile.GenderOther},
		{name: "non empty", prior: []profile.Gender{profile.GenderFemale}, toggle: profile.GenderMale},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values := profile.Placeholder()
			values.Preferences.GenderPreference = tc.prior

			values = Reduce(values, ToggleGenderPreference{Gender: tc.toggle, Checked: true})
			values = Reduce(values, ToggleGenderPreference{Gender: tc.toggle, Checked: false})

			if diff := cmp.Diff(tc.prior, values.Preferences.GenderPreference); diff != "" {
				t.Fatalf("gender preference mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReduce_UncheckRemovesAllOccurrences(t *testing.T) {
	values := profile.Placeholder()
	values.Preferences.GenderPreference = []profile.Gender{profile.GenderMale, profile.GenderFemale, profile.GenderMale}

	values = Reduce(values, ToggleGenderPreference{Gender: profile.GenderMale, Checked: false})
	if diff := cmp.Diff([]profile.Gender{profile.GenderFemale}, values.Preferences.GenderPreference); diff != "" {
		t.Fatalf("gender preference mismatch (-want +got):\n%s", diff)
	}
}

func TestReduce_BreedPreferenceOnlyTouchesBreedPreference(t *testing.T) {
	before := profile.Placeholder()
	before.Preferences.Distance = 40
	before.Preferences.GenderPreference = []profile.Gender{profile.GenderOther}

	after := Reduce(before, SetBreedPreference{Value: "Corgi"})

	want := before.Clone()
	want.Preferences.BreedPreference = "Corgi"
	if diff := cmp.Diff(want, after); diff != "" {
		t.Fatalf("unexpected change (-want +got):\n%s", diff)
	}
	if before.Preferences.BreedPreference != "" {
		t.Fatalf("expected input values to stay untouched")
	}
}

func TestReduce_BioIsCapped(t *testing.T) {
	long := strings.Repeat("é", profile.BioMaxLength+20)

	values := Reduce(profile.Placeholder(), SetBio{Value: long})
	if got := len([]rune(values.Bio)); got != profile.BioMaxLength {
		t.Fatalf("expected bio capped at %d runes, got %d", profile.BioMaxLength, got)
	}
}

func TestReduce_BioCapCountsEmojiAsOneRune(t *testing.T) {
	full := strings.Repeat("🐶", profile.BioMaxLength)

	values := Reduce(profile.Placeholder(), SetBio{Value: full + "🐾"})
	if values.Bio != full {
		t.Fatalf("expected %d emoji to fit the cap, got %d runes", profile.BioMaxLength, len([]rune(values.Bio)))
	}
}

func TestReduce_NilPreferencesAreDefaulted(t *testing.T) {
	values := Reduce(profile.Profile{}, SetDistance{Value: 10})
	if values.Preferences == nil {
		t.Fatalf("expected preferences to be created")
	}
	if values.Preferences.Distance != 10 || values.Preferences.AdopterPreference != profile.RolePet {
		t.Fatalf("unexpected preferences: %+v", *values.Preferences)
	}
}

func TestCommandFromField(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		checked bool
		want    Command
		wantErr error
	}{
		{name: "full name", field: FieldFullName, value: "Rex", want: SetFullName{Value: "Rex"}},
		{name: "breed preference", field: FieldBreedPreference, value: "Pug", want: SetBreedPreference{Value: "Pug"}},
		{name: "adopter", field: FieldAdopter, value: "pet", want: SetAdopter{Value: profile.RolePet}},
		{name: "gender toggle", field: FieldGenderPreference, value: "female", checked: true, want: ToggleGenderPreference{Gender: profile.GenderFemale, Checked: true}},
		{name: "distance", field: FieldDistance, value: " 30 ", want: SetDistance{Value: 30}},
		{name: "age max", field: FieldAgeRangeMax, value: "12", want: SetAgeRangeMax{Value: 12}},
		{name: "adopter preference", field: FieldAdopterPreference, value: "adopter", want: SetAdopterPreference{Value: profile.RoleAdopter}},
		{name: "unknown field", field: "favorite_color", value: "blue", wantErr: ErrUnknownField},
		{name: "bad gender", field: FieldGender, value: "robot", wantErr: ErrInvalidValue},
		{name: "bad distance", field: FieldDistance, value: "far", wantErr: ErrInvalidValue},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CommandFromField(tc.field, tc.value, tc.checked)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("unexpected command: want %#v got %#v", tc.want, got)
			}
		})
	}
}

func TestFieldsAllMapToCommands(t *testing.T) {
	samples := map[string]string{
		FieldAdopter:           "adopter",
		FieldAdopterPreference: "pet",
		FieldGender:            "male",
		FieldGenderPreference:  "male",
		FieldDistance:          "1",
		FieldAgeRangeMin:       "1",
		FieldAgeRangeMax:       "2",
	}
	for _, name := range Fields {
		if _, err := CommandFromField(name, samples[name], true); err != nil {
			t.Fatalf("field %s rejected: %v", name, err)
		}
	}
}
