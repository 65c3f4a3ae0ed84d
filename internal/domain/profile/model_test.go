package profile

import "testing"

func TestFromFetched_AppliesDefaults(t *testing.T) {
	got := FromFetched(Profile{UserID: "u1", FullName: "Rex"})

	if got.Breed != DefaultBreed {
		t.Fatalf("expected breed %q, got %q", DefaultBreed, got.Breed)
	}
	if got.Adopter != RoleAdopter {
		t.Fatalf("expected adopter role, got %q", got.Adopter)
	}
	if got.Gender != GenderMale {
		t.Fatalf("expected male gender, got %q", got.Gender)
	}
	if got.Preferences == nil {
		t.Fatalf("expected default preferences")
	}
	prefs := *got.Preferences
	if prefs.AgeRange != (AgeRange{Min: 0, Max: 99}) || prefs.Distance != 25 || prefs.AdopterPreference != RolePet {
		t.Fatalf("unexpected default preferences: %+v", prefs)
	}
	if prefs.GenderPreference == nil || len(prefs.GenderPreference) != 0 {
		t.Fatalf("expected empty gender preference, got %#v", prefs.GenderPreference)
	}
	if got.FullName != "Rex" {
		t.Fatalf("expected fetched full name to survive, got %q", got.FullName)
	}
}

func TestFromFetched_KeepsPresentPreferencesWholesale(t *testing.T) {
	in := Profile{
		Breed: "Beagle",
		Preferences: &Preferences{
			AgeRange:         AgeRange{Min: 2, Max: 8},
			GenderPreference: []Gender{GenderFemale},
		},
	}

	got := FromFetched(in)
	if got.Breed != "Beagle" {
		t.Fatalf("unexpected breed: %q", got.Breed)
	}
	if got.Preferences.Distance != 0 || got.Preferences.AdopterPreference != "" {
		t.Fatalf("expected stored preferences to replace defaults wholesale, got %+v", *got.Preferences)
	}

	got.Preferences.GenderPreference[0] = GenderOther
	if in.Preferences.GenderPreference[0] != GenderFemale {
		t.Fatalf("expected FromFetched to deep copy preferences")
	}
}

func TestParseGenderAndRole(t *testing.T) {
	if g, err := ParseGender(" Female "); err != nil || g != GenderFemale {
		t.Fatalf("parse gender: %v %q", err, g)
	}
	if _, err := ParseGender("unknown"); err == nil {
		t.Fatalf("expected invalid gender error")
	}
	if r, err := ParseRole("pet"); err != nil || r != RolePet {
		t.Fatalf("parse role: %v %q", err, r)
	}
	if _, err := ParseRole(""); err == nil {
		t.Fatalf("expected invalid role error")
	}
}
