package memory

import (
	"time"

	"github.com/riskibarqy/pawmatch/internal/domain/profile"
)

// SeedProfiles returns demo profiles for local development.
func SeedProfiles() []profile.Profile {
	createdAt := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

	return []profile.Profile{
		{
			UserID:    "demo-adopter",
			FullName:  "Dana Whitfield",
			Username:  "dana",
			Bio:       "Looking for a calm senior dog to share quiet weekends.",
			Adopter:   profile.RoleAdopter,
			Gender:    profile.GenderFemale,
			Birthdate: "1990-06-12",
			Breed:     profile.DefaultBreed,
			Preferences: &profile.Preferences{
				AgeRange:          profile.AgeRange{Min: 5, Max: 14},
				Distance:          40,
				GenderPreference:  []profile.Gender{profile.GenderMale, profile.GenderFemale},
				AdopterPreference: profile.RolePet,
				BreedPreference:   "Greyhound",
			},
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		},
		{
			UserID:    "demo-pet",
			FullName:  "Pickles",
			Username:  "pickles",
			Bio:       "Three-legged terrier, loves tennis balls.",
			Adopter:   profile.RolePet,
			Gender:    profile.GenderMale,
			Birthdate: "2019-02-03",
			Breed:     "Jack Russell Terrier",
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		},
	}
}
