package postgres

import (
	"database/sql"
	"time"
)

type profileTableModel struct {
	ID          int64          `db:"id"`
	UserID      string         `db:"user_id"`
	FullName    string         `db:"full_name"`
	Username    string         `db:"username"`
	Bio         string         `db:"bio"`
	Adopter     sql.NullString `db:"adopter"`
	Gender      sql.NullString `db:"gender"`
	Birthdate   sql.NullTime   `db:"birthdate"`
	Breed       sql.NullString `db:"breed"`
	AvatarURL   sql.NullString `db:"avatar_url"`
	Preferences sql.NullString `db:"preferences"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	DeletedAt   *time.Time     `db:"deleted_at"`
}

type profileInsertModel struct {
	UserID      string    `db:"user_id"`
	FullName    string    `db:"full_name"`
	Username    string    `db:"username"`
	Bio         string    `db:"bio"`
	Adopter     *string   `db:"adopter"`
	Gender      *string   `db:"gender"`
	Birthdate   *string   `db:"birthdate"`
	Breed       *string   `db:"breed"`
	AvatarURL   *string   `db:"avatar_url"`
	Preferences *string   `db:"preferences"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// preferencesDocument is the JSONB shape of profiles.preferences.
type preferencesDocument struct {
	AgeRange          ageRangeDocument `json:"age_range"`
	Distance          int              `json:"distance"`
	GenderPreference  []string         `json:"gender_preference"`
	AdopterPreference string           `json:"adopter_preference"`
	BreedPreference   string           `json:"breed_preference"`
}

type ageRangeDocument struct {
	Min int `json:"min"`
	Max int `json:"max"`
}
