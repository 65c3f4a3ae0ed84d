package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/pawmatch/internal/domain/profile"
	qb "github.com/riskibarqy/pawmatch/internal/platform/querybuilder"
)

const (
	profilesTable = "profiles"
	dateLayout    = "2006-01-02"

	uniqueViolationCode = "23505"
)

type ProfileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (profile.Profile, bool, error) {
	query, args, err := qb.Select("*").From(profilesTable).
		Where(
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return profile.Profile{}, false, fmt.Errorf("build get profile by user id query: %w", err)
	}

	return r.getOne(ctx, query, args, "get profile by user id")
}

func (r *ProfileRepository) GetByUsername(ctx context.Context, username string) (profile.Profile, bool, error) {
	query, args, err := qb.Select("*").From(profilesTable).
		Where(
			qb.EqFold("username", username),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return profile.Profile{}, false, fmt.Errorf("build get profile by username query: %w", err)
	}

	return r.getOne(ctx, query, args, "get profile by username")
}

func (r *ProfileRepository) Upsert(ctx context.Context, p profile.Profile) error {
	insertModel, err := profileToInsertModel(p)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel(profilesTable, insertModel, `ON CONFLICT (user_id) WHERE deleted_at IS NULL
DO UPDATE SET
    full_name = EXCLUDED.full_name,
    username = EXCLUDED.username,
    bio = EXCLUDED.bio,
    adopter = EXCLUDED.adopter,
    gender = EXCLUDED.gender,
    birthdate = EXCLUDED.birthdate,
    breed = EXCLUDED.breed,
    avatar_url = EXCLUDED.avatar_url,
    preferences = EXCLUDED.preferences,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert profile query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, "username") {
			return profile.ErrUsernameTaken
		}
		return fmt.Errorf("upsert profile user_id=%s: %w", p.UserID, err)
	}

	return nil
}

func (r *ProfileRepository) getOne(ctx context.Context, query string, args []any, op string) (profile.Profile, bool, error) {
	var row profileTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return profile.Profile{}, false, nil
		}
		return profile.Profile{}, false, fmt.Errorf("%s: %w", op, err)
	}

	p, err := profileFromRow(row)
	if err != nil {
		return profile.Profile{}, false, err
	}

	return p, true, nil
}

func profileFromRow(row profileTableModel) (profile.Profile, error) {
	out := profile.Profile{
		UserID:    row.UserID,
		FullName:  row.FullName,
		Username:  row.Username,
		Bio:       row.Bio,
		Adopter:   profile.Role(row.Adopter.String),
		Gender:    profile.Gender(row.Gender.String),
		Breed:     row.Breed.String,
		AvatarURL: row.AvatarURL.String,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Birthdate.Valid {
		out.Birthdate = row.Birthdate.Time.Format(dateLayout)
	}

	if row.Preferences.Valid && strings.TrimSpace(row.Preferences.String) != "" {
		var doc preferencesDocument
		if err := sonic.UnmarshalString(row.Preferences.String, &doc); err != nil {
			return profile.Profile{}, fmt.Errorf("decode preferences user_id=%s: %w", row.UserID, err)
		}
		prefs := preferencesFromDocument(doc)
		out.Preferences = &prefs
	}

	return out, nil
}

func profileToInsertModel(p profile.Profile) (profileInsertModel, error) {
	model := profileInsertModel{
		UserID:    strings.TrimSpace(p.UserID),
		FullName:  p.FullName,
		Username:  p.Username,
		Bio:       p.Bio,
		Adopter:   optionalString(string(p.Adopter)),
		Gender:    optionalString(string(p.Gender)),
		Birthdate: optionalString(p.Birthdate),
		Breed:     optionalString(p.Breed),
		AvatarURL: optionalString(p.AvatarURL),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}

	if p.Preferences != nil {
		encoded, err := sonic.MarshalString(preferencesToDocument(*p.Preferences))
		if err != nil {
			return profileInsertModel{}, fmt.Errorf("encode preferences user_id=%s: %w", p.UserID, err)
		}
		model.Preferences = &encoded
	}

	return model, nil
}

func preferencesToDocument(p profile.Preferences) preferencesDocument {
	genders := make([]string, 0, len(p.GenderPreference))
	for _, g := range p.GenderPreference {
		genders = append(genders, string(g))
	}

	return preferencesDocument{
		AgeRange:          ageRangeDocument{Min: p.AgeRange.Min, Max: p.AgeRange.Max},
		Distance:          p.Distance,
		GenderPreference:  genders,
		AdopterPreference: string(p.AdopterPreference),
		BreedPreference:   p.BreedPreference,
	}
}

func preferencesFromDocument(doc preferencesDocument) profile.Preferences {
	genders := make([]profile.Gender, 0, len(doc.GenderPreference))
	for _, g := range doc.GenderPreference {
		genders = append(genders, profile.Gender(g))
	}

	return profile.Preferences{
		AgeRange:          profile.AgeRange{Min: doc.AgeRange.Min, Max: doc.AgeRange.Max},
		Distance:          doc.Distance,
		GenderPreference:  genders,
		AdopterPreference: profile.Role(doc.AdopterPreference),
		BreedPreference:   doc.BreedPreference,
	}
}

func isUniqueViolation(err error, constraintHint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if string(pqErr.Code) != uniqueViolationCode {
		return false
	}
	return constraintHint == "" || strings.Contains(pqErr.Constraint, constraintHint)
}
