package profile

import (
	"context"
	"errors"
)

// ErrUsernameTaken is returned by repositories when another user already owns the username.
var ErrUsernameTaken = errors.New("username already taken")

// Repository describes profile persistence needs from use cases.
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Profile, bool, error)
	GetByUsername(ctx context.Context, username string) (Profile, bool, error)
	Upsert(ctx context.Context, p Profile) error
}
