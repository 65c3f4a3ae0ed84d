package usecase

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/riskibarqy/pawmatch/internal/platform/id"
)

const DefaultAvatarUploadExpiry = 15 * time.Minute

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

type PresignedUpload struct {
	URL     string
	Method  string
	Headers map[string]string
}

// AvatarPresigner signs direct uploads to object storage.
type AvatarPresigner interface {
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (PresignedUpload, error)
	PublicURL(key string) string
}

type CreateAvatarUploadInput struct {
	UserID      string
	FileName    string
	ContentType string
}

type AvatarUpload struct {
	UploadURL string
	Method    string
	Headers   map[string]string
	ObjectKey string
	AvatarURL string
	ExpiresAt time.Time
}

type AvatarService struct {
	presigner AvatarPresigner
	ids       id.Generator
	expiry    time.Duration
	now       func() time.Time
}

func NewAvatarService(presigner AvatarPresigner, ids id.Generator, expiry time.Duration) *AvatarService {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if expiry <= 0 {
		expiry = DefaultAvatarUploadExpiry
	}

	return &AvatarService{
		presigner: presigner,
		ids:       ids,
		expiry:    expiry,
		now:       time.Now,
	}
}

// CreateUploadURL returns a presigned PUT for a new avatar object. The image
// bytes go straight to storage; clients dispatch the returned AvatarURL into
// the edit form once the upload completes.
func (s *AvatarService) CreateUploadURL(ctx context.Context, input CreateAvatarUploadInput) (AvatarUpload, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AvatarService.CreateUploadURL")
	defer span.End()

	if s.presigner == nil {
		return AvatarUpload{}, fmt.Errorf("%w: avatar storage is not configured", ErrDependencyUnavailable)
	}

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return AvatarUpload{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	contentType := strings.ToLower(strings.TrimSpace(input.ContentType))
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return AvatarUpload{}, fmt.Errorf("%w: content_type must be one of image/jpeg, image/png, image/gif", ErrInvalidInput)
	}
	if fileExt := strings.ToLower(path.Ext(strings.TrimSpace(input.FileName))); fileExt == ".jpeg" && ext == ".jpg" {
		ext = fileExt
	}

	objectID, err := s.ids.NewID()
	if err != nil {
		return AvatarUpload{}, fmt.Errorf("generate avatar object id: %w", err)
	}
	key := "avatars/" + userID + "/" + objectID + ext

	presigned, err := s.presigner.PresignPut(ctx, key, contentType, s.expiry)
	if err != nil {
		return AvatarUpload{}, fmt.Errorf("%w: presign avatar upload: %v", ErrDependencyUnavailable, err)
	}

	return AvatarUpload{
		UploadURL: presigned.URL,
		Method:    presigned.Method,
		Headers:   presigned.Headers,
		ObjectKey: key,
		AvatarURL: s.presigner.PublicURL(key),
		ExpiresAt: s.now().UTC().Add(s.expiry),
	}, nil
}
