package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/pawmatch/internal/usecase"
)

func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyProfile")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, exists, err := h.profileService.GetCurrentUserProfile(ctx, principal.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get profile failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeError(ctx, w, fmt.Errorf("%w: profile for user=%s", usecase.ErrNotFound, principal.UserID))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(item))
}

func (h *Handler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMyProfile")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.profileService.UpdateUserProfile(ctx, req.toInput(principal.UserID))
	if err != nil {
		h.logger.WarnContext(ctx, "update profile failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(updated))
}

func (h *Handler) CreateAvatarUploadURL(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateAvatarUploadURL")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req avatarUploadRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	upload, err := h.avatarService.CreateUploadURL(ctx, usecase.CreateAvatarUploadInput{
		UserID:      principal.UserID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create avatar upload url failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, avatarUploadDTO{
		UploadURL: upload.UploadURL,
		Method:    upload.Method,
		Headers:   upload.Headers,
		ObjectKey: upload.ObjectKey,
		AvatarURL: upload.AvatarURL,
		ExpiresAt: upload.ExpiresAt,
	})
}
