package httpapi

import (
	"net/http"

	"github.com/riskibarqy/pawmatch/internal/domain/profile"
)

type profileUpdatedJobResult struct {
	UserID    string `json:"user_id"`
	Refreshed bool   `json:"refreshed"`
}

// RunProfileUpdatedJob is the queue callback for profile.updated events.
func (h *Handler) RunProfileUpdatedJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunProfileUpdatedJob")
	defer span.End()

	var req profileUpdatedJobRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	_, exists, err := h.profileService.RefreshProfile(ctx, req.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "run profile updated job failed",
			"event", profile.EventUpdated,
			"user_id", req.UserID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "profile updated job completed",
		"event", profile.EventUpdated,
		"user_id", req.UserID,
		"username", req.Username,
		"occurred_at", req.OccurredAt,
		"exists", exists,
	)
	writeSuccess(ctx, w, http.StatusOK, profileUpdatedJobResult{UserID: req.UserID, Refreshed: exists})
}
