package httpapi

import "net/http"

func (h *Handler) StartEditSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartEditSession")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	session, err := h.profileEditService.Start(ctx, principal.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "start edit session failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, editSessionToDTO(session))
}

func (h *Handler) GetEditSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEditSession")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	session, err := h.profileEditService.Get(ctx, principal.UserID, r.PathValue("sessionID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, editSessionToDTO(session))
}

func (h *Handler) ApplyEditSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyEditSession")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req applyEditSessionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	session, err := h.profileEditService.Apply(ctx, principal.UserID, r.PathValue("sessionID"), req.toFieldChanges())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, editSessionToDTO(session))
}

func (h *Handler) SubmitEditSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitEditSession")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	sessionID := r.PathValue("sessionID")
	session, err := h.profileEditService.Submit(ctx, principal.UserID, sessionID)
	if err != nil {
		h.logger.WarnContext(ctx, "submit edit session failed", "user_id", principal.UserID, "edit_session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, editSessionToDTO(session))
}

func (h *Handler) CancelEditSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelEditSession")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	session, err := h.profileEditService.Cancel(ctx, principal.UserID, r.PathValue("sessionID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, editSessionToDTO(session))
}
