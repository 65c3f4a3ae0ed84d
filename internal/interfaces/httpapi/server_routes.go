package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET "+openAPIPath, handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedProfileRoutes(mux, handler, verifier)
	registerAuthorizedEditSessionRoutes(mux, handler, verifier)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/profile-updated", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunProfileUpdatedJob)))
}

func registerAuthorizedProfileRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/profile/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyProfile)))
	mux.Handle("PUT /v1/profile/me", RequireAuth(verifier, http.HandlerFunc(handler.UpdateMyProfile)))
	mux.Handle("POST /v1/profile/me/avatar/upload-url", RequireAuth(verifier, http.HandlerFunc(handler.CreateAvatarUploadURL)))
}

func registerAuthorizedEditSessionRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/profile/edit-sessions", RequireAuth(verifier, http.HandlerFunc(handler.StartEditSession)))
	mux.Handle("GET /v1/profile/edit-sessions/{sessionID}", RequireAuth(verifier, http.HandlerFunc(handler.GetEditSession)))
	mux.Handle("PATCH /v1/profile/edit-sessions/{sessionID}", RequireAuth(verifier, http.HandlerFunc(handler.ApplyEditSession)))
	mux.Handle("POST /v1/profile/edit-sessions/{sessionID}/submit", RequireAuth(verifier, http.HandlerFunc(handler.SubmitEditSession)))
	mux.Handle("DELETE /v1/profile/edit-sessions/{sessionID}", RequireAuth(verifier, http.HandlerFunc(handler.CancelEditSession)))
}
