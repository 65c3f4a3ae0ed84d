package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
)

type fakeProfileAPI struct {
	mu      sync.Mutex
	profile map[string]any
	updates []map[string]any
	reject  string
}

func (f *fakeProfileAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer test-token" {
		writeEnvelope(w, http.StatusUnauthorized, map[string]any{"error": map[string]any{"code": 401, "message": "unauthorized"}})
		return
	}

	switch r.Method {
	case http.MethodGet:
		if f.profile == nil {
			writeEnvelope(w, http.StatusNotFound, map[string]any{"error": map[string]any{"code": 404, "message": "profile not found"}})
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{"data": f.profile})
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		_ = sonic.Unmarshal(body, &payload)
		f.updates = append(f.updates, payload)
		if f.reject != "" {
			writeEnvelope(w, http.StatusConflict, map[string]any{"error": map[string]any{
				"code":    409,
				"message": "conflict: " + f.reject,
				"errors":  []map[string]any{{"reason": "conflict", "message": f.reject}},
			}})
			return
		}
		payload["user_id"] = "user-1"
		f.profile = payload
		writeEnvelope(w, http.StatusOK, map[string]any{"data": payload})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeEnvelope(w http.ResponseWriter, status int, body map[string]any) {
	body["apiVersion"] = "2.0"
	encoded, _ := sonic.Marshal(body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(encoded)
}

func runCLI(t *testing.T, apiURL string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--api-url", apiURL, "--token", "test-token"}, args...))

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestShow_NoProfile(t *testing.T) {
	srv := httptest.NewServer(&fakeProfileAPI{})
	defer srv.Close()

	out, _, err := runCLI(t, srv.URL, "show")
	require.NoError(t, err)
	require.Contains(t, out, "no profile yet")
}

func TestShow_JSON(t *testing.T) {
	api := &fakeProfileAPI{profile: map[string]any{
		"user_id":  "user-1",
		"username": "dana",
		"adopter":  "adopter",
		"preferences": map[string]any{
			"age_range":         map[string]any{"min": 1, "max": 8},
			"distance":          20,
			"gender_preference": []string{"female"},
		},
	}}
	srv := httptest.NewServer(api)
	defer srv.Close()

	out, _, err := runCLI(t, srv.URL, "show", "-o", "json")
	require.NoError(t, err)

	var view profileView
	require.NoError(t, sonic.Unmarshal([]byte(out), &view))
	require.Equal(t, "dana", view.Username)
	require.Equal(t, 20, view.Distance)
	require.Equal(t, []string{"female"}, view.GenderPreference)
}

func TestEdit_SubmitsAndNavigates(t *testing.T) {
	api := &fakeProfileAPI{profile: map[string]any{
		"user_id":  "user-1",
		"username": "dana",
		"bio":      "old",
		"preferences": map[string]any{
			"age_range":         map[string]any{"min": 0, "max": 10},
			"gender_preference": []string{"male"},
		},
	}}
	srv := httptest.NewServer(api)
	defer srv.Close()

	out, stderr, err := runCLI(t, srv.URL, "edit",
		"--set", "bio=Loves naps",
		"--set", "distance=25",
		"--check-gender", "female",
		"--uncheck-gender", "male",
	)
	require.NoError(t, err)
	require.Contains(t, stderr, "navigated to /profile")
	require.Contains(t, out, "Loves naps")

	require.Len(t, api.updates, 1)
	sent := api.updates[0]
	require.Equal(t, "Loves naps", sent["bio"])
	prefs := sent["preferences"].(map[string]any)
	require.EqualValues(t, 25, prefs["distance"])
	require.Equal(t, []any{"female"}, prefs["gender_preference"])
}

func TestEdit_RejectedUpdate(t *testing.T) {
	api := &fakeProfileAPI{profile: map[string]any{"user_id": "user-1", "username": "dana"}, reject: "username is already taken"}
	srv := httptest.NewServer(api)
	defer srv.Close()

	_, stderr, err := runCLI(t, srv.URL, "edit", "--set", "username=pickles")
	require.Error(t, err)
	require.Contains(t, err.Error(), "username is already taken")
	require.NotContains(t, stderr, "navigated")
}

func TestEdit_DryRunDoesNotSubmit(t *testing.T) {
	api := &fakeProfileAPI{profile: map[string]any{"user_id": "user-1", "username": "dana"}}
	srv := httptest.NewServer(api)
	defer srv.Close()

	out, _, err := runCLI(t, srv.URL, "edit", "--dry-run", "--set", "breed=Beagle")
	require.NoError(t, err)
	require.Contains(t, out, "Beagle")
	require.Empty(t, api.updates)
}

func TestEdit_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no changes", args: []string{"edit"}, want: "nothing to change"},
		{name: "malformed set", args: []string{"edit", "--set", "bio"}, want: "field=value"},
		{name: "unknown field", args: []string{"edit", "--set", "color=brown"}, want: "unknown form field"},
		{name: "bad output", args: []string{"show", "-o", "yaml"}, want: "unsupported output"},
	}

	api := &fakeProfileAPI{profile: map[string]any{"user_id": "user-1", "username": "dana"}}
	srv := httptest.NewServer(api)
	defer srv.Close()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, srv.URL, tc.args...)
			require.Error(t, err)
			require.True(t, strings.Contains(err.Error(), tc.want), "error %q does not mention %q", err, tc.want)
		})
	}
	require.Empty(t, api.updates)
}
