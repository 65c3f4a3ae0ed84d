package profileapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/pawmatch/internal/domain/profile"
	"github.com/riskibarqy/pawmatch/internal/platform/logging"
	"github.com/riskibarqy/pawmatch/internal/platform/resilience"
	"github.com/riskibarqy/pawmatch/internal/usecase"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, status int, data any, errBody *errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	raw, _ := sonic.Marshal(map[string]any{"apiVersion": "2.0", "data": data, "error": errBody})
	_, _ = w.Write(raw)
}

func newTestClient(srv *httptest.Server, breaker resilience.CircuitBreakerConfig) *Client {
	return NewClient(srv.Client(), srv.URL+"/", "token-abc", breaker, logging.NewNop())
}

func TestLoadProfile_DecodesEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/profile/me" || r.Method != http.MethodGet {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-abc" {
			t.Errorf("unexpected Authorization: %q", got)
		}
		writeEnvelope(w, http.StatusOK, profilePayload{
			UserID:   "user-1",
			FullName: "Dana",
			Username: "dana",
			Adopter:  "adopter",
			Gender:   "female",
			Preferences: &preferencesPayload{
				AgeRange:          ageRangePayload{Min: 2, Max: 9},
				Distance:          30,
				GenderPreference:  []string{"male"},
				AdopterPreference: "pet",
			},
		}, nil)
	}))
	defer srv.Close()

	got, exists, err := newTestClient(srv, resilience.CircuitBreakerConfig{}).LoadProfile(context.Background())
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, "dana", got.Username)
	require.Equal(t, profile.RoleAdopter, got.Adopter)
	require.NotNil(t, got.Preferences)
	require.Equal(t, []profile.Gender{profile.GenderMale}, got.Preferences.GenderPreference)
	require.Equal(t, profile.AgeRange{Min: 2, Max: 9}, got.Preferences.AgeRange)
}

func TestLoadProfile_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusNotFound, nil, &errorBody{Code: 404, Message: "resource not found: profile", Status: "NOT_FOUND"})
	}))
	defer srv.Close()

	_, exists, err := newTestClient(srv, resilience.CircuitBreakerConfig{}).LoadProfile(context.Background())
	require.NoError(t, err)
	require.False(t, exists)
}

func TestLoadProfile_Unauthorized(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, nil, &errorBody{Code: 401, Message: "unauthorized: inactive token"})
	}))
	defer srv.Close()

	_, _, err := newTestClient(srv, resilience.CircuitBreakerConfig{}).LoadProfile(context.Background())
	require.ErrorIs(t, err, usecase.ErrUnauthorized)
}

func TestUpdateProfile_Results(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		errBody *errorBody
		want    bool
		wantMsg string
		wantErr error
	}{
		{name: "success", status: http.StatusOK, want: true},
		{
			name:    "conflict becomes rejected result",
			status:  http.StatusConflict,
			errBody: &errorBody{Message: "conflict: username is already taken", Errors: []errorItem{{Reason: "conflict", Message: "username is already taken"}}},
			wantMsg: "username is already taken",
		},
		{
			name:    "validation becomes rejected result",
			status:  http.StatusBadRequest,
			errBody: &errorBody{Message: "invalid input: bio is too long"},
			wantMsg: "invalid input: bio is too long",
		},
		{name: "server failure is an error", status: http.StatusBadGateway, wantErr: usecase.ErrDependencyUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPut {
					t.Errorf("unexpected method: %s", r.Method)
				}
				var body profilePayload
				if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Errorf("decode request body: %v", err)
				}
				if body.Preferences == nil || body.Preferences.AdopterPreference != "pet" {
					t.Errorf("expected default preferences in body, got %+v", body.Preferences)
				}
				writeEnvelope(w, tt.status, profilePayload{Username: body.Username}, tt.errBody)
			}))
			defer srv.Close()

			result, err := newTestClient(srv, resilience.CircuitBreakerConfig{}).UpdateProfile(context.Background(), profile.Profile{
				FullName: "Dana",
				Username: "dana",
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, result.Success)
			require.Equal(t, tt.wantMsg, result.Error)
		})
	}
}

func TestClient_CircuitOpensOnTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestClient(srv, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	for i := 0; i < 3; i++ {
		_, _, err := client.LoadProfile(context.Background())
		if !errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("call %d: expected dependency unavailable, got %v", i, err)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected breaker to stop after 2 calls, got %d", got)
	}
}
