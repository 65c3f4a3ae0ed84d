package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/pawmatch/internal/config"
	"github.com/riskibarqy/pawmatch/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:             config.EnvDev,
		ServiceName:        "pawmatch-api",
		HTTPAddr:           ":0",
		ReadTimeout:        time.Second,
		WriteTimeout:       time.Second,
		ProfileStore:       config.StoreMemory,
		CacheEnabled:       true,
		CacheTTL:           time.Minute,
		EditSessionTTL:     time.Minute,
		AvatarUploadExpiry: time.Minute,
		AnubisBaseURL:      "http://127.0.0.1:1",
		AnubisTimeout:      100 * time.Millisecond,
		InternalJobToken:   "job-token",
		EventWorkers:       2,
	}
}

func TestNew_MemoryStoreServesRoutes(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, a.Close(context.Background())) })

	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/profile/me", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNew_WithEventsClosesPool(t *testing.T) {
	cfg := memoryConfig()
	cfg.QStashEnabled = true
	cfg.QStashBaseURL = "http://127.0.0.1:1"
	cfg.QStashToken = "token"
	cfg.QStashTargetBaseURL = "http://127.0.0.1:2"
	cfg.QStashTimeout = 100 * time.Millisecond

	a, err := New(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	require.NotNil(t, a.events)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, a.Close(ctx))
}

func TestNew_RejectsEmptyAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = ""

	_, err := New(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}
