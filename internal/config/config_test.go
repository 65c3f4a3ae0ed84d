package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/pawmatch/internal/platform/logging"
	"github.com/riskibarqy/pawmatch/internal/platform/resilience"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "pawmatch-api" {
		t.Fatalf("unexpected ServiceName: %q", cfg.ServiceName)
	}
	if cfg.ProfileStore != StoreMemory {
		t.Fatalf("unexpected ProfileStore: %q", cfg.ProfileStore)
	}
	if cfg.EditSessionTTL != 30*time.Minute {
		t.Fatalf("unexpected EditSessionTTL: %s", cfg.EditSessionTTL)
	}
	if cfg.AvatarUploadExpiry != 15*time.Minute {
		t.Fatalf("unexpected AvatarUploadExpiry: %s", cfg.AvatarUploadExpiry)
	}
	if cfg.EventWorkers != 8 {
		t.Fatalf("unexpected EventWorkers: %d", cfg.EventWorkers)
	}
	if !cfg.SwaggerEnabled {
		t.Fatalf("expected swagger enabled outside prod")
	}
	want := resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 5, OpenTimeout: 15 * time.Second, HalfOpenMaxReq: 2}
	if cfg.AnubisCircuit != want {
		t.Fatalf("unexpected AnubisCircuit: %+v", cfg.AnubisCircuit)
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("explicit override wins", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("SWAGGER_ENABLED", "true")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true when set explicitly")
		}
	})
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown store", env: map[string]string{"PROFILE_STORE": "redis"}},
		{name: "uptrace without dsn", env: map[string]string{"UPTRACE_ENABLED": "true", "UPTRACE_DSN": ""}},
		{name: "betterstack without endpoint", env: map[string]string{"BETTERSTACK_ENABLED": "true"}},
		{name: "qstash without token", env: map[string]string{"QSTASH_ENABLED": "true", "QSTASH_TARGET_BASE_URL": "https://api.test", "INTERNAL_JOB_TOKEN": "x"}},
		{name: "qstash without job token", env: map[string]string{"QSTASH_ENABLED": "true", "QSTASH_TOKEN": "t", "QSTASH_TARGET_BASE_URL": "https://api.test"}},
		{name: "pyroscope without address", env: map[string]string{"PYROSCOPE_ENABLED": "true"}},
		{name: "bad bool", env: map[string]string{"CACHE_ENABLED": "maybe"}},
		{name: "bad duration", env: map[string]string{"EDIT_SESSION_TTL": "soon"}},
		{name: "non-positive duration", env: map[string]string{"CACHE_TTL": "0s"}},
		{name: "zero workers", env: map[string]string{"EVENT_WORKERS": "0"}},
		{name: "circuit threshold", env: map[string]string{"QSTASH_CIRCUIT_FAILURE_COUNT": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %v", tt.env)
			}
		})
	}
}

func TestLoad_DynamoDBStore(t *testing.T) {
	t.Setenv("APP_ENV", EnvStage)
	t.Setenv("PROFILE_STORE", "DynamoDB")
	t.Setenv("DYNAMODB_PROFILES_TABLE", "pawmatch-profiles")
	t.Setenv("AWS_REGION", "eu-west-1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ProfileStore != StoreDynamoDB {
		t.Fatalf("unexpected ProfileStore: %q", cfg.ProfileStore)
	}
	if cfg.DynamoDBProfilesTable != "pawmatch-profiles" || cfg.AWSRegion != "eu-west-1" {
		t.Fatalf("unexpected aws config: %+v", cfg)
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logging.Level{
		"debug":   logging.LevelDebug,
		"WARNING": logging.LevelWarn,
		"error":   logging.LevelError,
		"":        logging.LevelInfo,
		"verbose": logging.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Fatalf("parseLogLevel(%q)=%v want=%v", in, got, want)
		}
	}
}
