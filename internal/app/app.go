package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/pawmatch/internal/config"
	"github.com/riskibarqy/pawmatch/internal/domain/profile"
	"github.com/riskibarqy/pawmatch/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/pawmatch/internal/infrastructure/jobqueue"
	cacherepo "github.com/riskibarqy/pawmatch/internal/infrastructure/repository/cache"
	dynamorepo "github.com/riskibarqy/pawmatch/internal/infrastructure/repository/dynamodb"
	"github.com/riskibarqy/pawmatch/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pawmatch/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/pawmatch/internal/infrastructure/storage/s3avatar"
	"github.com/riskibarqy/pawmatch/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/pawmatch/internal/platform/cache"
	idgen "github.com/riskibarqy/pawmatch/internal/platform/id"
	"github.com/riskibarqy/pawmatch/internal/platform/logging"
	"github.com/riskibarqy/pawmatch/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const defaultDrainTimeout = 5 * time.Second

// App is the assembled API server and the resources it owns.
type App struct {
	Server *http.Server

	db     *sqlx.DB
	events *usecase.ProfileEventDispatcher
	logger *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger}

	var awsCfg *aws.Config
	loadAWS := func() (aws.Config, error) {
		if awsCfg != nil {
			return *awsCfg, nil
		}
		loaded, err := loadAWSConfig(ctx, cfg)
		if err != nil {
			return aws.Config{}, err
		}
		awsCfg = &loaded
		return loaded, nil
	}

	repo, err := a.profileRepository(cfg, loadAWS)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	var serviceOpts []usecase.ProfileServiceOption
	if cfg.CacheEnabled {
		cached := cacherepo.NewProfileRepository(repo, basecache.NewStore(cfg.CacheTTL))
		repo = cached
		serviceOpts = append(serviceOpts, usecase.WithProfileCacheInvalidator(cached))
	}

	if cfg.QStashEnabled {
		publisher := jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			Timeout:          cfg.QStashTimeout,
			CircuitBreaker:   cfg.QStashCircuit,
		}, logger)
		events, err := usecase.NewProfileEventDispatcher(publisher, cfg.EventWorkers, logger)
		if err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
		a.events = events
		serviceOpts = append(serviceOpts, usecase.WithProfileEvents(events))
	}

	var presigner usecase.AvatarPresigner
	if cfg.AvatarBucket != "" {
		loaded, err := loadAWS()
		if err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
		presigner = s3avatar.NewFromConfig(loaded, cfg.AvatarBucket, cfg.AvatarPublicBaseURL)
	} else {
		logger.Info("avatar uploads disabled", "reason", "AVATAR_BUCKET empty")
	}

	profileSvc := usecase.NewProfileService(repo, logger, serviceOpts...)
	editSvc := usecase.NewProfileEditService(profileSvc, cfg.EditSessionTTL, idgen.NewUUIDGenerator(), logger)
	avatarSvc := usecase.NewAvatarService(presigner, idgen.NewUUIDGenerator(), cfg.AvatarUploadExpiry)

	anubisClient := anubis.NewClient(
		&http.Client{Timeout: cfg.AnubisTimeout},
		cfg.AnubisBaseURL,
		cfg.AnubisIntrospectPath,
		cfg.AnubisAdminKey,
		cfg.AnubisCircuit,
		logger,
		anubis.WithPrincipalCache(cfg.AnubisPrincipalCacheTTL),
	)

	handler := httpapi.NewHandler(profileSvc, editSvc, avatarSvc, logger)
	router := httpapi.NewRouter(handler, anubisClient, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return a, nil
}

func (a *App) profileRepository(cfg config.Config, loadAWS func() (aws.Config, error)) (profile.Repository, error) {
	switch cfg.ProfileStore {
	case config.StorePostgres:
		db, err := openDB(cfg)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.logger.Info("profile store selected", "store", cfg.ProfileStore, "db_name", dbNameFromURL(cfg.DBURL))
		return postgres.NewProfileRepository(db), nil
	case config.StoreDynamoDB:
		loaded, err := loadAWS()
		if err != nil {
			return nil, err
		}
		a.logger.Info("profile store selected", "store", cfg.ProfileStore, "table", cfg.DynamoDBProfilesTable)
		return dynamorepo.NewProfileRepository(awsdynamodb.NewFromConfig(loaded), cfg.DynamoDBProfilesTable), nil
	default:
		var seed []profile.Profile
		if cfg.AppEnv != config.EnvProd {
			seed = memory.SeedProfiles()
		}
		a.logger.Info("profile store selected", "store", config.StoreMemory, "seeded", len(seed))
		return memory.NewProfileRepository(seed), nil
	}
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.ServiceName),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

func loadAWSConfig(ctx context.Context, cfg config.Config) (aws.Config, error) {
	loaded, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	if cfg.AWSEndpointURL != "" {
		loaded.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
	}
	return loaded, nil
}

// Close releases the worker pool and the database handle.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.events != nil {
		timeout := defaultDrainTimeout
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		if err := a.events.Close(timeout); err != nil {
			errs = append(errs, fmt.Errorf("close profile events: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close postgres: %w", err))
		}
	}
	return errors.Join(errs...)
}
