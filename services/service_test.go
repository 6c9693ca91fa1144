package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/fengwang001/plant-version-app/database"
	"github.com/fengwang001/plant-version-app/enrichment"
	"github.com/fengwang001/plant-version-app/models"
	"github.com/fengwang001/plant-version-app/recognition"
	"github.com/fengwang001/plant-version-app/repository"
	"github.com/fengwang001/plant-version-app/storage"
	"github.com/fengwang001/plant-version-app/workers"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the full service stack against an in-memory database, a
// temp-dir local store, and stubbed external backends.
type testEnv struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	plantRepo repository.PlantRepository
	users     *UserService
	media     *MediaService
	plants    *PlantService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)

	store, err := storage.NewLocalStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	userRepo := repository.NewGormUserRepository(db)
	plantRepo := repository.NewGormPlantRepository(db)

	return &testEnv{
		db:        db,
		userRepo:  userRepo,
		plantRepo: plantRepo,
		users:     NewUserService(userRepo, sqlDB),
		media:     NewMediaService(repository.NewGormMediaFileRepository(db), store, 0),
		plants:    NewPlantService(plantRepo, sqlDB),
	}
}

// newIdentService builds an IdentificationService on top of the env with the
// given recognition provider. The enrichment pool runs with a fetcher that
// always fails, so workers never write to the database during a test.
func (env *testEnv) newIdentService(t *testing.T, provider, fallback recognition.Provider) *IdentificationService {
	t.Helper()
	pool := workers.NewEnrichmentPool(failingFetcher{}, env.plantRepo, 10, 1)
	t.Cleanup(pool.Stop)
	return NewIdentificationService(
		repository.NewGormIdentificationRepository(env.db),
		env.userRepo,
		env.plants,
		env.media,
		provider,
		fallback,
		pool,
	)
}

func (env *testEnv) createUser(t *testing.T) *models.User {
	t.Helper()
	user := &models.User{IsActive: true, UserType: models.UserTypeRegular}
	require.NoError(t, env.userRepo.Create(user))
	return user
}

// failingFetcher makes enrichment a no-op in tests.
type failingFetcher struct{}

func (failingFetcher) FetchDetails(ctx context.Context, scientificName, commonName string) (*enrichment.PlantDetails, error) {
	return nil, fmt.Errorf("fetcher disabled in tests")
}

func (failingFetcher) FetchSeasonalImages(ctx context.Context, scientificName, commonName string) map[string][]models.SeasonalImage {
	return nil
}

// stubProvider returns a canned recognition result or error.
type stubProvider struct {
	result *recognition.Result
	err    error
}

func (s *stubProvider) Identify(ctx context.Context, imageDataURI string) (*recognition.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}
