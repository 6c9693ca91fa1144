package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fengwang001/plant-version-app/database"
	"github.com/fengwang001/plant-version-app/enrichment"
	"github.com/fengwang001/plant-version-app/models"
	"github.com/fengwang001/plant-version-app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newPlantRepo(t *testing.T) repository.PlantRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))
	return repository.NewGormPlantRepository(db)
}

// countingFetcher returns a fixed valid payload and counts calls.
type countingFetcher struct {
	calls atomic.Int32
	err   error
	block chan struct{} // when set, FetchDetails waits on it
}

func (f *countingFetcher) FetchDetails(ctx context.Context, scientificName, commonName string) (*enrichment.PlantDetails, error) {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	payload := fmt.Sprintf(`{
		"scientific_name": %q,
		"common_name": %q,
		"description": "An enriched description.",
		"characteristics": ["a", "b", "c"],
		"care_guide": {
			"sunlight": {"requirement": "full sun"},
			"watering": {"requirement": "moderate"},
			"soil": {"requirement": "loamy"},
			"temperature": {"requirement": "15-25C"}
		}
	}`, scientificName, commonName)
	details := &enrichment.PlantDetails{}
	if err := json.Unmarshal([]byte(payload), details); err != nil {
		return nil, err
	}
	return details, nil
}

func (f *countingFetcher) FetchSeasonalImages(ctx context.Context, scientificName, commonName string) map[string][]models.SeasonalImage {
	return map[string][]models.SeasonalImage{"spring": {{Description: "spring"}}}
}

func waitForPlant(t *testing.T, repo repository.PlantRepository, name string) *models.Plant {
	t.Helper()
	var plant *models.Plant
	require.Eventually(t, func() bool {
		p, err := repo.GetByScientificName(name)
		if err != nil {
			return false
		}
		plant = p
		return true
	}, 5*time.Second, 10*time.Millisecond)
	return plant
}

func TestPoolEnrichesAndUpserts(t *testing.T) {
	repo := newPlantRepo(t)
	fetcher := &countingFetcher{}
	pool := NewEnrichmentPool(fetcher, repo, 10, 1)
	defer pool.Stop()

	pool.Enqueue(EnrichmentJob{ScientificName: "Rosa chinensis", CommonName: "Chinese Rose"})

	plant := waitForPlant(t, repo, "Rosa chinensis")
	assert.Equal(t, "Chinese Rose", plant.CommonName)
	require.NotNil(t, plant.Description)
	assert.Equal(t, "An enriched description.", *plant.Description)
	assert.True(t, plant.IsVerified)
	assert.NotEmpty(t, plant.SeasonalImages["spring"])
}

func TestPoolSkipsAlreadyEnrichedSpecies(t *testing.T) {
	repo := newPlantRepo(t)
	desc := "already filled in"
	_, err := repo.UpsertByScientificName(&models.Plant{
		ScientificName: "Aloe vera",
		CommonName:     "True Aloe",
		Description:    &desc,
	})
	require.NoError(t, err)

	fetcher := &countingFetcher{}
	pool := NewEnrichmentPool(fetcher, repo, 10, 1)
	defer pool.Stop()

	pool.Enqueue(EnrichmentJob{ScientificName: "Aloe vera", CommonName: "True Aloe"})
	pool.Enqueue(EnrichmentJob{ScientificName: "Ficus benjamina", CommonName: "Weeping Fig"})

	waitForPlant(t, repo, "Ficus benjamina")
	assert.Equal(t, int32(1), fetcher.calls.Load(), "the already-enriched species must not be fetched")

	existing, err := repo.GetByScientificName("Aloe vera")
	require.NoError(t, err)
	assert.Equal(t, desc, *existing.Description)
}

func TestPoolCoalescesDuplicateJobs(t *testing.T) {
	repo := newPlantRepo(t)
	fetcher := &countingFetcher{block: make(chan struct{})}
	pool := NewEnrichmentPool(fetcher, repo, 10, 1)
	defer pool.Stop()

	pool.Enqueue(EnrichmentJob{ScientificName: "Rosa chinensis", CommonName: "Chinese Rose"})
	require.Eventually(t, func() bool { return fetcher.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	// the same species is pending: these are dropped
	pool.Enqueue(EnrichmentJob{ScientificName: "Rosa chinensis", CommonName: "Chinese Rose"})
	pool.Enqueue(EnrichmentJob{ScientificName: "Rosa chinensis", CommonName: "Chinese Rose"})
	close(fetcher.block)

	waitForPlant(t, repo, "Rosa chinensis")
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestPoolDiscardsFailedFetches(t *testing.T) {
	repo := newPlantRepo(t)
	fetcher := &countingFetcher{err: errors.New("backend down")}
	pool := NewEnrichmentPool(fetcher, repo, 10, 1)

	pool.Enqueue(EnrichmentJob{ScientificName: "Rosa chinensis", CommonName: "Chinese Rose"})
	require.Eventually(t, func() bool { return fetcher.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	pool.Stop()

	_, err := repo.GetByScientificName("Rosa chinensis")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEnqueueIgnoresEmptyName(t *testing.T) {
	repo := newPlantRepo(t)
	fetcher := &countingFetcher{}
	pool := NewEnrichmentPool(fetcher, repo, 1, 1)
	defer pool.Stop()

	pool.Enqueue(EnrichmentJob{})
	assert.Equal(t, int32(0), fetcher.calls.Load())
}
