package repository

import (
	"testing"

	"github.com/fengwang001/plant-version-app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUpsertByScientificNameCreatesVerifiedRow(t *testing.T) {
	repo := NewGormPlantRepository(newTestDB(t))

	saved, err := repo.UpsertByScientificName(&models.Plant{
		ScientificName: "Rosa chinensis",
		CommonName:     "Chinese Rose",
		Description:    strPtr("A flowering shrub."),
		// attempts to preset counters are discarded on insert
		ViewCount:           99,
		IdentificationCount: 99,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.True(t, saved.IsVerified)
	assert.Zero(t, saved.ViewCount)
	assert.Zero(t, saved.IdentificationCount)
}

func TestUpsertByScientificNamePreservesCountersAndIdentity(t *testing.T) {
	repo := NewGormPlantRepository(newTestDB(t))

	first, err := repo.UpsertByScientificName(&models.Plant{
		ScientificName:  "Rosa chinensis",
		CommonName:      "Chinese Rose",
		Description:     strPtr("First description."),
		PrimaryImageURL: strPtr("https://img.test/rose.jpg"),
	})
	require.NoError(t, err)

	require.NoError(t, repo.IncrementViewCount(first.ID))
	require.NoError(t, repo.IncrementIdentificationCount(first.ID))

	second, err := repo.UpsertByScientificName(&models.Plant{
		ScientificName: "Rosa chinensis",
		CommonName:     "China Rose",
		Description:    strPtr("Better description."),
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "upsert must keep the existing row identity")
	assert.Equal(t, "China Rose", second.CommonName)
	assert.Equal(t, "Better description.", *second.Description)
	assert.Equal(t, 1, second.ViewCount)
	assert.Equal(t, 1, second.IdentificationCount)

	// a nil image URL on re-enrichment keeps the existing one
	assert.NotNil(t, second.PrimaryImageURL)
	assert.Equal(t, "https://img.test/rose.jpg", *second.PrimaryImageURL)
}

func TestSearchMatchesBothNames(t *testing.T) {
	repo := NewGormPlantRepository(newTestDB(t))

	_, err := repo.UpsertByScientificName(&models.Plant{ScientificName: "Rosa chinensis", CommonName: "Chinese Rose"})
	require.NoError(t, err)
	_, err = repo.UpsertByScientificName(&models.Plant{ScientificName: "Aloe vera", CommonName: "True Aloe"})
	require.NoError(t, err)

	byScientific, err := repo.Search("Rosa", 0, 10)
	require.NoError(t, err)
	require.Len(t, byScientific, 1)
	assert.Equal(t, "Rosa chinensis", byScientific[0].ScientificName)

	byCommon, err := repo.Search("Aloe", 0, 10)
	require.NoError(t, err)
	require.Len(t, byCommon, 1)

	none, err := repo.Search("Quercus", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListFeatured(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPlantRepository(db)

	require.NoError(t, repo.Create(&models.Plant{ScientificName: "Rosa chinensis", CommonName: "Chinese Rose", IsFeatured: true}))
	require.NoError(t, repo.Create(&models.Plant{ScientificName: "Aloe vera", CommonName: "True Aloe"}))

	featured, err := repo.ListFeatured(10)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "Rosa chinensis", featured[0].ScientificName)
}
