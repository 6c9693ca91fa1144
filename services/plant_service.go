package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fengwang001/plant-version-app/database"
	"github.com/fengwang001/plant-version-app/models"
	"github.com/fengwang001/plant-version-app/repository"
	cache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// PlantService reads the encyclopedia: detail pages, search, featured and
// popular listings. Name lookups during identification go through a short
// lived cache since the same species tends to arrive in bursts.
type PlantService struct {
	plantRepo repository.PlantRepository
	sqlDB     *sql.DB
	nameCache *cache.Cache
}

func NewPlantService(plantRepo repository.PlantRepository, sqlDB *sql.DB) *PlantService {
	return &PlantService{
		plantRepo: plantRepo,
		sqlDB:     sqlDB,
		nameCache: cache.New(2*time.Minute, 5*time.Minute),
	}
}

// GetDetail returns an encyclopedia entry and bumps its view counter.
func (s *PlantService) GetDetail(id string) (*models.Plant, error) {
	plant, err := s.plantRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: plant not found", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := s.plantRepo.IncrementViewCount(id); err != nil {
		log.Printf("plant: failed to increment view count for %s: %v", id, err)
	}
	return plant, nil
}

// Search matches the query against scientific and common names, most
// identified first.
func (s *PlantService) Search(query string, skip, limit int) ([]models.Plant, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrValidation)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}
	return s.plantRepo.Search(query, skip, limit)
}

// Featured returns the curated featured entries.
func (s *PlantService) Featured(limit int) ([]models.Plant, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.plantRepo.ListFeatured(limit)
}

// Popular returns entries ranked by identification count, view count breaking
// ties.
func (s *PlantService) Popular(limit int) ([]database.PlantRanking, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return database.GetPopularPlantRankings(s.sqlDB, limit)
}

// LookupByScientificName resolves a name to its encyclopedia entry, if one
// exists. A miss is returned as (nil, nil); misses are not cached so a fresh
// enrichment shows up immediately.
func (s *PlantService) LookupByScientificName(name string) (*models.Plant, error) {
	if cached, found := s.nameCache.Get(name); found {
		return cached.(*models.Plant), nil
	}

	plant, err := s.plantRepo.GetByScientificName(name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.nameCache.Set(name, plant, cache.DefaultExpiration)
	return plant, nil
}

// RecordIdentified invalidates the cached entry and bumps the identification
// counter after a successful identification against this species.
func (s *PlantService) RecordIdentified(plantID, scientificName string) {
	s.nameCache.Delete(scientificName)
	if err := s.plantRepo.IncrementIdentificationCount(plantID); err != nil {
		log.Printf("plant: failed to increment identification count for %s: %v", plantID, err)
	}
}
