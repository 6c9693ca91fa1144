package repository

import (
	"errors"

	"github.com/fengwang001/plant-version-app/models"
	"gorm.io/gorm"
)

type GormPlantRepository struct {
	db *gorm.DB
}

func NewGormPlantRepository(db *gorm.DB) PlantRepository {
	return &GormPlantRepository{db: db}
}

func (r *GormPlantRepository) Create(plant *models.Plant) error {
	return r.db.Create(plant).Error
}

func (r *GormPlantRepository) GetByID(id string) (*models.Plant, error) {
	var plant models.Plant
	if err := r.db.First(&plant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &plant, nil
}

func (r *GormPlantRepository) GetByScientificName(scientificName string) (*models.Plant, error) {
	var plant models.Plant
	if err := r.db.Where("scientific_name = ?", scientificName).First(&plant).Error; err != nil {
		return nil, err
	}
	return &plant, nil
}

func (r *GormPlantRepository) UpsertByScientificName(plant *models.Plant) (*models.Plant, error) {
	var result *models.Plant
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Plant
		err := tx.Where("scientific_name = ?", plant.ScientificName).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			plant.ViewCount = 0
			plant.IdentificationCount = 0
			plant.IsVerified = true
			if createErr := tx.Create(plant).Error; createErr != nil {
				return createErr
			}
			result = plant
			return nil
		}
		if err != nil {
			return err
		}

		// overwrite descriptive fields only; id, counters and featured flag
		// belong to the existing row
		existing.CommonName = plant.CommonName
		existing.Family = plant.Family
		existing.Genus = plant.Genus
		existing.Species = plant.Species
		existing.Description = plant.Description
		existing.Characteristics = plant.Characteristics
		existing.CareInfo = plant.CareInfo
		existing.PlantType = plant.PlantType
		existing.Habitat = plant.Habitat
		existing.Origin = plant.Origin
		existing.PropagationMethod = plant.PropagationMethod
		existing.CommonPests = plant.CommonPests
		existing.HeightRange = plant.HeightRange
		existing.BloomingPeriod = plant.BloomingPeriod
		existing.Toxicity = plant.Toxicity
		existing.ToxicityDescription = plant.ToxicityDescription
		existing.SeasonalImages = plant.SeasonalImages
		existing.IsVerified = true
		if plant.PrimaryImageURL != nil {
			existing.PrimaryImageURL = plant.PrimaryImageURL
		}
		if len(plant.ImageURLs) > 0 {
			existing.ImageURLs = plant.ImageURLs
		}

		if saveErr := tx.Save(&existing).Error; saveErr != nil {
			return saveErr
		}
		result = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *GormPlantRepository) Search(query string, skip, limit int) ([]models.Plant, error) {
	var plants []models.Plant
	pattern := "%" + query + "%"
	err := r.db.Where("scientific_name LIKE ? OR common_name LIKE ?", pattern, pattern).
		Order("identification_count DESC").
		Offset(skip).Limit(limit).
		Find(&plants).Error
	return plants, err
}

func (r *GormPlantRepository) ListFeatured(limit int) ([]models.Plant, error) {
	var plants []models.Plant
	err := r.db.Where("is_featured = ?", true).
		Order("view_count DESC").
		Limit(limit).
		Find(&plants).Error
	return plants, err
}

func (r *GormPlantRepository) IncrementViewCount(id string) error {
	return r.db.Model(&models.Plant{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *GormPlantRepository) IncrementIdentificationCount(id string) error {
	return r.db.Model(&models.Plant{}).Where("id = ?", id).
		UpdateColumn("identification_count", gorm.Expr("identification_count + 1")).Error
}
