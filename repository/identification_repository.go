package repository

import (
	"github.com/fengwang001/plant-version-app/models"
	"gorm.io/gorm"
)

type GormIdentificationRepository struct {
	db *gorm.DB
}

func NewGormIdentificationRepository(db *gorm.DB) IdentificationRepository {
	return &GormIdentificationRepository{db: db}
}

func (r *GormIdentificationRepository) Create(identification *models.PlantIdentification) error {
	return r.db.Create(identification).Error
}

func (r *GormIdentificationRepository) GetByID(id string) (*models.PlantIdentification, error) {
	var identification models.PlantIdentification
	if err := r.db.First(&identification, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &identification, nil
}

func (r *GormIdentificationRepository) ListByUser(userID string, skip, limit int) ([]models.PlantIdentification, error) {
	var identifications []models.PlantIdentification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&identifications).Error
	return identifications, err
}

func (r *GormIdentificationRepository) SetFeedback(id string, feedback string, notes *string) error {
	updates := map[string]interface{}{"user_feedback": feedback}
	if notes != nil {
		updates["user_notes"] = *notes
	}
	return r.db.Model(&models.PlantIdentification{}).Where("id = ?", id).
		Updates(updates).Error
}

func (r *GormIdentificationRepository) Delete(id string) error {
	return r.db.Unscoped().Delete(&models.PlantIdentification{}, "id = ?", id).Error
}
