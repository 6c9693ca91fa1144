package repository

import (
	"github.com/fengwang001/plant-version-app/models"
	"gorm.io/gorm"
)

type GormMediaFileRepository struct {
	db *gorm.DB
}

func NewGormMediaFileRepository(db *gorm.DB) MediaFileRepository {
	return &GormMediaFileRepository{db: db}
}

func (r *GormMediaFileRepository) Create(file *models.MediaFile) error {
	return r.db.Create(file).Error
}

func (r *GormMediaFileRepository) GetByID(id string) (*models.MediaFile, error) {
	var file models.MediaFile
	if err := r.db.First(&file, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *GormMediaFileRepository) ListByUser(userID string, purpose string, skip, limit int) ([]models.MediaFile, error) {
	var files []models.MediaFile
	query := r.db.Where("user_id = ?", userID)
	if purpose != "" {
		query = query.Where("file_purpose = ?", purpose)
	}
	err := query.Order("created_at DESC").Offset(skip).Limit(limit).Find(&files).Error
	return files, err
}

func (r *GormMediaFileRepository) Update(file *models.MediaFile) error {
	return r.db.Save(file).Error
}

func (r *GormMediaFileRepository) SoftDelete(id string) error {
	return r.db.Delete(&models.MediaFile{}, "id = ?", id).Error
}
