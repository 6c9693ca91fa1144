package repository

import (
	"github.com/fengwang001/plant-version-app/models"
	"gorm.io/gorm"
)

type GormPostRepository struct {
	db *gorm.DB
}

func NewGormPostRepository(db *gorm.DB) PostRepository {
	return &GormPostRepository{db: db}
}

func (r *GormPostRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *GormPostRepository) GetByID(id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *GormPostRepository) ListPublic(skip, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Where("is_public = ?", true).
		Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&posts).Error
	return posts, err
}
