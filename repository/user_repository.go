package repository

import (
	"time"

	"github.com/fengwang001/plant-version-app/models"
	"gorm.io/gorm"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *GormUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetByAppleID(appleID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("apple_id = ?", appleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetByGoogleID(googleID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetByDeviceID(deviceID string) (*models.User, error) {
	var user models.User
	err := r.db.Where("device_id = ? AND email IS NULL AND apple_id IS NULL AND google_id IS NULL", deviceID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *GormUserRepository) UpdateLastLogin(id string) error {
	now := time.Now().UTC()
	return r.db.Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"last_login_at": now, "last_active_at": now}).Error
}

func (r *GormUserRepository) IncrementIdentificationCount(id string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("identification_count", gorm.Expr("identification_count + 1")).Error
}

func (r *GormUserRepository) Deactivate(id string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("is_active", false).Error
}

func (r *GormUserRepository) SoftDelete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", id).
			UpdateColumn("is_active", false).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
}
