package repository

import (
	"github.com/fengwang001/plant-version-app/models"
)

// UserRepository defines the methods for user data operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAppleID(appleID string) (*models.User, error)
	GetByGoogleID(googleID string) (*models.User, error)
	GetByDeviceID(deviceID string) (*models.User, error)
	Update(user *models.User) error
	UpdateLastLogin(id string) error
	IncrementIdentificationCount(id string) error
	Deactivate(id string) error
	SoftDelete(id string) error
}

// MediaFileRepository defines the methods for media file data operations
type MediaFileRepository interface {
	Create(file *models.MediaFile) error
	GetByID(id string) (*models.MediaFile, error)
	ListByUser(userID string, purpose string, skip, limit int) ([]models.MediaFile, error)
	Update(file *models.MediaFile) error
	SoftDelete(id string) error
}

// PlantRepository defines the methods for encyclopedia entry data operations
type PlantRepository interface {
	Create(plant *models.Plant) error
	GetByID(id string) (*models.Plant, error)
	GetByScientificName(scientificName string) (*models.Plant, error)
	// UpsertByScientificName writes enrichment output. If a row with the
	// scientific name exists its descriptive fields are overwritten and the
	// row is marked verified; otherwise a fresh row with zeroed counters is
	// inserted. Popularity counters are never touched.
	UpsertByScientificName(plant *models.Plant) (*models.Plant, error)
	Search(query string, skip, limit int) ([]models.Plant, error)
	ListFeatured(limit int) ([]models.Plant, error)
	IncrementViewCount(id string) error
	IncrementIdentificationCount(id string) error
}

// IdentificationRepository defines the methods for identification records
type IdentificationRepository interface {
	Create(identification *models.PlantIdentification) error
	GetByID(id string) (*models.PlantIdentification, error)
	ListByUser(userID string, skip, limit int) ([]models.PlantIdentification, error)
	SetFeedback(id string, feedback string, notes *string) error
	// Delete removes the record permanently; identifications are the one
	// entity hard-deleted on user request.
	Delete(id string) error
}

// PostRepository defines the methods for community post data operations
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id string) (*models.Post, error)
	ListPublic(skip, limit int) ([]models.Post, error)
}

// SubscriptionRepository defines the methods for subscription and credit data
type SubscriptionRepository interface {
	GetActiveByUser(userID string) (*models.Subscription, error)
	CreditBalance(userID string) (int, error)
	AddCreditTransaction(tx *models.CreditTransaction) error
}
