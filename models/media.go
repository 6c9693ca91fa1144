package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// file purposes
const (
	MediaPurposeAvatar     = "avatar"
	MediaPurposePlantImage = "plant_image"
	MediaPurposePlantVideo = "plant_video"
	MediaPurposeDocument   = "document"
)

// upload statuses
const (
	MediaStatusPending   = "pending"
	MediaStatusCompleted = "completed"
	MediaStatusFailed    = "failed"
)

// MediaFile represents one uploaded asset. Records are created at presign or
// direct-upload time, mutated once on upload confirmation, and soft-deleted only.
type MediaFile struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	UserID string `json:"user_id" gorm:"index;not null;size:36"`

	Filename         string `json:"filename" gorm:"not null;size:255"`
	OriginalFilename string `json:"original_filename" gorm:"not null;size:255"`
	ContentType      string `json:"content_type" gorm:"not null;size:100"`
	FileSize         int64  `json:"file_size" gorm:"not null"`

	FilePurpose  string `json:"file_purpose" gorm:"not null;size:50"`
	FileCategory string `json:"file_category" gorm:"not null;default:image;size:20"` // image, video, document, other

	FilePath     string  `json:"file_path" gorm:"not null;size:500"` // storage backend object path
	FileURL      string  `json:"file_url" gorm:"not null;size:500"`  // public URL; empty until upload completes
	ThumbnailURL *string `json:"thumbnail_url,omitempty" gorm:"size:500"`

	Status         string `json:"status" gorm:"not null;default:pending;size:20"`
	UploadProgress int    `json:"upload_progress" gorm:"not null;default:0"`

	FileMetadata map[string]interface{} `json:"file_metadata,omitempty" gorm:"serializer:json"`

	Width    *int `json:"width,omitempty"`
	Height   *int `json:"height,omitempty"`
	Duration *int `json:"duration,omitempty"` // seconds, video only

	IsProcessed bool `json:"is_processed" gorm:"not null;default:false"`
	IsPublic    bool `json:"is_public" gorm:"not null;default:false"`

	ViewCount     int `json:"view_count" gorm:"not null;default:0"`
	DownloadCount int `json:"download_count" gorm:"not null;default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (MediaFile) TableName() string {
	return "media_files"
}

func (m *MediaFile) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m *MediaFile) IsImage() bool {
	return strings.HasPrefix(m.ContentType, "image/")
}

func (m *MediaFile) IsVideo() bool {
	return strings.HasPrefix(m.ContentType, "video/")
}

// FileCategoryFor maps a content type to a coarse file category.
func FileCategoryFor(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "image"
	case strings.HasPrefix(contentType, "video/"):
		return "video"
	case strings.HasPrefix(contentType, "audio/"):
		return "audio"
	case contentType == "application/pdf" || contentType == "text/plain":
		return "document"
	default:
		return "other"
	}
}
