package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fengwang001/plant-version-app/models"
	"github.com/fengwang001/plant-version-app/repository"
	"github.com/fengwang001/plant-version-app/storage"
	"github.com/fengwang001/plant-version-app/utils"
	"gorm.io/gorm"
)

// uploadRule bounds what a file purpose accepts.
type uploadRule struct {
	maxSize      int64
	contentTypes map[string]bool // nil means any type within the category check
	anyImage     bool
}

var uploadRules = map[string]uploadRule{
	models.MediaPurposeAvatar: {
		maxSize: 5 * 1024 * 1024,
		contentTypes: map[string]bool{
			"image/jpeg": true,
			"image/png":  true,
			"image/webp": true,
		},
	},
	models.MediaPurposePlantImage: {
		maxSize:  10 * 1024 * 1024,
		anyImage: true,
	},
	models.MediaPurposePlantVideo: {
		maxSize: 100 * 1024 * 1024,
		contentTypes: map[string]bool{
			"video/mp4":       true,
			"video/quicktime": true,
		},
	},
	models.MediaPurposeDocument: {
		maxSize: 10 * 1024 * 1024,
		contentTypes: map[string]bool{
			"application/pdf": true,
			"text/plain":      true,
		},
	},
}

const (
	presignExpiry        = 15 * time.Minute
	defaultThumbnailSide = 320
)

// MediaService owns the media file lifecycle: presigned uploads, direct
// uploads, listing, and deletion. Storage writes go through the configured
// Store; every mutation checks ownership first.
type MediaService struct {
	mediaRepo     repository.MediaFileRepository
	store         storage.Store
	thumbnailSide int
}

func NewMediaService(mediaRepo repository.MediaFileRepository, store storage.Store, thumbnailSide int) *MediaService {
	if thumbnailSide <= 0 {
		thumbnailSide = defaultThumbnailSide
	}
	return &MediaService{mediaRepo: mediaRepo, store: store, thumbnailSide: thumbnailSide}
}

// ValidateUpload checks purpose, content type, and declared size against the
// per-purpose rules. Size zero is allowed for presign requests where the
// client does not know the final size yet.
func ValidateUpload(purpose, contentType string, size int64) error {
	rule, ok := uploadRules[purpose]
	if !ok {
		return fmt.Errorf("%w: unknown file purpose %q", ErrValidation, purpose)
	}
	if rule.anyImage {
		if !utils.IsImageContentType(contentType) {
			return fmt.Errorf("%w: %s requires an image content type, got %q", ErrValidation, purpose, contentType)
		}
	} else if !rule.contentTypes[contentType] {
		return fmt.Errorf("%w: content type %q is not allowed for %s", ErrValidation, contentType, purpose)
	}
	if size > rule.maxSize {
		return fmt.Errorf("%w: file size %d exceeds the %d byte limit for %s", ErrValidation, size, rule.maxSize, purpose)
	}
	return nil
}

// PresignResult pairs the pending record with the URL the client uploads to.
type PresignResult struct {
	File      *models.MediaFile `json:"file"`
	UploadURL string            `json:"upload_url"`
	ExpiresIn int               `json:"expires_in"` // seconds
}

// Presign creates a pending media record and a time-limited direct-upload URL.
// The record stays pending until ConfirmUpload.
func (s *MediaService) Presign(ctx context.Context, userID, filename, contentType, purpose string, size int64) (*PresignResult, error) {
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrValidation)
	}
	if err := ValidateUpload(purpose, contentType, size); err != nil {
		return nil, err
	}

	path := storage.ObjectKey(purpose, userID, filename)
	uploadURL, err := s.store.PresignPut(ctx, path, contentType, presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	file := &models.MediaFile{
		UserID:           userID,
		Filename:         path,
		OriginalFilename: filename,
		ContentType:      contentType,
		FileSize:         size,
		FilePurpose:      purpose,
		FileCategory:     models.FileCategoryFor(contentType),
		FilePath:         path,
		Status:           models.MediaStatusPending,
	}
	if err := s.mediaRepo.Create(file); err != nil {
		return nil, fmt.Errorf("failed to create media record: %w", err)
	}

	return &PresignResult{
		File:      file,
		UploadURL: uploadURL,
		ExpiresIn: int(presignExpiry.Seconds()),
	}, nil
}

// UploadMeta carries client-reported facts confirmed after a direct upload.
type UploadMeta struct {
	FileSize *int64 `json:"file_size"`
	Width    *int   `json:"width"`
	Height   *int   `json:"height"`
	Duration *int   `json:"duration"`
}

// ConfirmUpload marks a pending upload as completed and fills in its public
// URL. Only the owner may confirm; confirming a completed file is a no-op
// that returns the record.
func (s *MediaService) ConfirmUpload(userID, fileID string, meta UploadMeta) (*models.MediaFile, error) {
	file, err := s.getOwned(userID, fileID)
	if err != nil {
		return nil, err
	}
	if file.Status == models.MediaStatusCompleted {
		return file, nil
	}

	file.Status = models.MediaStatusCompleted
	file.UploadProgress = 100
	file.FileURL = s.store.URL(file.FilePath)
	if meta.FileSize != nil {
		if err := ValidateUpload(file.FilePurpose, file.ContentType, *meta.FileSize); err != nil {
			return nil, err
		}
		file.FileSize = *meta.FileSize
	}
	if meta.Width != nil {
		file.Width = meta.Width
	}
	if meta.Height != nil {
		file.Height = meta.Height
	}
	if meta.Duration != nil {
		file.Duration = meta.Duration
	}

	if err := s.mediaRepo.Update(file); err != nil {
		return nil, fmt.Errorf("failed to confirm upload: %w", err)
	}
	return file, nil
}

// UploadDirect stores raw bytes through the application server and returns a
// completed media record. Image uploads also get dimensions extracted and a
// thumbnail generated; both are best-effort.
func (s *MediaService) UploadDirect(ctx context.Context, userID, filename, contentType, purpose string, data []byte) (*models.MediaFile, error) {
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrValidation)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrValidation)
	}
	if err := ValidateUpload(purpose, contentType, int64(len(data))); err != nil {
		return nil, err
	}

	result, err := s.store.Upload(ctx, purpose, userID, filename, contentType, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	file := &models.MediaFile{
		UserID:           userID,
		Filename:         result.Path,
		OriginalFilename: filename,
		ContentType:      contentType,
		FileSize:         result.Size,
		FilePurpose:      purpose,
		FileCategory:     models.FileCategoryFor(contentType),
		FilePath:         result.Path,
		FileURL:          result.URL,
		Status:           models.MediaStatusCompleted,
		UploadProgress:   100,
	}

	if utils.IsImageContentType(contentType) {
		meta := utils.ExtractImageMetadata(data)
		file.Width = meta.Width
		file.Height = meta.Height

		if thumbURL := s.storeThumbnail(ctx, purpose, userID, filename, data); thumbURL != "" {
			file.ThumbnailURL = &thumbURL
		}
		file.IsProcessed = true
	}

	if err := s.mediaRepo.Create(file); err != nil {
		return nil, fmt.Errorf("failed to create media record: %w", err)
	}
	return file, nil
}

func (s *MediaService) storeThumbnail(ctx context.Context, purpose, userID, filename string, data []byte) string {
	thumb, err := utils.GenerateThumbnail(data, s.thumbnailSide)
	if err != nil {
		log.Printf("media: thumbnail generation failed for %s: %v", filename, err)
		return ""
	}
	result, err := s.store.Upload(ctx, purpose+"/thumbs", userID, "thumb.jpg", "image/jpeg", bytes.NewReader(thumb))
	if err != nil {
		log.Printf("media: thumbnail upload failed for %s: %v", filename, err)
		return ""
	}
	return result.URL
}

// List returns the caller's media files, optionally filtered by purpose.
func (s *MediaService) List(userID, purpose string, skip, limit int) ([]models.MediaFile, error) {
	if purpose != "" {
		if _, ok := uploadRules[purpose]; !ok {
			return nil, fmt.Errorf("%w: unknown file purpose %q", ErrValidation, purpose)
		}
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}
	return s.mediaRepo.ListByUser(userID, purpose, skip, limit)
}

// Get returns a single media file owned by the caller.
func (s *MediaService) Get(userID, fileID string) (*models.MediaFile, error) {
	return s.getOwned(userID, fileID)
}

// Delete soft-deletes the record and removes the backing object. A failed
// object delete is logged but does not resurrect the record.
func (s *MediaService) Delete(ctx context.Context, userID, fileID string) error {
	file, err := s.getOwned(userID, fileID)
	if err != nil {
		return err
	}
	if err := s.mediaRepo.SoftDelete(file.ID); err != nil {
		return fmt.Errorf("failed to delete media record: %w", err)
	}
	if err := s.store.Delete(ctx, file.FilePath); err != nil {
		log.Printf("media: failed to delete stored object %s: %v", file.FilePath, err)
	}
	return nil
}

func (s *MediaService) getOwned(userID, fileID string) (*models.MediaFile, error) {
	file, err := s.mediaRepo.GetByID(fileID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: media file not found", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if file.UserID != userID {
		return nil, fmt.Errorf("%w: media file belongs to another user", ErrForbidden)
	}
	return file, nil
}
