package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"

	"github.com/fengwang001/plant-version-app/models"
	"github.com/fengwang001/plant-version-app/recognition"
	"github.com/fengwang001/plant-version-app/repository"
	"github.com/fengwang001/plant-version-app/utils"
	"github.com/fengwang001/plant-version-app/workers"
	"gorm.io/gorm"
)

const maxIdentificationImageSize = 10 * 1024 * 1024

// IdentificationRequest is one identify-from-photo call. Latitude and
// Longitude are optional client hints; EXIF GPS from the photo wins when the
// client sends none.
type IdentificationRequest struct {
	UserID       string
	Filename     string
	ContentType  string
	Image        []byte
	Latitude     *float64
	Longitude    *float64
	LocationName *string
}

// IdentificationResult pairs the stored record with the encyclopedia entry
// for its top suggestion, when one exists.
type IdentificationResult struct {
	Identification *models.PlantIdentification `json:"identification"`
	Plant          *models.Plant               `json:"plant,omitempty"`
}

// IdentificationService runs the identification pipeline: store the photo,
// recognize the species, persist the record, and queue encyclopedia
// enrichment for the winning species.
type IdentificationService struct {
	identRepo    repository.IdentificationRepository
	userRepo     repository.UserRepository
	plantService *PlantService
	mediaService *MediaService
	provider     recognition.Provider
	fallback     recognition.Provider
	pool         *workers.EnrichmentPool
}

func NewIdentificationService(
	identRepo repository.IdentificationRepository,
	userRepo repository.UserRepository,
	plantService *PlantService,
	mediaService *MediaService,
	provider recognition.Provider,
	fallback recognition.Provider,
	pool *workers.EnrichmentPool,
) *IdentificationService {
	return &IdentificationService{
		identRepo:    identRepo,
		userRepo:     userRepo,
		plantService: plantService,
		mediaService: mediaService,
		provider:     provider,
		fallback:     fallback,
		pool:         pool,
	}
}

// Identify runs the full pipeline. The photo is stored before recognition
// runs, so a failed recognition can leave an orphaned object behind; records
// are only written for successful recognitions.
func (s *IdentificationService) Identify(ctx context.Context, req IdentificationRequest) (*IdentificationResult, error) {
	if len(req.Image) == 0 {
		return nil, fmt.Errorf("%w: image is required", ErrValidation)
	}
	if !utils.IsImageContentType(req.ContentType) {
		return nil, fmt.Errorf("%w: identification requires an image, got %q", ErrValidation, req.ContentType)
	}
	if int64(len(req.Image)) > maxIdentificationImageSize {
		return nil, fmt.Errorf("%w: image exceeds the %d byte limit", ErrValidation, maxIdentificationImageSize)
	}

	media, err := s.mediaService.UploadDirect(ctx, req.UserID, req.Filename, req.ContentType, models.MediaPurposePlantImage, req.Image)
	if err != nil {
		return nil, err
	}

	lat, long := req.Latitude, req.Longitude
	if lat == nil && long == nil {
		meta := utils.ExtractImageMetadata(req.Image)
		lat, long = meta.Latitude, meta.Longitude
	}

	result, err := s.recognize(ctx, req.Image, req.ContentType)
	if err != nil {
		return nil, err
	}
	if len(result.Suggestions) == 0 {
		// the stored photo stays behind; no identification row is written
		return nil, fmt.Errorf("%w: no species candidates for this image", ErrNoMatch)
	}
	for _, sug := range result.Suggestions {
		if sug.Confidence < 0 || sug.Confidence > 1 {
			return nil, fmt.Errorf("%w: confidence %f out of range for %s", ErrValidation, sug.Confidence, sug.ScientificName)
		}
	}

	top := result.Suggestions[0]

	suggestions := make([]models.IdentificationSuggestion, 0, len(result.Suggestions))
	for _, sug := range result.Suggestions {
		suggestions = append(suggestions, models.IdentificationSuggestion{
			ScientificName: sug.ScientificName,
			CommonName:     sug.CommonName,
			Confidence:     sug.Confidence,
			PlantDetails:   sug.Details,
		})
	}

	ident := &models.PlantIdentification{
		UserID:               req.UserID,
		ScientificName:       top.ScientificName,
		CommonName:           top.CommonName,
		Confidence:           top.Confidence,
		ImageURL:             media.FileURL,
		Suggestions:          suggestions,
		Latitude:             lat,
		Longitude:            long,
		LocationName:         req.LocationName,
		IdentificationSource: result.Source,
		ProcessingStatus:     models.IdentificationStatusCompleted,
	}
	if result.RequestID != "" {
		ident.RequestID = &result.RequestID
	}

	// weak reference: the encyclopedia entry may not exist yet
	plant, err := s.plantService.LookupByScientificName(top.ScientificName)
	if err != nil {
		log.Printf("identification: plant lookup failed for %s: %v", top.ScientificName, err)
	}
	if plant != nil {
		ident.PlantID = &plant.ID
	}

	if err := s.identRepo.Create(ident); err != nil {
		return nil, fmt.Errorf("failed to save identification: %w", err)
	}

	if plant != nil {
		s.plantService.RecordIdentified(plant.ID, top.ScientificName)
	}
	if err := s.userRepo.IncrementIdentificationCount(req.UserID); err != nil {
		log.Printf("identification: failed to increment user counter for %s: %v", req.UserID, err)
	}

	s.pool.Enqueue(workers.EnrichmentJob{
		ScientificName: top.ScientificName,
		CommonName:     top.CommonName,
	})

	return &IdentificationResult{Identification: ident, Plant: plant}, nil
}

// recognize calls the configured provider and falls back to the mock provider
// on upstream failure, so a flaky or unconfigured backend degrades to demo
// data instead of a 5xx.
func (s *IdentificationService) recognize(ctx context.Context, image []byte, contentType string) (*recognition.Result, error) {
	dataURI := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(image))

	result, err := s.provider.Identify(ctx, dataURI)
	if err == nil {
		return result, nil
	}
	if errors.Is(err, recognition.ErrUpstreamUnavailable) && s.fallback != nil {
		log.Printf("identification: recognition backend unavailable, using mock data: %v", err)
		return s.fallback.Identify(ctx, dataURI)
	}
	return nil, err
}

// ListForUser returns the caller's identification history, newest first.
func (s *IdentificationService) ListForUser(userID string, skip, limit int) ([]models.PlantIdentification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}
	return s.identRepo.ListByUser(userID, skip, limit)
}

// GetForUser returns one identification owned by the caller.
func (s *IdentificationService) GetForUser(userID, id string) (*models.PlantIdentification, error) {
	return s.getOwned(userID, id)
}

// DeleteForUser hard-deletes an identification owned by the caller.
func (s *IdentificationService) DeleteForUser(userID, id string) error {
	ident, err := s.getOwned(userID, id)
	if err != nil {
		return err
	}
	return s.identRepo.Delete(ident.ID)
}

// SetFeedback records the caller's verdict on an identification.
func (s *IdentificationService) SetFeedback(userID, id, feedback string, notes *string) (*models.PlantIdentification, error) {
	switch feedback {
	case models.FeedbackCorrect, models.FeedbackIncorrect, models.FeedbackUnsure:
	default:
		return nil, fmt.Errorf("%w: feedback must be correct, incorrect, or unsure", ErrValidation)
	}

	ident, err := s.getOwned(userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.identRepo.SetFeedback(ident.ID, feedback, notes); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}
	ident.UserFeedback = &feedback
	ident.UserNotes = notes
	return ident, nil
}

func (s *IdentificationService) getOwned(userID, id string) (*models.PlantIdentification, error) {
	ident, err := s.identRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: identification not found", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if ident.UserID != userID {
		return nil, fmt.Errorf("%w: identification belongs to another user", ErrForbidden)
	}
	return ident, nil
}
