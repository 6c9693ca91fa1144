package services

import (
	"errors"
	"fmt"

	"github.com/fengwang001/plant-version-app/models"
	"github.com/fengwang001/plant-version-app/repository"
	"gorm.io/gorm"
)

// CommunityService backs the community post surfaces. The feature set is
// intentionally small: create and read, no editing yet.
type CommunityService struct {
	postRepo repository.PostRepository
}

func NewCommunityService(postRepo repository.PostRepository) *CommunityService {
	return &CommunityService{postRepo: postRepo}
}

// PostInput is the create-post payload.
type PostInput struct {
	Title     *string  `json:"title"`
	Content   *string  `json:"content"`
	ImageURLs []string `json:"image_urls"`
	PlantID   *string  `json:"plant_id"`
	IsPublic  *bool    `json:"is_public"`
}

func (s *CommunityService) CreatePost(authorID string, input PostInput) (*models.Post, error) {
	hasTitle := input.Title != nil && *input.Title != ""
	hasContent := input.Content != nil && *input.Content != ""
	if !hasTitle && !hasContent && len(input.ImageURLs) == 0 {
		return nil, fmt.Errorf("%w: a post needs a title, content, or images", ErrValidation)
	}

	post := &models.Post{
		AuthorID:  authorID,
		Title:     input.Title,
		Content:   input.Content,
		ImageURLs: input.ImageURLs,
		PlantID:   input.PlantID,
		IsPublic:  true,
	}
	if input.IsPublic != nil {
		post.IsPublic = *input.IsPublic
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

func (s *CommunityService) GetPost(id string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: post not found", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *CommunityService) ListPublic(skip, limit int) ([]models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}
	return s.postRepo.ListPublic(skip, limit)
}
