package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a community post. The post surfaces are placeholder endpoints for
// now; the schema exists so identifications and media can be shared later.
type Post struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`
	AuthorID string `json:"author_id" gorm:"index;not null;size:36"`

	Title     *string  `json:"title,omitempty" gorm:"size:255"`
	Content   *string  `json:"content,omitempty" gorm:"type:text"`
	ImageURLs []string `json:"image_urls,omitempty" gorm:"serializer:json"`
	PlantID   *string  `json:"plant_id,omitempty" gorm:"index;size:36"`

	LikeCount    int `json:"like_count" gorm:"not null;default:0"`
	CommentCount int `json:"comment_count" gorm:"not null;default:0"`

	IsPublic bool `json:"is_public" gorm:"not null;default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type PostLike struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	PostID string `json:"post_id" gorm:"index:idx_post_like,unique;not null;size:36"`
	UserID string `json:"user_id" gorm:"index:idx_post_like,unique;not null;size:36"`

	CreatedAt time.Time `json:"created_at"`
}

func (PostLike) TableName() string {
	return "post_likes"
}

func (l *PostLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

type PostComment struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	PostID string `json:"post_id" gorm:"index;not null;size:36"`
	UserID string `json:"user_id" gorm:"index;not null;size:36"`

	Content  string  `json:"content" gorm:"not null;type:text"`
	ParentID *string `json:"parent_id,omitempty" gorm:"size:36"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (PostComment) TableName() string {
	return "post_comments"
}

func (c *PostComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
