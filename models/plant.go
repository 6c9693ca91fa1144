package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// user feedback values on an identification
const (
	FeedbackCorrect   = "correct"
	FeedbackIncorrect = "incorrect"
	FeedbackUnsure    = "unsure"
)

// identification processing statuses
const (
	IdentificationStatusCompleted = "completed"
	IdentificationStatusPending   = "pending"
	IdentificationStatusFailed    = "failed"
)

// CareSection is one entry of a plant's care guide.
type CareSection struct {
	Requirement       string `json:"requirement"`
	Description       string `json:"description"`
	SeasonalVariation string `json:"seasonal_variation,omitempty"`
	PHRange           string `json:"ph_range,omitempty"`
	ColdTolerance     string `json:"cold_tolerance,omitempty"`
}

// CareGuide holds the four mandatory care sections.
type CareGuide struct {
	Sunlight    CareSection `json:"sunlight"`
	Watering    CareSection `json:"watering"`
	Soil        CareSection `json:"soil"`
	Temperature CareSection `json:"temperature"`
}

// SeasonalImage is one representative image of a plant in a given season.
type SeasonalImage struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Plant is a canonical encyclopedia entry, deduplicated by scientific name.
// Rows are created manually or lazily by the enrichment worker and updated
// idempotently whenever enrichment re-runs for the same name.
type Plant struct {
	ID string `json:"id" gorm:"primaryKey;size:36"`

	ScientificName string `json:"scientific_name" gorm:"uniqueIndex;not null;size:255"`
	CommonName     string `json:"common_name" gorm:"index;not null;size:255"`

	Family  *string `json:"family,omitempty" gorm:"size:255"`
	Genus   *string `json:"genus,omitempty" gorm:"size:255"`
	Species *string `json:"species,omitempty" gorm:"size:255"`

	Description     *string    `json:"description,omitempty" gorm:"type:text"`
	Characteristics []string   `json:"characteristics,omitempty" gorm:"serializer:json"`
	CareInfo        *CareGuide `json:"care_info,omitempty" gorm:"serializer:json"`

	PlantType         *string  `json:"plant_type,omitempty" gorm:"size:100"`
	Habitat           *string  `json:"habitat,omitempty" gorm:"size:255"`
	Origin            *string  `json:"origin,omitempty" gorm:"size:255"`
	PropagationMethod *string  `json:"propagation_method,omitempty" gorm:"size:255"`
	CommonPests       []string `json:"common_pests,omitempty" gorm:"serializer:json"`
	HeightRange       *string  `json:"height_range,omitempty" gorm:"size:100"`
	BloomingPeriod    *string  `json:"blooming_period,omitempty" gorm:"size:100"`

	Toxicity            bool    `json:"toxicity" gorm:"not null;default:false"`
	ToxicityDescription *string `json:"toxicity_description,omitempty" gorm:"type:text"`

	PrimaryImageURL *string                    `json:"primary_image_url,omitempty" gorm:"size:500"`
	ImageURLs       []string                   `json:"image_urls,omitempty" gorm:"serializer:json"`
	SeasonalImages  map[string][]SeasonalImage `json:"seasonal_images,omitempty" gorm:"serializer:json"`

	IsVerified bool `json:"is_verified" gorm:"index;not null;default:false"`
	IsFeatured bool `json:"is_featured" gorm:"index;not null;default:false"`

	ViewCount           int `json:"view_count" gorm:"not null;default:0"`
	IdentificationCount int `json:"identification_count" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Plant) TableName() string {
	return "plants"
}

func (p *Plant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IdentificationSuggestion is one ranked species candidate stored with an
// identification record. The list is ordered by descending confidence and the
// first entry is duplicated into the record's top-level fields.
type IdentificationSuggestion struct {
	ScientificName string                 `json:"scientific_name"`
	CommonName     string                 `json:"common_name"`
	Confidence     float64                `json:"confidence"`
	PlantDetails   map[string]interface{} `json:"plant_details,omitempty"`
}

// PlantIdentification records one user recognition event. The plant reference
// is weak: the encyclopedia entry may not exist yet when the row is written.
type PlantIdentification struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	UserID string `json:"user_id" gorm:"index;not null;size:36"`

	PlantID *string `json:"plant_id,omitempty" gorm:"index;size:36"`
	Plant   *Plant  `json:"-" gorm:"foreignKey:PlantID"`

	ScientificName string  `json:"scientific_name" gorm:"not null;size:255"`
	CommonName     string  `json:"common_name" gorm:"not null;size:255"`
	Confidence     float64 `json:"confidence" gorm:"not null"`
	ImageURL       string  `json:"image_url" gorm:"not null;size:500"`

	Suggestions []IdentificationSuggestion `json:"suggestions" gorm:"serializer:json"`

	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	LocationName *string  `json:"location_name,omitempty" gorm:"size:255"`

	UserFeedback *string `json:"user_feedback,omitempty" gorm:"size:20"` // correct, incorrect, unsure
	UserNotes    *string `json:"user_notes,omitempty" gorm:"type:text"`

	IdentificationSource string  `json:"identification_source" gorm:"not null;size:50"`
	RequestID            *string `json:"request_id,omitempty" gorm:"size:255"`
	ProcessingStatus     string  `json:"processing_status" gorm:"not null;default:completed;size:50"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PlantIdentification) TableName() string {
	return "plant_identifications"
}

func (pi *PlantIdentification) BeforeCreate(tx *gorm.DB) error {
	if pi.ID == "" {
		pi.ID = uuid.NewString()
	}
	return nil
}
