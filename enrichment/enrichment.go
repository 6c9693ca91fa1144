// Package enrichment populates encyclopedia entries by asking a
// chat-completion LLM endpoint for a fixed JSON schema describing a species.
package enrichment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fengwang001/plant-version-app/models"
)

var (
	// ErrUpstreamUnavailable signals a transport failure or non-2xx response
	// from the LLM backend.
	ErrUpstreamUnavailable = errors.New("enrichment backend unavailable")
	// ErrInvalidPlantData signals a response that failed schema validation.
	// Nothing is persisted in that case.
	ErrInvalidPlantData = errors.New("invalid plant data")
)

// PlantDetails is the structured description returned by the LLM.
type PlantDetails struct {
	ScientificName string `json:"scientific_name"`
	CommonName     string `json:"common_name"`

	Family  string `json:"family"`
	Genus   string `json:"genus"`
	Species string `json:"species"`

	Description     string    `json:"description"`
	Characteristics []string  `json:"characteristics"`
	CareGuide       careGuide `json:"care_guide"`

	PlantType         string   `json:"plant_type"`
	Habitat           string   `json:"habitat"`
	Origin            string   `json:"origin"`
	PropagationMethod string   `json:"propagation_method"`
	CommonPests       []string `json:"common_pests"`
	HeightRange       string   `json:"height_range"`
	BloomingPeriod    string   `json:"blooming_period"`

	Toxicity            bool   `json:"toxicity"`
	ToxicityDescription string `json:"toxicity_description"`

	SeasonalImages map[string][]models.SeasonalImage `json:"seasonal_images,omitempty"`
}

// careGuide uses pointer sections so a missing section is distinguishable
// from an empty one during validation.
type careGuide struct {
	Sunlight    *models.CareSection `json:"sunlight"`
	Watering    *models.CareSection `json:"watering"`
	Soil        *models.CareSection `json:"soil"`
	Temperature *models.CareSection `json:"temperature"`
}

// ToModel converts validated details into the encyclopedia row shape.
func (d *PlantDetails) ToModel() *models.Plant {
	plant := &models.Plant{
		ScientificName:  d.ScientificName,
		CommonName:      d.CommonName,
		Characteristics: d.Characteristics,
		CommonPests:     d.CommonPests,
		Toxicity:        d.Toxicity,
		SeasonalImages:  d.SeasonalImages,
	}
	plant.Description = optional(d.Description)
	plant.Family = optional(d.Family)
	plant.Genus = optional(d.Genus)
	plant.Species = optional(d.Species)
	plant.PlantType = optional(d.PlantType)
	plant.Habitat = optional(d.Habitat)
	plant.Origin = optional(d.Origin)
	plant.PropagationMethod = optional(d.PropagationMethod)
	plant.HeightRange = optional(d.HeightRange)
	plant.BloomingPeriod = optional(d.BloomingPeriod)
	plant.ToxicityDescription = optional(d.ToxicityDescription)

	if d.CareGuide.Sunlight != nil && d.CareGuide.Watering != nil &&
		d.CareGuide.Soil != nil && d.CareGuide.Temperature != nil {
		plant.CareInfo = &models.CareGuide{
			Sunlight:    *d.CareGuide.Sunlight,
			Watering:    *d.CareGuide.Watering,
			Soil:        *d.CareGuide.Soil,
			Temperature: *d.CareGuide.Temperature,
		}
	}
	return plant
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Validate enforces the response schema before anything is persisted:
// scientific and common name, description, at least three characteristics and
// all four care-guide sections must be present.
func (d *PlantDetails) Validate() error {
	var missing []string
	if d.ScientificName == "" {
		missing = append(missing, "scientific_name")
	}
	if d.CommonName == "" {
		missing = append(missing, "common_name")
	}
	if d.Description == "" {
		missing = append(missing, "description")
	}
	if len(d.Characteristics) == 0 {
		missing = append(missing, "characteristics")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing fields: %s", ErrInvalidPlantData, strings.Join(missing, ", "))
	}

	if len(d.Characteristics) < 3 {
		return fmt.Errorf("%w: expected at least 3 characteristics, got %d", ErrInvalidPlantData, len(d.Characteristics))
	}

	var missingSections []string
	if d.CareGuide.Sunlight == nil {
		missingSections = append(missingSections, "sunlight")
	}
	if d.CareGuide.Watering == nil {
		missingSections = append(missingSections, "watering")
	}
	if d.CareGuide.Soil == nil {
		missingSections = append(missingSections, "soil")
	}
	if d.CareGuide.Temperature == nil {
		missingSections = append(missingSections, "temperature")
	}
	if len(missingSections) > 0 {
		return fmt.Errorf("%w: care_guide missing sections: %s", ErrInvalidPlantData, strings.Join(missingSections, ", "))
	}

	return nil
}
