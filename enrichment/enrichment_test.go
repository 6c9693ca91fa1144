package enrichment

import (
	"testing"

	"github.com/fengwang001/plant-version-app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDetails() *PlantDetails {
	return &PlantDetails{
		ScientificName:  "Rosa chinensis",
		CommonName:      "Chinese Rose",
		Description:     "A woody perennial flowering plant.",
		Characteristics: []string{"thorny stems", "pinnate leaves", "fragrant flowers"},
		CareGuide: careGuide{
			Sunlight:    &models.CareSection{Requirement: "full sun"},
			Watering:    &models.CareSection{Requirement: "moderate"},
			Soil:        &models.CareSection{Requirement: "loamy"},
			Temperature: &models.CareSection{Requirement: "15-25C"},
		},
	}
}

func TestValidateAcceptsCompleteDetails(t *testing.T) {
	assert.NoError(t, validDetails().Validate())
}

func TestValidateRejectsMissingFields(t *testing.T) {
	d := validDetails()
	d.ScientificName = ""
	d.Description = ""
	err := d.Validate()
	require.ErrorIs(t, err, ErrInvalidPlantData)
	assert.Contains(t, err.Error(), "scientific_name")
	assert.Contains(t, err.Error(), "description")
}

func TestValidateRejectsTooFewCharacteristics(t *testing.T) {
	d := validDetails()
	d.Characteristics = []string{"thorny stems", "pinnate leaves"}
	assert.ErrorIs(t, d.Validate(), ErrInvalidPlantData)
}

func TestValidateRejectsMissingCareSections(t *testing.T) {
	d := validDetails()
	d.CareGuide.Soil = nil
	d.CareGuide.Temperature = nil
	err := d.Validate()
	require.ErrorIs(t, err, ErrInvalidPlantData)
	assert.Contains(t, err.Error(), "soil")
	assert.Contains(t, err.Error(), "temperature")
}

func TestToModel(t *testing.T) {
	d := validDetails()
	d.Family = "Rosaceae"
	d.Toxicity = true
	d.ToxicityDescription = "mildly toxic to pets"

	plant := d.ToModel()
	assert.Equal(t, "Rosa chinensis", plant.ScientificName)
	assert.Equal(t, "Chinese Rose", plant.CommonName)
	require.NotNil(t, plant.Description)
	require.NotNil(t, plant.Family)
	assert.Equal(t, "Rosaceae", *plant.Family)
	assert.True(t, plant.Toxicity)
	require.NotNil(t, plant.CareInfo)
	assert.Equal(t, "full sun", plant.CareInfo.Sunlight.Requirement)

	// empty strings become nil, not pointers to ""
	assert.Nil(t, plant.Genus)
}

func TestExtractJSON(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"bare":           {`{"a": 1}`, `{"a": 1}`},
		"json fence":     {"Here you go:\n```json\n{\"a\": 1}\n```\nHope it helps", `{"a": 1}`},
		"plain fence":    {"```\n{\"a\": 1}\n```", `{"a": 1}`},
		"unclosed fence": {"```json\n{\"a\": 1}", `{"a": 1}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractJSON(tc.in))
		})
	}
}
