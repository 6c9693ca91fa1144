package enrichment

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChatURL = "https://llm.test/v1"

func newMockedClient(t *testing.T) *Client {
	t.Helper()
	client := NewClient("test-key", testChatURL, "test-model")
	httpmock.ActivateNonDefault(client.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

func chatReply(content string) httpmock.Responder {
	body := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
	encoded, _ := json.Marshal(body)
	return httpmock.NewStringResponder(200, string(encoded))
}

func TestFetchDetailsParsesFencedJSON(t *testing.T) {
	client := newMockedClient(t)

	payload := `{
		"scientific_name": "Aloe vera",
		"common_name": "True Aloe",
		"description": "A succulent plant species.",
		"characteristics": ["fleshy leaves", "serrated margins", "rosette form"],
		"care_guide": {
			"sunlight": {"requirement": "bright indirect"},
			"watering": {"requirement": "sparse"},
			"soil": {"requirement": "well-draining"},
			"temperature": {"requirement": "13-27C"}
		}
	}`
	httpmock.RegisterResponder("POST", testChatURL+"/chat/completions",
		chatReply("```json\n"+payload+"\n```"))

	details, err := client.FetchDetails(context.Background(), "Aloe vera", "True Aloe")
	require.NoError(t, err)
	assert.Equal(t, "Aloe vera", details.ScientificName)
	assert.Len(t, details.Characteristics, 3)
	require.NotNil(t, details.CareGuide.Watering)
	assert.Equal(t, "sparse", details.CareGuide.Watering.Requirement)
}

func TestFetchDetailsRejectsIncompletePayload(t *testing.T) {
	client := newMockedClient(t)

	httpmock.RegisterResponder("POST", testChatURL+"/chat/completions",
		chatReply(`{"scientific_name": "Aloe vera"}`))

	_, err := client.FetchDetails(context.Background(), "Aloe vera", "True Aloe")
	assert.ErrorIs(t, err, ErrInvalidPlantData)
}

func TestFetchDetailsRejectsNonJSON(t *testing.T) {
	client := newMockedClient(t)

	httpmock.RegisterResponder("POST", testChatURL+"/chat/completions",
		chatReply("I cannot help with that."))

	_, err := client.FetchDetails(context.Background(), "Aloe vera", "True Aloe")
	assert.ErrorIs(t, err, ErrInvalidPlantData)
}

func TestFetchDetailsUpstreamFailure(t *testing.T) {
	client := newMockedClient(t)

	httpmock.RegisterResponder("POST", testChatURL+"/chat/completions",
		httpmock.NewStringResponder(500, "internal error"))

	_, err := client.FetchDetails(context.Background(), "Aloe vera", "True Aloe")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestFetchSeasonalImagesFallsBackToPlaceholders(t *testing.T) {
	client := newMockedClient(t)

	httpmock.RegisterResponder("POST", testChatURL+"/chat/completions",
		httpmock.NewStringResponder(500, "internal error"))

	images := client.FetchSeasonalImages(context.Background(), "Aloe vera", "True Aloe")
	require.Len(t, images, 4)
	for _, season := range []string{"spring", "summer", "autumn", "winter"} {
		require.Len(t, images[season], 1, season)
		assert.Equal(t, season, images[season][0].Description)
	}
}

func TestFetchSeasonalImagesParsesResponse(t *testing.T) {
	client := newMockedClient(t)

	httpmock.RegisterResponder("POST", testChatURL+"/chat/completions",
		chatReply(`{"spring": [{"url": "https://img.test/s.jpg", "description": "spring bloom"}]}`))

	images := client.FetchSeasonalImages(context.Background(), "Aloe vera", "True Aloe")
	require.Len(t, images["spring"], 1)
	assert.Equal(t, "https://img.test/s.jpg", images["spring"][0].URL)
}
