package recognition

import (
	"context"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPlantIDURL = "https://plant.test/api/v3"

func newMockedPlantIDProvider(t *testing.T) *PlantIDProvider {
	t.Helper()
	provider := NewPlantIDProvider("test-key", testPlantIDURL)
	httpmock.ActivateNonDefault(provider.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return provider
}

func TestPlantIDIdentifyParsesSuggestions(t *testing.T) {
	provider := newMockedPlantIDProvider(t)

	httpmock.RegisterResponder("POST", testPlantIDURL+"/identification",
		httpmock.NewStringResponder(200, `{
			"access_token": "req-abc",
			"result": {
				"classification": {
					"suggestions": [
						{"name": "Rosa chinensis", "probability": 0.91, "details": {"common_names": ["Chinese Rose", "China Rose"]}},
						{"name": "Rosa rugosa", "probability": 0.42, "details": {}}
					]
				}
			}
		}`))

	result, err := provider.Identify(context.Background(), "data:image/jpeg;base64,AAAA")
	require.NoError(t, err)

	assert.Equal(t, "plant.id", result.Source)
	assert.Equal(t, "req-abc", result.RequestID)
	require.Len(t, result.Suggestions, 2)

	assert.Equal(t, "Rosa chinensis", result.Suggestions[0].ScientificName)
	assert.Equal(t, "Chinese Rose", result.Suggestions[0].CommonName)
	assert.InDelta(t, 0.91, result.Suggestions[0].Confidence, 1e-9)

	// no common_names detail falls back to the scientific name
	assert.Equal(t, "Rosa rugosa", result.Suggestions[1].CommonName)
}

func TestPlantIDIdentifyEmptySuggestionsIsNotAnError(t *testing.T) {
	provider := newMockedPlantIDProvider(t)

	httpmock.RegisterResponder("POST", testPlantIDURL+"/identification",
		httpmock.NewStringResponder(200, `{"access_token": "req-empty", "result": {"classification": {"suggestions": []}}}`))

	result, err := provider.Identify(context.Background(), "data:image/jpeg;base64,AAAA")
	require.NoError(t, err)
	assert.Empty(t, result.Suggestions)
}

func TestPlantIDIdentifyUpstreamErrors(t *testing.T) {
	provider := newMockedPlantIDProvider(t)

	httpmock.RegisterResponder("POST", testPlantIDURL+"/identification",
		httpmock.NewStringResponder(429, `{"error": "rate limited"}`))

	_, err := provider.Identify(context.Background(), "data:image/jpeg;base64,AAAA")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestPlantIDIdentifyTransportFailure(t *testing.T) {
	provider := newMockedPlantIDProvider(t)
	// no responder registered: httpmock fails the round trip

	_, err := provider.Identify(context.Background(), "data:image/jpeg;base64,AAAA")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}
