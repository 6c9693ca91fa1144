package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const plantIDTimeout = 30 * time.Second

// PlantIDProvider calls a Plant.id style recognition API.
type PlantIDProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewPlantIDProvider(apiKey, baseURL string) *PlantIDProvider {
	return &PlantIDProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: plantIDTimeout,
		},
	}
}

type plantIDRequest struct {
	Images         []string `json:"images"`
	SimilarImages  bool     `json:"similar_images"`
	Classification string   `json:"classification_level,omitempty"`
}

type plantIDResponse struct {
	AccessToken string `json:"access_token"`
	Result      struct {
		Classification struct {
			Suggestions []plantIDSuggestion `json:"suggestions"`
		} `json:"classification"`
	} `json:"result"`
}

type plantIDSuggestion struct {
	Name        string                 `json:"name"`
	Probability float64                `json:"probability"`
	Details     map[string]interface{} `json:"details"`
}

func (p *PlantIDProvider) Identify(ctx context.Context, imageDataURI string) (*Result, error) {
	payload := plantIDRequest{
		Images:        []string{imageDataURI},
		SimilarImages: true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recognition request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/identification", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build recognition request: %w", err)
	}
	req.Header.Set("Api-Key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("recognition: plant.id returned status %d: %s", resp.StatusCode, snippet)
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var parsed plantIDResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrUpstreamUnavailable, err)
	}

	return parsePlantIDResult(&parsed), nil
}

// parsePlantIDResult converts the wire format into a Result. The upstream
// service returns suggestions already ranked; no re-sorting happens here. An
// empty suggestion list propagates as-is and means "no match".
func parsePlantIDResult(resp *plantIDResponse) *Result {
	result := &Result{
		RequestID: resp.AccessToken,
		Source:    "plant.id",
	}
	for _, s := range resp.Result.Classification.Suggestions {
		if s.Name == "" {
			continue
		}
		commonName := s.Name
		if names, ok := s.Details["common_names"].([]interface{}); ok && len(names) > 0 {
			if first, ok := names[0].(string); ok && first != "" {
				commonName = first
			}
		}
		result.Suggestions = append(result.Suggestions, Suggestion{
			ScientificName: s.Name,
			CommonName:     commonName,
			Confidence:     s.Probability,
			Details:        s.Details,
		})
	}
	return result
}
