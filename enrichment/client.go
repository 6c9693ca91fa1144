package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/fengwang001/plant-version-app/models"
)

const (
	detailsTimeout  = 60 * time.Second
	seasonalTimeout = 30 * time.Second

	systemPrompt = "You are a botanist. Provide accurate plant information and return structured data strictly as JSON."
)

// Client calls a chat-completion style LLM endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewClient(apiKey, baseURL, model string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: detailsTimeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// FetchDetails asks the LLM for the fixed plant-details JSON schema and
// validates the parsed result. No partial data survives a validation failure.
func (c *Client) FetchDetails(ctx context.Context, scientificName, commonName string) (*PlantDetails, error) {
	content, err := c.chat(ctx, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildDetailsPrompt(scientificName, commonName)},
	}, 0.7, 2000)
	if err != nil {
		return nil, err
	}

	var details PlantDetails
	if err := json.Unmarshal([]byte(extractJSON(content)), &details); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", ErrInvalidPlantData, err)
	}
	if err := details.Validate(); err != nil {
		return nil, err
	}
	return &details, nil
}

// FetchSeasonalImages asks for representative imagery per season. Failures
// degrade to placeholder entries; this call never blocks enrichment.
func (c *Client) FetchSeasonalImages(ctx context.Context, scientificName, commonName string) map[string][]models.SeasonalImage {
	prompt := fmt.Sprintf(
		"Return representative images of %s (%s) for the four seasons as JSON: "+
			`{"spring": [{"url": "", "description": ""}], "summer": [...], "autumn": [...], "winter": [...]}`,
		scientificName, commonName,
	)

	ctx, cancel := context.WithTimeout(ctx, seasonalTimeout)
	defer cancel()

	content, err := c.chat(ctx, []chatMessage{{Role: "user", Content: prompt}}, 0, 1000)
	if err == nil {
		var images map[string][]models.SeasonalImage
		if jsonErr := json.Unmarshal([]byte(extractJSON(content)), &images); jsonErr == nil && len(images) > 0 {
			return images
		}
	}
	if err != nil {
		log.Printf("enrichment: seasonal image fetch failed for %s: %v", scientificName, err)
	}

	return map[string][]models.SeasonalImage{
		"spring": {{Description: "spring"}},
		"summer": {{Description: "summer"}},
		"autumn": {{Description: "autumn"}},
		"winter": {{Description: "winter"}},
	}
}

func (c *Client) chat(ctx context.Context, messages []chatMessage, temperature float64, maxTokens int) (string, error) {
	payload := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("enrichment: chat endpoint returned status %d: %s", resp.StatusCode, snippet)
		return "", fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrUpstreamUnavailable, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: response contained no choices", ErrUpstreamUnavailable)
	}
	return parsed.Choices[0].Message.Content, nil
}

func buildDetailsPrompt(scientificName, commonName string) string {
	return fmt.Sprintf(`Provide detailed information about the following plant:
Scientific name: %s
Common name: %s

Return data in exactly this JSON format:

{
    "scientific_name": "...",
    "common_name": "...",
    "family": "...",
    "genus": "...",
    "species": "...",
    "description": "plant description, 100-200 words",
    "characteristics": ["trait 1", "trait 2", "trait 3", "trait 4", "trait 5"],
    "care_guide": {
        "sunlight": {"requirement": "...", "description": "50-100 words"},
        "watering": {"requirement": "...", "description": "...", "seasonal_variation": "..."},
        "soil": {"requirement": "...", "description": "...", "ph_range": "..."},
        "temperature": {"requirement": "...", "description": "...", "cold_tolerance": "..."}
    },
    "plant_type": "...",
    "habitat": "...",
    "origin": "...",
    "propagation_method": "...",
    "common_pests": ["pest 1", "pest 2"],
    "height_range": "...",
    "blooming_period": "...",
    "toxicity": false,
    "toxicity_description": "..."
}

Important: every field must have a value, list at least 5 characteristics, and the data must be accurate.`,
		scientificName, commonName)
}

// extractJSON tolerates the model wrapping its JSON payload in a fenced code
// block, with or without a language tag.
func extractJSON(content string) string {
	if idx := strings.Index(content, "```json"); idx >= 0 {
		rest := content[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	if idx := strings.Index(content, "```"); idx >= 0 {
		rest := content[idx+len("```"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(content)
}
