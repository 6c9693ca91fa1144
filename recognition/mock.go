package recognition

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
)

// mockSpecies is the fixed candidate pool used when no real recognition
// backend is configured or the real backend fails.
var mockSpecies = []struct {
	scientificName string
	commonName     string
	baseConfidence float64
}{
	{"Rosa chinensis", "Chinese Rose", 0.85},
	{"Ficus benjamina", "Weeping Fig", 0.80},
	{"Aloe vera", "True Aloe", 0.75},
	{"Monstera deliciosa", "Swiss Cheese Plant", 0.70},
	{"Epipremnum aureum", "Golden Pothos", 0.65},
}

// MockProvider generates plausible ranked candidates without any network
// call. Confidences are randomized within a narrow band above each species'
// base value; the result is explicitly sorted by descending confidence.
// A single instance serves concurrent requests, so the generator is guarded.
type MockProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockProvider creates a mock backed by the given seed, so tests can pin
// the generated candidates.
func NewMockProvider(seed int64) *MockProvider {
	return &MockProvider{rng: rand.New(rand.NewSource(seed))}
}

func (m *MockProvider) Identify(ctx context.Context, imageDataURI string) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	primary := m.rng.Intn(len(mockSpecies))

	suggestions := make([]Suggestion, 0, 3)
	for i := 0; i < len(mockSpecies) && len(suggestions) < 3; i++ {
		idx := (primary + i) % len(mockSpecies)
		sp := mockSpecies[idx]
		confidence := sp.baseConfidence + m.rng.Float64()*0.1
		if confidence > 1.0 {
			confidence = 1.0
		}
		suggestions = append(suggestions, Suggestion{
			ScientificName: sp.scientificName,
			CommonName:     sp.commonName,
			Confidence:     confidence,
			Details: map[string]interface{}{
				"common_names": []interface{}{sp.commonName},
			},
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})

	return &Result{
		RequestID:   fmt.Sprintf("mock_%04d", m.rng.Intn(10000)),
		Source:      "mock",
		Suggestions: suggestions,
	}, nil
}
