package sellerfeed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flipsight/arbcore/internal/model"
)

// MockProvider implements a configurable seller feed for tests.
type MockProvider struct {
	Offers  []model.SellerOffer
	Err     error
	DelayMS int

	mu    sync.Mutex
	calls int
}

// NewMockProvider creates a mock feed returning two deterministic offers.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Offers: []model.SellerOffer{
			{
				Name:              "Walmart.com",
				Price:             "24.99",
				Type:              model.SellerTypeWMT,
				DeliveryEstimate:  "Tomorrow",
				AvailableQuantity: 12,
			},
			{
				Name:              "Acme Resale Co",
				Price:             "27.49",
				Type:              model.SellerTypeSF,
				DeliveryEstimate:  "3 days",
				ProSeller:         true,
				AvailableQuantity: 4,
			},
		},
	}
}

// Available always returns true for the mock provider.
func (m *MockProvider) Available() bool {
	return true
}

// GetProviderName returns the provider name.
func (m *MockProvider) GetProviderName() string {
	return "MockSellerFeed"
}

// GetOffers returns the configured offers, after the configured delay.
func (m *MockProvider) GetOffers(ctx context.Context, productID, brand string) ([]model.SellerOffer, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.DelayMS > 0 {
		select {
		case <-time.After(time.Duration(m.DelayMS) * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.Err != nil {
		return nil, fmt.Errorf("mock feed: %w", m.Err)
	}

	return m.Offers, nil
}

// Calls returns how many times GetOffers has been invoked.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
