package sellerfeed

import (
	"context"
	"time"

	"github.com/flipsight/arbcore/internal/model"
)

// Provider defines the interface for seller offer feeds.
type Provider interface {
	// Available returns true if the provider is configured and accessible
	Available() bool

	// GetOffers returns the normalized, deduplicated, in-stock offers for a
	// product. It is fail-soft: rate limiting and network errors yield an
	// empty list, never an error the caller has to handle.
	GetOffers(ctx context.Context, productID, brand string) ([]model.SellerOffer, error)

	// GetProviderName returns the name of the provider
	GetProviderName() string
}

// Config holds configuration for the seller feed client.
type Config struct {
	// Endpoint is the offers query endpoint (GraphQL-style POST).
	Endpoint string

	// SellersPageURL is a printf template taking the product id, used for
	// the HTML fallback when the endpoint fails.
	SellersPageURL string

	// StorefrontName is the platform's own first-party seller name. An
	// exact match classifies an offer as WMT.
	StorefrontName string

	RequestTimeout time.Duration
	CacheTTL       time.Duration

	// PaceRPS throttles outbound calls beneath the admission window.
	PaceRPS float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Endpoint:       "https://marketplace.flipsight.dev/graphql",
		SellersPageURL: "https://marketplace.flipsight.dev/sellers/%s",
		StorefrontName: "Walmart.com",
		RequestTimeout: 15 * time.Second,
		// Prices and stock change quickly, so keep the memoization short.
		CacheTTL: 30 * time.Second,
		PaceRPS:  2,
	}
}

// feedResponse is the raw wire envelope from the offers endpoint.
type feedResponse struct {
	Data struct {
		Product struct {
			AllOffers []rawOffer `json:"allOffers"`
		} `json:"product"`
	} `json:"data"`
}

// rawOffer is one unnormalized offer row as returned by the endpoint.
type rawOffer struct {
	SellerDisplayName  string `json:"sellerDisplayName"`
	PriceString        string `json:"priceString"`
	FulfillmentType    string `json:"fulfillmentType"` // "FC" means platform logistics
	ProSellerBadge     bool   `json:"proSellerBadge"`
	DeliveryEstimate   string `json:"deliveryEstimate"`
	AvailabilityStatus string `json:"availabilityStatus"`
	AvailableQuantity  int    `json:"availableQuantity"`
}

// availabilityInStock is the only status treated as purchasable. Everything
// else is silently dropped.
const availabilityInStock = "IN_STOCK"

// fulfillmentCenter marks an offer shipped from the platform's own network.
const fulfillmentCenter = "FC"
