package sellerfeed

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/flipsight/arbcore/internal/cache"
	"github.com/flipsight/arbcore/internal/model"
	"github.com/flipsight/arbcore/internal/ratelimit"
)

// offersQuery asks the endpoint for every offer row on the product.
const offersQuery = `query AllOffers($productId: String!) {
  product(id: $productId) {
    allOffers {
      sellerDisplayName
      priceString
      fulfillmentType
      proSellerBadge
      deliveryEstimate
      availabilityStatus
      availableQuantity
    }
  }
}`

// Client fetches and classifies third-party seller offers for a product.
// Results are memoized per product id with a short TTL; on a miss the
// network call runs under the admission limiter and a pacing limiter. Every
// failure mode degrades to an empty offer list so a missing feed weakens
// the snapshot instead of aborting it.
type Client struct {
	config  Config
	rest    *resty.Client
	cache   *cache.TTLCache
	limiter *ratelimit.Limiter
	pacer   *rate.Limiter
	logger  *slog.Logger
}

// NewClient creates a seller feed client. limiter may be shared with other
// scraping callers; logger may be nil.
func NewClient(config Config, limiter *ratelimit.Limiter, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	rest := resty.New().
		SetTimeout(config.RequestTimeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		config:  config,
		rest:    rest,
		cache:   cache.NewTTLCache(),
		limiter: limiter,
		pacer:   rate.NewLimiter(rate.Limit(config.PaceRPS), 1),
		logger:  logger,
	}
}

func (c *Client) Available() bool {
	return c.config.Endpoint != ""
}

func (c *Client) GetProviderName() string {
	return "seller-feed"
}

// GetOffers returns the in-stock offers for productID, platform order
// preserved. A cache hit returns without touching the rate limiter.
func (c *Client) GetOffers(ctx context.Context, productID, brand string) ([]model.SellerOffer, error) {
	key := "offers|" + productID
	if cached, found := c.cache.Get(key); found {
		if offers, ok := cached.([]model.SellerOffer); ok {
			return offers, nil
		}
	}

	offers, err := ratelimit.RunGuarded(c.limiter, func() ([]model.SellerOffer, error) {
		return c.fetch(ctx, productID, brand)
	})
	if err != nil {
		// Fail-soft: rate limiting and transient fetch errors both degrade
		// to an empty list. The next call within the cache window won't
		// remember the failure.
		c.logger.Warn("seller feed unavailable",
			"product_id", productID, "error", err)
		return []model.SellerOffer{}, nil
	}

	c.cache.Set(key, offers, c.config.CacheTTL)
	return offers, nil
}

// InvalidateProduct drops the cached offers for one product.
func (c *Client) InvalidateProduct(productID string) {
	c.cache.Delete("offers|" + productID)
}

// CleanCache reaps expired offer entries. Called by the refresh janitor.
func (c *Client) CleanCache() {
	c.cache.Clean()
}

// fetch performs the network call, falling back to one bounded HTML scrape
// of the sellers page when the endpoint fails.
func (c *Client) fetch(ctx context.Context, productID, brand string) ([]model.SellerOffer, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return nil, fmt.Errorf("pacing: %w", err)
	}

	raw, err := c.queryEndpoint(ctx, productID)
	if err != nil {
		c.logger.Debug("offers endpoint failed, trying sellers page",
			"product_id", productID, "error", err)
		raw, err = c.scrapeSellersPage(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("seller feed fetch: %w", err)
		}
	}

	return c.normalize(raw, brand), nil
}

func (c *Client) queryEndpoint(ctx context.Context, productID string) ([]rawOffer, error) {
	var result feedResponse

	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"query":     offersQuery,
			"variables": map[string]string{"productId": productID},
		}).
		SetResult(&result).
		Post(c.config.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("offers query: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("offers query: HTTP %d", resp.StatusCode())
	}

	return result.Data.Product.AllOffers, nil
}

// normalize filters to purchasable offers, drops duplicate seller rows,
// and classifies each one. The feed occasionally repeats a seller; the
// first occurrence in platform order wins.
func (c *Client) normalize(raw []rawOffer, brand string) []model.SellerOffer {
	offers := make([]model.SellerOffer, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		if r.AvailabilityStatus != availabilityInStock {
			continue
		}
		if seen[r.SellerDisplayName] {
			continue
		}
		seen[r.SellerDisplayName] = true

		offers = append(offers, model.SellerOffer{
			Name:              r.SellerDisplayName,
			Price:             r.PriceString,
			Type:              Classify(r.SellerDisplayName, r.FulfillmentType == fulfillmentCenter, brand, c.config.StorefrontName),
			DeliveryEstimate:  r.DeliveryEstimate,
			ProSeller:         r.ProSellerBadge,
			AvailableQuantity: r.AvailableQuantity,
		})
	}
	return offers
}
