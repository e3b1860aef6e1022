// Package assemble combines the page's raw scraped record with the seller
// feed into one normalized product snapshot.
package assemble

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flipsight/arbcore/internal/model"
	"github.com/flipsight/arbcore/internal/sellerfeed"
)

// ErrMissingSourceData signals the raw scrape is entirely absent, meaning
// the page is not a recognized product page. Consumers treat it as "not
// ready", never as a crash.
var ErrMissingSourceData = errors.New("missing source data")

// Assembler builds product snapshots. It awaits the seller feed, then
// constructs the snapshot synchronously; no other I/O happens here.
type Assembler struct {
	feed   sellerfeed.Provider
	logger *slog.Logger
	now    func() time.Time
}

// New creates an assembler over the given feed. logger may be nil.
func New(feed sellerfeed.Provider, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Assembler{
		feed:   feed,
		logger: logger,
		now:    time.Now,
	}
}

// Build assembles a snapshot from raw and the current seller feed. Missing
// optional fields default per type; only an absent raw record fails.
func (a *Assembler) Build(ctx context.Context, raw *model.RawProduct) (*model.ProductSnapshot, error) {
	if raw == nil || raw.ProductID == "" {
		return nil, ErrMissingSourceData
	}

	offers, err := a.feed.GetOffers(ctx, raw.ProductID, raw.Brand)
	if err != nil {
		// Providers are fail-soft, so this is unexpected; degrade anyway.
		a.logger.Warn("seller feed error during assembly",
			"product_id", raw.ProductID, "error", err)
		offers = nil
	}

	// The first offer in platform order is the page's displayed seller.
	var mainSeller *model.SellerOffer
	var otherSellers []model.SellerOffer
	if len(offers) > 0 {
		first := offers[0]
		mainSeller = &first
		otherSellers = offers[1:]
	}
	if otherSellers == nil {
		otherSellers = []model.SellerOffer{}
	}

	totalStock := 0
	totalSellers := len(otherSellers)
	if mainSeller != nil {
		totalStock += mainSeller.AvailableQuantity
		totalSellers++
	}
	for _, offer := range otherSellers {
		totalStock += offer.AvailableQuantity
	}

	snap := &model.ProductSnapshot{
		CycleID:   uuid.NewString(),
		FetchedAt: a.now(),
		Basic: model.BasicInfo{
			ProductID: raw.ProductID,
			UPC:       optionalString(raw.UPC),
			Brand:     optionalString(raw.Brand),
			Model:     optionalString(raw.Model),
		},
		Pricing: model.PricingInfo{
			CurrentPrice:   raw.Price,
			MainSellerName: mainSellerName(raw, mainSeller),
			MainSellerType: mainSellerType(mainSeller),
		},
		Dimensions: model.DimensionInfo{
			Length: raw.Length,
			Width:  raw.Width,
			Height: raw.Height,
			Weight: raw.Weight,
		},
		Media:      defaultSlice(raw.Images),
		Categories: defaultSlice(raw.Categories),
		Badges:     defaultSlice(raw.Badges),
		Inventory: model.InventoryInfo{
			TotalSellers: totalSellers,
			TotalStock:   totalStock,
		},
		Reviews: model.ReviewInfo{
			AverageRating: raw.AverageRating,
			ReviewCount:   raw.ReviewCount,
			Dates:         defaultSlice(raw.ReviewDates),
		},
		Variants: normalizeVariants(raw.Variants),
		Sellers: model.SellerInfo{
			MainSeller:   mainSeller,
			OtherSellers: otherSellers,
			TotalSellers: totalSellers,
		},
		Flags: model.FlagInfo{
			Apparel:   boolOrFalse(raw.IsApparel),
			Hazardous: boolOrFalse(raw.IsHazardous),
		},
	}

	a.logger.Debug("snapshot assembled",
		"cycle_id", snap.CycleID,
		"product_id", raw.ProductID,
		"sellers", totalSellers,
		"stock", totalStock)

	return snap, nil
}

func mainSellerName(raw *model.RawProduct, main *model.SellerOffer) string {
	if main != nil {
		return main.Name
	}
	return raw.MainSellerName
}

func mainSellerType(main *model.SellerOffer) model.SellerType {
	if main != nil {
		return main.Type
	}
	return ""
}

func normalizeVariants(raw map[string]model.RawVariant) map[string]model.Variant {
	variants := make(map[string]model.Variant, len(raw))
	for id, v := range raw {
		attrs := v.Attributes
		if attrs == nil {
			attrs = map[string]string{}
		}
		variants[id] = model.Variant{
			ID:         id,
			Attributes: attrs,
			Price:      v.Price,
			Available:  v.Availability == "IN_STOCK",
		}
	}
	return variants
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func defaultSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func boolOrFalse(b *bool) bool {
	return b != nil && *b
}
