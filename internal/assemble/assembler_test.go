package assemble

import (
	"context"
	"errors"
	"testing"

	"github.com/flipsight/arbcore/internal/model"
	"github.com/flipsight/arbcore/internal/sellerfeed"
)

func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool { return &b }

func TestBuild_StockAndSellerInvariants(t *testing.T) {
	feed := sellerfeed.NewMockProvider()
	feed.Offers = []model.SellerOffer{
		{Name: "Walmart.com", Type: model.SellerTypeWMT, AvailableQuantity: 12},
		{Name: "Acme", Type: model.SellerTypeSF, AvailableQuantity: 4},
		{Name: "Bargain Bin", Type: model.SellerTypeWFS, AvailableQuantity: 0},
	}

	a := New(feed, nil)
	snap, err := a.Build(context.Background(), &model.RawProduct{ProductID: "12345"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.Sellers.MainSeller == nil || snap.Sellers.MainSeller.Name != "Walmart.com" {
		t.Fatal("first feed offer should become main seller")
	}
	if len(snap.Sellers.OtherSellers) != 2 {
		t.Fatalf("expected 2 other sellers, got %d", len(snap.Sellers.OtherSellers))
	}
	if snap.Sellers.TotalSellers != 3 {
		t.Errorf("expected totalSellers 3, got %d", snap.Sellers.TotalSellers)
	}
	if snap.Inventory.TotalSellers != 3 {
		t.Errorf("inventory seller count should match, got %d", snap.Inventory.TotalSellers)
	}
	if snap.Inventory.TotalStock != 16 {
		t.Errorf("expected totalStock 16, got %d", snap.Inventory.TotalStock)
	}
}

func TestBuild_EmptyFeed(t *testing.T) {
	feed := sellerfeed.NewMockProvider()
	feed.Offers = []model.SellerOffer{}

	a := New(feed, nil)
	snap, err := a.Build(context.Background(), &model.RawProduct{
		ProductID:      "12345",
		MainSellerName: "Walmart.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.Sellers.MainSeller != nil {
		t.Error("no feed offers means no main seller")
	}
	if snap.Sellers.TotalSellers != 0 {
		t.Errorf("expected totalSellers 0, got %d", snap.Sellers.TotalSellers)
	}
	if snap.Inventory.TotalStock != 0 {
		t.Errorf("expected totalStock 0, got %d", snap.Inventory.TotalStock)
	}
	// The page's own seller name survives as a pricing hint.
	if snap.Pricing.MainSellerName != "Walmart.com" {
		t.Errorf("expected scraped seller name, got %q", snap.Pricing.MainSellerName)
	}
}

func TestBuild_MissingRawRecord(t *testing.T) {
	a := New(sellerfeed.NewMockProvider(), nil)

	if _, err := a.Build(context.Background(), nil); !errors.Is(err, ErrMissingSourceData) {
		t.Errorf("nil raw should yield ErrMissingSourceData, got %v", err)
	}
	if _, err := a.Build(context.Background(), &model.RawProduct{}); !errors.Is(err, ErrMissingSourceData) {
		t.Errorf("raw without product id should yield ErrMissingSourceData, got %v", err)
	}
}

func TestBuild_DefaultsEveryOptionalField(t *testing.T) {
	feed := sellerfeed.NewMockProvider()
	feed.Offers = []model.SellerOffer{}

	a := New(feed, nil)
	snap, err := a.Build(context.Background(), &model.RawProduct{ProductID: "12345"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.Basic.UPC != nil || snap.Basic.Brand != nil || snap.Basic.Model != nil {
		t.Error("absent identifiers should stay nil")
	}
	if snap.Pricing.CurrentPrice != nil {
		t.Error("absent price should stay nil")
	}
	if snap.Media == nil || snap.Categories == nil || snap.Badges == nil {
		t.Error("descriptive slices should default to empty, not nil")
	}
	if snap.Reviews.Dates == nil {
		t.Error("review dates should default to empty slice")
	}
	if snap.Variants == nil {
		t.Error("variants should default to empty map")
	}
	if snap.Sellers.OtherSellers == nil {
		t.Error("other sellers should default to empty slice")
	}
	if snap.Flags.Apparel || snap.Flags.Hazardous {
		t.Error("unknown flags should default to false")
	}
	if snap.CycleID == "" {
		t.Error("every build cycle should carry an id")
	}
}

func TestBuild_PassThroughFields(t *testing.T) {
	feed := sellerfeed.NewMockProvider()
	feed.Offers = []model.SellerOffer{}

	raw := &model.RawProduct{
		ProductID:     "12345",
		UPC:           "008800012345",
		Brand:         "Lego",
		Price:         floatPtr(25.00),
		Length:        "12.5",
		Width:         "8",
		Height:        "4.25",
		Weight:        "1.9",
		AverageRating: floatPtr(4.6),
		ReviewCount:   211,
		ReviewDates:   []string{"2025-04-02", "2025-05-19"},
		Variants: map[string]model.RawVariant{
			"v1": {Attributes: map[string]string{"color": "red"}, Price: floatPtr(26.00), Availability: "IN_STOCK"},
			"v2": {Availability: "OUT_OF_STOCK"},
		},
		IsApparel:   boolPtr(false),
		IsHazardous: boolPtr(true),
	}

	snap, err := New(feed, nil).Build(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.Basic.UPC == nil || *snap.Basic.UPC != "008800012345" {
		t.Error("UPC should pass through")
	}
	if snap.Pricing.CurrentPrice == nil || *snap.Pricing.CurrentPrice != 25.00 {
		t.Error("price should pass through")
	}
	if snap.Dimensions.Weight != "1.9" {
		t.Errorf("dimensions stay raw strings, got %q", snap.Dimensions.Weight)
	}
	if !snap.Flags.Hazardous {
		t.Error("hazardous flag should pass through")
	}

	v1, ok := snap.Variants["v1"]
	if !ok || !v1.Available || v1.Attributes["color"] != "red" {
		t.Errorf("variant v1 not normalized correctly: %+v", v1)
	}
	v2 := snap.Variants["v2"]
	if v2.Available {
		t.Error("out of stock variant should not be available")
	}
	if v2.Attributes == nil {
		t.Error("variant attributes should default to empty map")
	}
}

func TestBuild_FeedErrorDegrades(t *testing.T) {
	feed := sellerfeed.NewMockProvider()
	feed.Err = errors.New("boom")

	snap, err := New(feed, nil).Build(context.Background(), &model.RawProduct{ProductID: "12345"})
	if err != nil {
		t.Fatalf("feed error should degrade, not fail assembly: %v", err)
	}
	if snap.Sellers.TotalSellers != 0 {
		t.Error("degraded assembly should carry zero sellers")
	}
}
