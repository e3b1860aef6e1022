package arbcore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/flipsight/arbcore/internal/model"
	"github.com/flipsight/arbcore/internal/pricing"
)

const feedPayload = `{
	"data": {
		"product": {
			"allOffers": [
				{
					"sellerDisplayName": "Walmart.com",
					"priceString": "24.99",
					"fulfillmentType": "FC",
					"availabilityStatus": "IN_STOCK",
					"availableQuantity": 8
				},
				{
					"sellerDisplayName": "Acme Resale Co",
					"priceString": "27.49",
					"fulfillmentType": "",
					"proSellerBadge": true,
					"availabilityStatus": "IN_STOCK",
					"availableQuantity": 3
				}
			]
		}
	}
}`

func newTestCore(t *testing.T, raw RawSource) (*Core, *int64) {
	t.Helper()

	var feedHits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&feedHits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feedPayload))
	}))
	t.Cleanup(server.Close)

	opts := DefaultOptions()
	opts.Feed.Endpoint = server.URL
	opts.Feed.SellersPageURL = ""
	opts.Feed.PaceRPS = 1000
	opts.SettingsPath = filepath.Join(t.TempDir(), "settings.json")
	opts.JanitorSchedule = ""

	core, err := New(raw, opts, nil)
	if err != nil {
		t.Fatalf("building core: %v", err)
	}
	t.Cleanup(core.Close)

	return core, &feedHits
}

func staticRaw(raw *model.RawProduct) RawSource {
	return func(ctx context.Context) (*model.RawProduct, error) {
		return raw, nil
	}
}

func TestCore_EndToEnd(t *testing.T) {
	price := 25.00
	core, feedHits := newTestCore(t, staticRaw(&model.RawProduct{
		ProductID: "12345",
		Brand:     "Lego",
		Price:     &price,
		Length:    "12",
		Width:     "12",
		Height:    "12",
		Weight:    "2",
	}))

	ctx := context.Background()
	snap, err := core.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	if snap.Sellers.MainSeller == nil || snap.Sellers.MainSeller.Type != model.SellerTypeWMT {
		t.Fatal("main seller should be the storefront")
	}
	if snap.Inventory.TotalStock != 11 {
		t.Errorf("expected total stock 11, got %d", snap.Inventory.TotalStock)
	}
	if snap.Sellers.TotalSellers != 2 {
		t.Errorf("expected 2 sellers, got %d", snap.Sellers.TotalSellers)
	}

	// The snapshot primes the pricing controller exactly once.
	state := core.Pricing().State()
	if state.Costs.SalePrice.Value != 25.00 {
		t.Errorf("sale price should come from the snapshot, got %v", state.Costs.SalePrice.Value)
	}
	if state.Costs.ProductCost.Value != 17.50 {
		t.Errorf("product cost should seed from the markdown ratio, got %v", state.Costs.ProductCost.Value)
	}

	// A second read hits the snapshot cache and leaves user edits alone.
	core.Pricing().UpdateCosts(pricing.CostProductCost, "9.99")
	if _, err := core.Snapshot(ctx); err != nil {
		t.Fatalf("second snapshot: %v", err)
	}
	if got := core.Pricing().State().Costs.ProductCost.Value; got != 9.99 {
		t.Errorf("cached snapshot reread should not clobber the edited cost, got %v", got)
	}

	if got := atomic.LoadInt64(feedHits); got != 1 {
		t.Errorf("expected exactly one feed fetch, got %d", got)
	}
}

func TestCore_MissingRawRecord(t *testing.T) {
	core, _ := newTestCore(t, staticRaw(nil))

	if _, err := core.Snapshot(context.Background()); err == nil {
		t.Error("missing raw record should surface as not-ready")
	}
}

func TestCore_Invalidate(t *testing.T) {
	price := 25.00
	core, feedHits := newTestCore(t, staticRaw(&model.RawProduct{
		ProductID: "12345",
		Price:     &price,
	}))

	ctx := context.Background()
	if _, err := core.Snapshot(ctx); err != nil {
		t.Fatal(err)
	}
	core.Pricing().UpdateCosts(pricing.CostProductCost, "12.00")

	core.Invalidate()

	// Both cache layers are gone, so a new call rebuilds and refetches.
	if _, err := core.Snapshot(ctx); err != nil {
		t.Fatal(err)
	}

	// Navigation re-arms the one-shot cost seeding; the old product's
	// edited cost must not leak into the new product.
	if got := core.Pricing().State().Costs.ProductCost.Value; got != 17.50 {
		t.Errorf("cost should re-seed after navigation, got %v", got)
	}

	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt64(feedHits) < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := atomic.LoadInt64(feedHits); got != 2 {
		t.Errorf("invalidation should force a second feed fetch, got %d", got)
	}
}
