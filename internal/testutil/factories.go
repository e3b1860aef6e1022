// Package testutil provides seeded factories for building test fixtures.
package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/flipsight/arbcore/internal/model"
)

// Factory generates deterministic test data from a seed.
type Factory struct {
	rand *rand.Rand
}

// NewFactory creates a factory. Seed 0 falls back to the current time.
func NewFactory(seed int64) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{rand: rand.New(rand.NewSource(seed))}
}

// ProductID generates a numeric product id.
func (f *Factory) ProductID() string {
	return fmt.Sprintf("%09d", f.rand.Intn(1_000_000_000))
}

// Price generates a price between $5 and $500.
func (f *Factory) Price() float64 {
	return float64(f.rand.Intn(49500)+500) / 100
}

// Brand picks a test brand name.
func (f *Factory) Brand() string {
	brands := []string{"Test Lego", "Test Fisher Price", "Test Hasbro", "Test Sony", "Test Anker"}
	return brands[f.rand.Intn(len(brands))]
}

// SellerName picks a test third-party seller name.
func (f *Factory) SellerName() string {
	sellers := []string{"Test Resale Co", "Test Bargain Bin", "Test Deal Depot", "Test Outlet Store"}
	return sellers[f.rand.Intn(len(sellers))]
}

// ReviewDates generates n review date strings within the last year.
func (f *Factory) ReviewDates(n int) []string {
	dates := make([]string, n)
	for i := range dates {
		dates[i] = time.Now().AddDate(0, 0, -f.rand.Intn(365)).Format("2006-01-02")
	}
	return dates
}

// RawProduct builds a fully-populated raw record.
func (f *Factory) RawProduct() *model.RawProduct {
	price := f.Price()
	rating := 3.0 + f.rand.Float64()*2

	return &model.RawProduct{
		ProductID:     f.ProductID(),
		UPC:           fmt.Sprintf("%012d", f.rand.Int63n(1_000_000_000_000)),
		Brand:         f.Brand(),
		Price:         &price,
		Length:        fmt.Sprintf("%d", f.rand.Intn(20)+1),
		Width:         fmt.Sprintf("%d", f.rand.Intn(20)+1),
		Height:        fmt.Sprintf("%d", f.rand.Intn(20)+1),
		Weight:        fmt.Sprintf("%.1f", f.rand.Float64()*10),
		Categories:    []string{"Toys", "Building Sets"},
		AverageRating: &rating,
		ReviewCount:   f.rand.Intn(5000),
		ReviewDates:   f.ReviewDates(5),
	}
}

// SellerOffer builds one in-stock offer.
func (f *Factory) SellerOffer(sellerType model.SellerType) model.SellerOffer {
	return model.SellerOffer{
		Name:              f.SellerName(),
		Price:             fmt.Sprintf("%.2f", f.Price()),
		Type:              sellerType,
		DeliveryEstimate:  fmt.Sprintf("%d days", f.rand.Intn(7)+1),
		ProSeller:         f.rand.Intn(2) == 0,
		AvailableQuantity: f.rand.Intn(20) + 1,
	}
}
