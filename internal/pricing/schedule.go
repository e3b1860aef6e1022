package pricing

import (
	"math"
	"strings"
)

// Season buckets for storage fees.
const (
	SeasonOffPeak = "off-peak" // January through September
	SeasonPeak    = "peak"     // October through December
)

// FeeSchedule is the pluggable fee policy. The engine never hard-codes
// marketplace math; hosts can swap in a schedule matching their contract.
type FeeSchedule interface {
	// ReferralRate returns the referral percentage for a contract category.
	ReferralRate(category string) float64

	// FulfillmentFee returns the platform-fulfillment fee for one unit.
	// Zero when the seller ships the item themselves.
	FulfillmentFee(salePrice, billedWeightLb float64, apparel, hazardous, platformFulfilled bool) float64

	// StorageRate returns the monthly storage rate per cubic foot for a season.
	StorageRate(season string) float64

	// DimensionalWeight reconciles actual weight against the volumetric
	// floor and returns the billable inbound weight in pounds.
	DimensionalWeight(lengthIn, widthIn, heightIn, actualLb float64) float64
}

// DefaultSchedule implements marketplace-typical fee tables.
type DefaultSchedule struct{}

// referralRates by contract category. Anything unlisted pays the default.
var referralRates = map[string]float64{
	"electronics":          0.08,
	"cameras":              0.08,
	"cell phones":          0.08,
	"video game consoles":  0.08,
	"personal computers":   0.06,
	"grocery":              0.15,
	"apparel":              0.15,
	"toys":                 0.15,
	"home":                 0.15,
	"beauty":               0.15,
	"sporting goods":       0.15,
	"watches":              0.15,
	"jewelry":              0.20,
	"books":                0.15,
	"music":                0.15,
	"tires":                0.10,
	"major appliances":     0.08,
	"outdoor power tools":  0.15,
	"plumbing fixtures":    0.10,
	"musical instruments":  0.12,
	"industrial equipment": 0.12,
}

const defaultReferralRate = 0.15

func (DefaultSchedule) ReferralRate(category string) float64 {
	if rate, ok := referralRates[strings.ToLower(strings.TrimSpace(category))]; ok {
		return rate
	}
	return defaultReferralRate
}

// FulfillmentFee follows weight-tier pricing. Apparel and hazmat handling
// each add a flat surcharge.
func (DefaultSchedule) FulfillmentFee(salePrice, billedWeightLb float64, apparel, hazardous, platformFulfilled bool) float64 {
	if !platformFulfilled {
		return 0
	}

	lb := math.Ceil(billedWeightLb)
	if lb < 1 {
		lb = 1
	}

	var fee float64
	switch {
	case salePrice < 10:
		// Low-price items pay a flat rate regardless of weight.
		fee = 3.45
	case lb <= 1:
		fee = 3.45
	case lb <= 2:
		fee = 4.95
	case lb <= 3:
		fee = 5.45
	case lb <= 20:
		fee = 5.75 + 0.40*(lb-4)
	case lb <= 30:
		fee = 15.55 + 0.40*(lb-21)
	default:
		fee = 19.55 + 0.40*(lb-31)
	}

	if apparel {
		fee += 0.50
	}
	if hazardous {
		fee += 0.50
	}

	return round2(fee)
}

func (DefaultSchedule) StorageRate(season string) float64 {
	if season == SeasonPeak {
		return 1.50
	}
	return 0.75
}

// dimDivisor converts cubic inches to volumetric pounds.
const dimDivisor = 139.0

// DimensionalWeight bills the greater of actual and volumetric weight once
// the item is over a pound; tiny items always bill actual weight.
func (DefaultSchedule) DimensionalWeight(lengthIn, widthIn, heightIn, actualLb float64) float64 {
	volumetric := (lengthIn * widthIn * heightIn) / dimDivisor
	if actualLb <= 1 || volumetric <= actualLb {
		return actualLb
	}
	return volumetric
}
