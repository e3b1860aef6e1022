// Package pricing transforms a product snapshot plus user-editable cost,
// dimension, and fee inputs into fee-by-fee, profit, ROI, and margin
// figures for resale decisions.
package pricing

import "math"

// cubicInchesPerFoot converts dimension products to cubic feet.
const cubicInchesPerFoot = 1728.0

// CubicFeet returns the shipping volume for the given dimensions in inches.
func CubicFeet(lengthIn, widthIn, heightIn float64) float64 {
	return (lengthIn * widthIn * heightIn) / cubicInchesPerFoot
}

// FeeInputs are the snapshot and user fields the derived fees depend on.
type FeeInputs struct {
	SalePrice         float64
	Category          string
	WeightLb          float64
	LengthIn          float64
	WidthIn           float64
	HeightIn          float64
	Apparel           bool
	Hazardous         bool
	PlatformFulfilled bool
	Season            string
	StorageMonths     float64
	InboundRatePerLb  float64
}

// DerivedFees are the schedule-computed portion of the fee stack. Prep and
// additional fees are direct user inputs and never derived.
type DerivedFees struct {
	Referral        float64
	Fulfillment     float64
	Storage         float64
	InboundShipping float64
	BilledWeightLb  float64
}

// ComputeFees runs the fee stack in dependency order: referral and
// fulfillment from price and physicals, storage from season and duration,
// inbound from the dimensional weight.
func ComputeFees(in FeeInputs, schedule FeeSchedule) DerivedFees {
	billedLb := schedule.DimensionalWeight(in.LengthIn, in.WidthIn, in.HeightIn, in.WeightLb)

	return DerivedFees{
		Referral:        round2(in.SalePrice * schedule.ReferralRate(in.Category)),
		Fulfillment:     schedule.FulfillmentFee(in.SalePrice, billedLb, in.Apparel, in.Hazardous, in.PlatformFulfilled),
		Storage:         round2(CubicFeet(in.LengthIn, in.WidthIn, in.HeightIn) * schedule.StorageRate(in.Season) * in.StorageMonths),
		InboundShipping: round2(billedLb * in.InboundRatePerLb),
		BilledWeightLb:  billedLb,
	}
}

// Profit is sale price minus product cost and the full fee stack.
func Profit(salePrice, productCost, referral, fulfillment, inbound, storage, prep, additional float64) float64 {
	return round2(salePrice - (productCost + referral + fulfillment + inbound + storage + prep + additional))
}

// ROI is profit over product cost, reported as 0 when cost is 0 so
// uninitialized inputs never produce Inf or NaN.
func ROI(profit, productCost float64) float64 {
	if productCost == 0 {
		return 0
	}
	return profit / productCost
}

// Margin is profit over sale price, with the same zero guard.
func Margin(profit, salePrice float64) float64 {
	if salePrice == 0 {
		return 0
	}
	return profit / salePrice
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
