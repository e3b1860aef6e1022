package pricing

import (
	"math"
	"testing"
)

func TestROI_ZeroGuard(t *testing.T) {
	if got := ROI(10, 0); got != 0 {
		t.Errorf("ROI with zero cost should be 0, got %v", got)
	}
	if got := ROI(10, 20); got != 0.5 {
		t.Errorf("expected ROI 0.5, got %v", got)
	}
	if v := ROI(10, 0); math.IsInf(v, 0) || math.IsNaN(v) {
		t.Error("ROI must never be Inf or NaN")
	}
}

func TestMargin_ZeroGuard(t *testing.T) {
	if got := Margin(5, 0); got != 0 {
		t.Errorf("margin with zero sale price should be 0, got %v", got)
	}
	if got := Margin(5, 25); got != 0.2 {
		t.Errorf("expected margin 0.2, got %v", got)
	}
}

func TestProfit(t *testing.T) {
	// 25.00 - (17.50 + 3.75 + 3.45 + 0.95 + 0.10 + 0 + 0) = -0.75
	got := Profit(25.00, 17.50, 3.75, 3.45, 0.95, 0.10, 0, 0)
	if got != -0.75 {
		t.Errorf("expected profit -0.75, got %v", got)
	}
}

func TestCubicFeet(t *testing.T) {
	// A 12x12x12in box is exactly one cubic foot.
	if got := CubicFeet(12, 12, 12); got != 1 {
		t.Errorf("expected 1 cubic foot, got %v", got)
	}
	if got := CubicFeet(0, 10, 10); got != 0 {
		t.Errorf("zero dimension should mean zero volume, got %v", got)
	}
}

func TestDefaultSchedule_ReferralRate(t *testing.T) {
	s := DefaultSchedule{}

	if got := s.ReferralRate("Electronics"); got != 0.08 {
		t.Errorf("electronics rate should be 0.08, got %v", got)
	}
	if got := s.ReferralRate("unknown category"); got != defaultReferralRate {
		t.Errorf("unlisted category should use the default rate, got %v", got)
	}
	if got := s.ReferralRate(""); got != defaultReferralRate {
		t.Errorf("empty category should use the default rate, got %v", got)
	}
}

func TestDefaultSchedule_DimensionalWeight(t *testing.T) {
	s := DefaultSchedule{}

	// Dense item: actual weight wins.
	if got := s.DimensionalWeight(10, 10, 10, 12); got != 12 {
		t.Errorf("expected actual weight 12, got %v", got)
	}

	// Bulky item: volumetric floor wins. 20*20*20/139 ≈ 57.55
	got := s.DimensionalWeight(20, 20, 20, 3)
	want := 20.0 * 20 * 20 / dimDivisor
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected volumetric weight %v, got %v", want, got)
	}

	// Sub-pound items always bill actual weight.
	if got := s.DimensionalWeight(20, 20, 20, 0.5); got != 0.5 {
		t.Errorf("sub-pound item should bill actual weight, got %v", got)
	}
}

func TestDefaultSchedule_FulfillmentFee(t *testing.T) {
	s := DefaultSchedule{}

	if got := s.FulfillmentFee(25, 5, false, false, false); got != 0 {
		t.Errorf("seller-fulfilled item pays no fulfillment fee, got %v", got)
	}
	if got := s.FulfillmentFee(25, 1, false, false, true); got != 3.45 {
		t.Errorf("one-pound tier should be 3.45, got %v", got)
	}
	if got := s.FulfillmentFee(25, 5, false, false, true); got != 6.15 {
		// 5.75 + 0.40*(5-4)
		t.Errorf("five-pound tier should be 6.15, got %v", got)
	}
	if got := s.FulfillmentFee(25, 1, true, true, true); got != 4.45 {
		t.Errorf("apparel+hazmat surcharges should add 1.00, got %v", got)
	}
	if got := s.FulfillmentFee(8.99, 7, false, false, true); got != 3.45 {
		t.Errorf("low-price items pay the flat rate, got %v", got)
	}
}

func TestComputeFees_Order(t *testing.T) {
	derived := ComputeFees(FeeInputs{
		SalePrice:         25.00,
		Category:          "toys",
		WeightLb:          1,
		LengthIn:          12,
		WidthIn:           12,
		HeightIn:          12,
		PlatformFulfilled: true,
		Season:            SeasonOffPeak,
		StorageMonths:     2,
		InboundRatePerLb:  0.50,
	}, DefaultSchedule{})

	if derived.Referral != 3.75 {
		t.Errorf("referral should be 25*0.15=3.75, got %v", derived.Referral)
	}
	if derived.Fulfillment != 3.45 {
		t.Errorf("fulfillment should be 3.45, got %v", derived.Fulfillment)
	}
	if derived.Storage != 1.50 {
		// 1 cubic foot * 0.75 * 2 months
		t.Errorf("storage should be 1.50, got %v", derived.Storage)
	}
	if derived.BilledWeightLb != 1 {
		t.Errorf("billed weight should stay at actual 1lb, got %v", derived.BilledWeightLb)
	}
	if derived.InboundShipping != 0.50 {
		t.Errorf("inbound should be billed weight * rate = 0.50, got %v", derived.InboundShipping)
	}
}

func TestComputeFees_PeakStorage(t *testing.T) {
	derived := ComputeFees(FeeInputs{
		SalePrice:     10,
		LengthIn:      12,
		WidthIn:       12,
		HeightIn:      12,
		Season:        SeasonPeak,
		StorageMonths: 1,
	}, DefaultSchedule{})

	if derived.Storage != 1.50 {
		t.Errorf("peak storage should double the off-peak rate, got %v", derived.Storage)
	}
}
