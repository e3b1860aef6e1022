package pricing

import (
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/flipsight/arbcore/internal/model"
	"github.com/flipsight/arbcore/internal/settings"
)

// defaultCostRatio seeds product cost from the first valid sale price. A
// standard markdown sourcing assumption; the user edits it from there.
const defaultCostRatio = 0.70

// Field pairs a numeric value with its raw shadow. The shadow is non-nil
// only while the user's textual input has not resolved to a valid number;
// the numeric value itself is always finite, never NaN or nil.
type Field struct {
	Value float64 `json:"value"`
	Raw   *string `json:"raw,omitempty"`
}

// set parses input. On failure the prior numeric value is kept and the
// offending text is stored so the UI can show what was typed.
func (f *Field) set(input string) {
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		f.Raw = &input
		return
	}
	f.Value = v
	f.Raw = nil
}

// reset forces a numeric value and clears the shadow.
func (f *Field) reset(v float64) {
	f.Value = v
	f.Raw = nil
}

// Costs are the purchase-side inputs.
type Costs struct {
	ProductCost Field `json:"product_cost"`
	SalePrice   Field `json:"sale_price"`
}

// Dimensions are the shipping physicals, in inches and pounds.
type Dimensions struct {
	Length Field `json:"length"`
	Width  Field `json:"width"`
	Height Field `json:"height"`
	Weight Field `json:"weight"`
}

// Fees are the per-unit fee stack. Referral, WFS, storage, and inbound are
// derived from the schedule but remain user-editable; prep and additional
// are always direct inputs.
type Fees struct {
	Referral        Field `json:"referral"`
	WFS             Field `json:"wfs"`
	Storage         Field `json:"storage"`
	InboundShipping Field `json:"inbound_shipping"`
	Prep            Field `json:"prep"`
	Additional      Field `json:"additional"`
}

// General holds the non-numeric knobs the fee computation reads.
type General struct {
	ContractCategory  string  `json:"contract_category"`
	Season            string  `json:"season"`
	StorageMonths     float64 `json:"storage_months"`
	InboundRatePerLb  float64 `json:"inbound_rate_per_lb"`
	PlatformFulfilled bool    `json:"platform_fulfilled"`
}

// Metrics are the computed outputs plus the user-configured decision thresholds.
type Metrics struct {
	Profit float64 `json:"profit"`
	ROI    float64 `json:"roi"`
	Margin float64 `json:"margin"`

	MinProfit  float64 `json:"min_profit"`
	MinROI     float64 `json:"min_roi"`
	MinMargin  float64 `json:"min_margin"`
	MaxSellers int     `json:"max_sellers"`
}

// State is the full pricing state exposed to the UI as a read-only view.
type State struct {
	Costs      Costs      `json:"costs"`
	Dimensions Dimensions `json:"dimensions"`
	Fees       Fees       `json:"fees"`
	General    General    `json:"general"`
	Metrics    Metrics    `json:"metrics"`
}

// CostField names a user-editable cost input.
type CostField string

const (
	CostProductCost CostField = "productCost"
	CostSalePrice   CostField = "salePrice"
)

// DimensionField names a user-editable shipping dimension.
type DimensionField string

const (
	DimLength DimensionField = "length"
	DimWidth  DimensionField = "width"
	DimHeight DimensionField = "height"
	DimWeight DimensionField = "weight"
)

// FeeField names a user-editable fee input.
type FeeField string

const (
	FeeReferral   FeeField = "referral"
	FeeWFS        FeeField = "wfs"
	FeeStorage    FeeField = "storage"
	FeeInbound    FeeField = "inboundShipping"
	FeePrep       FeeField = "prep"
	FeeAdditional FeeField = "additional"
)

// Controller owns the mutable pricing state and recomputes metrics on every
// input change. Fees are derived, profit is derived-of-derived: a dimension
// change recomputes fees first, then profit/ROI/margin.
type Controller struct {
	mu       sync.Mutex
	schedule FeeSchedule
	state    State
	snap     *model.ProductSnapshot
	logger   *slog.Logger

	// costInitialized guards the one-shot product cost seeding so a
	// snapshot refresh never silently overwrites a user's edit.
	costInitialized bool
}

// NewController creates a pricing controller with the given fee schedule
// and user thresholds. logger may be nil.
func NewController(schedule FeeSchedule, thresholds settings.Thresholds, logger *slog.Logger) *Controller {
	if schedule == nil {
		schedule = DefaultSchedule{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Controller{
		schedule: schedule,
		logger:   logger,
	}
	c.state.General = General{
		Season:           SeasonOffPeak,
		StorageMonths:    1,
		InboundRatePerLb: 0.50,
	}
	c.state.Metrics.MinProfit = thresholds.MinProfit
	c.state.Metrics.MinROI = thresholds.MinROI
	c.state.Metrics.MinMargin = thresholds.MinMargin
	c.state.Metrics.MaxSellers = thresholds.MaxSellers
	return c
}

// LoadSnapshot points the controller at a new snapshot. Sale price and
// dimensions refresh from the snapshot; product cost is seeded exactly once
// from the first valid sale price and left alone on later loads.
func (c *Controller) LoadSnapshot(snap *model.ProductSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snap = snap
	if snap == nil {
		return
	}

	if snap.Pricing.CurrentPrice != nil && *snap.Pricing.CurrentPrice > 0 {
		price := *snap.Pricing.CurrentPrice
		c.state.Costs.SalePrice.reset(price)

		if !c.costInitialized {
			c.state.Costs.ProductCost.reset(round2(price * defaultCostRatio))
			c.costInitialized = true
			c.logger.Debug("seeded product cost",
				"sale_price", price, "product_cost", c.state.Costs.ProductCost.Value)
		}
	}

	c.applySnapshotDimensions()
	c.setFulfillmentFromSnapshot()
	c.recomputeFees()
	c.recomputeMetrics()
}

// State returns a copy of the current pricing state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// UpdateCosts applies one textual cost input and recomputes. A sale price
// change also refreshes the derived fees, which depend on it.
func (c *Controller) UpdateCosts(field CostField, input string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch field {
	case CostProductCost:
		c.state.Costs.ProductCost.set(input)
	case CostSalePrice:
		c.state.Costs.SalePrice.set(input)
		c.recomputeFees()
	}
	c.recomputeMetrics()
}

// UpdateDimensions applies one textual dimension input. Fees are derived
// from dimensions, so they recompute before the metrics do.
func (c *Controller) UpdateDimensions(field DimensionField, input string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch field {
	case DimLength:
		c.state.Dimensions.Length.set(input)
	case DimWidth:
		c.state.Dimensions.Width.set(input)
	case DimHeight:
		c.state.Dimensions.Height.set(input)
	case DimWeight:
		c.state.Dimensions.Weight.set(input)
	}
	c.recomputeFees()
	c.recomputeMetrics()
}

// UpdateFees applies one textual fee input and recomputes the metrics.
func (c *Controller) UpdateFees(field FeeField, input string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch field {
	case FeeReferral:
		c.state.Fees.Referral.set(input)
	case FeeWFS:
		c.state.Fees.WFS.set(input)
	case FeeStorage:
		c.state.Fees.Storage.set(input)
	case FeeInbound:
		c.state.Fees.InboundShipping.set(input)
	case FeePrep:
		c.state.Fees.Prep.set(input)
	case FeeAdditional:
		c.state.Fees.Additional.set(input)
	}
	c.recomputeMetrics()
}

// UpdateGeneral replaces the general knobs and recomputes everything
// downstream of them.
func (c *Controller) UpdateGeneral(general General) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.General = general
	c.recomputeFees()
	c.recomputeMetrics()
}

// ResetPricing restores sale price and product cost from the snapshot.
func (c *Controller) ResetPricing() {
	c.mu.Lock()
	defer c.mu.Unlock()

	price := 0.0
	if c.snap != nil && c.snap.Pricing.CurrentPrice != nil {
		price = *c.snap.Pricing.CurrentPrice
	}
	c.state.Costs.SalePrice.reset(price)
	c.state.Costs.ProductCost.reset(round2(price * defaultCostRatio))
	c.recomputeFees()
	c.recomputeMetrics()
}

// ResetFees zeroes every fee field and clears its shadow.
func (c *Controller) ResetFees() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Fees.Referral.reset(0)
	c.state.Fees.WFS.reset(0)
	c.state.Fees.Storage.reset(0)
	c.state.Fees.InboundShipping.reset(0)
	c.state.Fees.Prep.reset(0)
	c.state.Fees.Additional.reset(0)
	c.recomputeMetrics()
}

// ResetShippingDimensions restores the shipping fields from the snapshot's
// raw dimension strings, defaulting to 0 when a string fails to parse.
func (c *Controller) ResetShippingDimensions() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.applySnapshotDimensions()
	c.recomputeFees()
	c.recomputeMetrics()
}

// ResetForNewProduct detaches the controller from the current snapshot and
// re-arms the one-shot cost seeding. The one-shot guard protects edits
// across refreshes of the same product; a navigation starts over, or the
// new product inherits the old product's cost and fee edits. General knobs
// and thresholds survive navigation.
func (c *Controller) ResetForNewProduct() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snap = nil
	c.costInitialized = false

	c.state.Costs.SalePrice.reset(0)
	c.state.Costs.ProductCost.reset(0)
	c.state.Fees.Prep.reset(0)
	c.state.Fees.Additional.reset(0)
	c.state.General.PlatformFulfilled = false

	c.applySnapshotDimensions()
	c.recomputeFees()
	c.recomputeMetrics()
}

// MeetsThresholds reports whether the current metrics clear every
// configured minimum, including the seller-count ceiling when set.
func (c *Controller) MeetsThresholds() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.state.Metrics
	if m.Profit < m.MinProfit || m.ROI < m.MinROI || m.Margin < m.MinMargin {
		return false
	}
	if m.MaxSellers > 0 && c.snap != nil && c.snap.Sellers.TotalSellers > m.MaxSellers {
		return false
	}
	return true
}

// applySnapshotDimensions parses the snapshot's raw dimension strings.
// Must be called with the mutex held.
func (c *Controller) applySnapshotDimensions() {
	var dims model.DimensionInfo
	if c.snap != nil {
		dims = c.snap.Dimensions
	}
	c.state.Dimensions.Length.reset(parseNumber(dims.Length))
	c.state.Dimensions.Width.reset(parseNumber(dims.Width))
	c.state.Dimensions.Height.reset(parseNumber(dims.Height))
	c.state.Dimensions.Weight.reset(parseNumber(dims.Weight))
}

// setFulfillmentFromSnapshot infers the fulfillment knob from the main
// seller's classification. Must be called with the mutex held.
func (c *Controller) setFulfillmentFromSnapshot() {
	if c.snap == nil || c.snap.Sellers.MainSeller == nil {
		return
	}
	switch c.snap.Sellers.MainSeller.Type {
	case model.SellerTypeWMT, model.SellerTypeWFS, model.SellerTypeWFSBrand:
		c.state.General.PlatformFulfilled = true
	default:
		c.state.General.PlatformFulfilled = false
	}
}

// recomputeFees refreshes the derived fee fields from the schedule.
// Must be called with the mutex held.
func (c *Controller) recomputeFees() {
	apparel, hazardous := false, false
	if c.snap != nil {
		apparel = c.snap.Flags.Apparel
		hazardous = c.snap.Flags.Hazardous
	}

	derived := ComputeFees(FeeInputs{
		SalePrice:         c.state.Costs.SalePrice.Value,
		Category:          c.state.General.ContractCategory,
		WeightLb:          c.state.Dimensions.Weight.Value,
		LengthIn:          c.state.Dimensions.Length.Value,
		WidthIn:           c.state.Dimensions.Width.Value,
		HeightIn:          c.state.Dimensions.Height.Value,
		Apparel:           apparel,
		Hazardous:         hazardous,
		PlatformFulfilled: c.state.General.PlatformFulfilled,
		Season:            c.state.General.Season,
		StorageMonths:     c.state.General.StorageMonths,
		InboundRatePerLb:  c.state.General.InboundRatePerLb,
	}, c.schedule)

	c.state.Fees.Referral.reset(derived.Referral)
	c.state.Fees.WFS.reset(derived.Fulfillment)
	c.state.Fees.Storage.reset(derived.Storage)
	c.state.Fees.InboundShipping.reset(derived.InboundShipping)
}

// recomputeMetrics refreshes profit, ROI, and margin from the current
// inputs. Must be called with the mutex held.
func (c *Controller) recomputeMetrics() {
	profit := Profit(
		c.state.Costs.SalePrice.Value,
		c.state.Costs.ProductCost.Value,
		c.state.Fees.Referral.Value,
		c.state.Fees.WFS.Value,
		c.state.Fees.InboundShipping.Value,
		c.state.Fees.Storage.Value,
		c.state.Fees.Prep.Value,
		c.state.Fees.Additional.Value,
	)

	c.state.Metrics.Profit = profit
	c.state.Metrics.ROI = ROI(profit, c.state.Costs.ProductCost.Value)
	c.state.Metrics.Margin = Margin(profit, c.state.Costs.SalePrice.Value)
}

// parseNumber extracts the leading numeric value from a raw source string
// like "1.9 lb" or "12.5". Anything unparseable yields 0.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		ch := s[end]
		if (ch >= '0' && ch <= '9') || ch == '.' || (end == 0 && (ch == '-' || ch == '+')) {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}
