package model

import "time"

// SellerType classifies who stores and ships a seller's inventory and
// whether the seller is brand-affiliated.
type SellerType string

const (
	// SellerTypeWMT is the platform's own first-party storefront.
	SellerTypeWMT SellerType = "WMT"
	// SellerTypeWFS is a third-party seller fulfilled by the platform's logistics.
	SellerTypeWFS SellerType = "WFS"
	// SellerTypeWFSBrand is a platform-fulfilled seller whose name matches the product brand.
	SellerTypeWFSBrand SellerType = "WFS-Brand"
	// SellerTypeSF is a seller-fulfilled third party.
	SellerTypeSF SellerType = "SF"
	// SellerTypeSFBrand is a seller-fulfilled third party whose name matches the product brand.
	SellerTypeSFBrand SellerType = "SF-Brand"
)

// SellerOffer is one competing seller's entry for the product.
// Offers are created fresh on every feed fetch and never mutated;
// the next fetch supersedes them wholesale.
type SellerOffer struct {
	Name              string     `json:"name"`
	Price             string     `json:"price"` // currency-agnostic until parsed
	Type              SellerType `json:"type"`
	DeliveryEstimate  string     `json:"delivery_estimate"`
	ProSeller         bool       `json:"pro_seller"`
	AvailableQuantity int        `json:"available_quantity"`
}

// BasicInfo holds product identifiers. Absence of any field is valid,
// never fatal.
type BasicInfo struct {
	ProductID string  `json:"product_id"`
	UPC       *string `json:"upc,omitempty"`
	Brand     *string `json:"brand,omitempty"`
	Model     *string `json:"model,omitempty"`
}

// PricingInfo holds the page's displayed price and seller.
type PricingInfo struct {
	CurrentPrice   *float64   `json:"current_price,omitempty"`
	MainSellerName string     `json:"main_seller_name"`
	MainSellerType SellerType `json:"main_seller_type"`
}

// DimensionInfo keeps shipping dimensions as raw strings from the source.
// Consumers parse them lazily.
type DimensionInfo struct {
	Length string `json:"length"`
	Width  string `json:"width"`
	Height string `json:"height"`
	Weight string `json:"weight"`
}

// InventoryInfo is computed at assembly time, not source-provided.
type InventoryInfo struct {
	TotalSellers int `json:"total_sellers"`
	TotalStock   int `json:"total_stock"`
}

// ReviewInfo holds rating counts and raw review dates for recency bucketing.
type ReviewInfo struct {
	AverageRating *float64 `json:"average_rating,omitempty"`
	ReviewCount   int      `json:"review_count"`
	Dates         []string `json:"dates"`
}

// Variant describes one product variation, keyed by the source-assigned id.
type Variant struct {
	ID         string            `json:"id"`
	Attributes map[string]string `json:"attributes"`
	Price      *float64          `json:"price,omitempty"`
	Available  bool              `json:"available"`
}

// SellerInfo groups the page's displayed seller with the feed's competing offers.
type SellerInfo struct {
	MainSeller   *SellerOffer  `json:"main_seller,omitempty"`
	OtherSellers []SellerOffer `json:"other_sellers"`
	TotalSellers int           `json:"total_sellers"`
}

// FlagInfo carries boolean classification, false when unknown.
type FlagInfo struct {
	Apparel   bool `json:"apparel"`
	Hazardous bool `json:"hazardous"`
}

// ProductSnapshot is the single normalized aggregate for one product.
// It is built exactly once per cache cycle and immutable afterwards.
//
// Invariants maintained by the assembler:
//   - Inventory.TotalStock equals the sum of AvailableQuantity across
//     MainSeller (if present) and all OtherSellers.
//   - Sellers.TotalSellers equals 1+len(OtherSellers) when MainSeller is
//     present, else len(OtherSellers).
type ProductSnapshot struct {
	CycleID    string             `json:"cycle_id"`
	FetchedAt  time.Time          `json:"fetched_at"`
	Basic      BasicInfo          `json:"basic"`
	Pricing    PricingInfo        `json:"pricing"`
	Dimensions DimensionInfo      `json:"dimensions"`
	Media      []string           `json:"media"`
	Categories []string           `json:"categories"`
	Badges     []string           `json:"badges"`
	Inventory  InventoryInfo      `json:"inventory"`
	Reviews    ReviewInfo         `json:"reviews"`
	Variants   map[string]Variant `json:"variants"`
	Sellers    SellerInfo         `json:"sellers"`
	Flags      FlagInfo           `json:"flags"`
}
