package model

// RawProduct is the loosely-typed record the page scraper produces.
// Only ProductID is required; everything else is optional and defaulted
// by the assembler at the normalization boundary. The core never reaches
// back into the page, so this struct is the full input contract.
type RawProduct struct {
	ProductID string `json:"product_id"`
	UPC       string `json:"upc,omitempty"`
	Brand     string `json:"brand,omitempty"`
	Model     string `json:"model,omitempty"`

	Price          *float64 `json:"price,omitempty"`
	MainSellerName string   `json:"main_seller_name,omitempty"`

	// Shipping dimensions as scraped, units and all. Parsed lazily.
	Length string `json:"length,omitempty"`
	Width  string `json:"width,omitempty"`
	Height string `json:"height,omitempty"`
	Weight string `json:"weight,omitempty"`

	Images     []string `json:"images,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Badges     []string `json:"badges,omitempty"`

	AverageRating *float64 `json:"average_rating,omitempty"`
	ReviewCount   int      `json:"review_count,omitempty"`
	ReviewDates   []string `json:"review_dates,omitempty"`

	Variants map[string]RawVariant `json:"variants,omitempty"`

	IsApparel   *bool `json:"is_apparel,omitempty"`
	IsHazardous *bool `json:"is_hazardous,omitempty"`
}

// RawVariant is one unvalidated variant entry from the scraped record.
type RawVariant struct {
	Attributes   map[string]string `json:"attributes,omitempty"`
	Price        *float64          `json:"price,omitempty"`
	Availability string            `json:"availability,omitempty"`
}
