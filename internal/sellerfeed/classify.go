package sellerfeed

import (
	"strings"

	"github.com/flipsight/arbcore/internal/model"
)

// Classify derives a seller type from three facts: the seller name, whether
// the platform's logistics network fulfills the offer, and the product
// brand. The pro-seller badge is tracked separately and never changes the
// base type.
func Classify(sellerName string, platformFulfilled bool, brand, storefrontName string) model.SellerType {
	if sellerName == storefrontName {
		return model.SellerTypeWMT
	}

	if platformFulfilled {
		if BrandMatches(brand, sellerName) {
			return model.SellerTypeWFSBrand
		}
		return model.SellerTypeWFS
	}

	if BrandMatches(brand, sellerName) {
		return model.SellerTypeSFBrand
	}
	return model.SellerTypeSF
}

// BrandMatches reports whether any whitespace token of the brand name
// appears as a case-insensitive substring of the seller name. Intentionally
// loose: short or common brand words can produce false positives, and
// resellers whose name happens to contain a brand token are misclassified
// as brand-affiliated. Kept as-is because the feed carries nothing better
// to disambiguate with.
func BrandMatches(brand, sellerName string) bool {
	if brand == "" || sellerName == "" {
		return false
	}

	seller := strings.ToLower(sellerName)
	for _, token := range strings.Fields(strings.ToLower(brand)) {
		if strings.Contains(seller, token) {
			return true
		}
	}
	return false
}
