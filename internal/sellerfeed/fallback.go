package sellerfeed

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
)

// scrapeSellersPage is the bounded fallback path: one GET against the
// product's all-sellers page, parsed into the same raw offer shape the
// endpoint returns. No retries; a failure here ends the fetch attempt.
func (c *Client) scrapeSellersPage(ctx context.Context, productID string) ([]rawOffer, error) {
	if c.config.SellersPageURL == "" {
		return nil, fmt.Errorf("sellers page fallback not configured")
	}

	pageURL := fmt.Sprintf(c.config.SellersPageURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	setBrowserHeaders(req)

	httpClient := &http.Client{Timeout: c.config.RequestTimeout}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sellers page request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sellers page: HTTP %d", resp.StatusCode)
	}

	reader, err := decodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("decoding sellers page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing sellers page: %w", err)
	}

	return parseSellerRows(doc), nil
}

// parseSellerRows extracts offer rows from the sellers page markup.
func parseSellerRows(doc *goquery.Document) []rawOffer {
	var offers []rawOffer

	doc.Find("[data-testid='seller-offer']").Each(func(i int, s *goquery.Selection) {
		qty, _ := strconv.Atoi(s.AttrOr("data-available-quantity", "0"))

		offers = append(offers, rawOffer{
			SellerDisplayName:  strings.TrimSpace(s.Find("[data-testid='seller-name']").Text()),
			PriceString:        strings.TrimSpace(s.Find("[data-testid='seller-price']").Text()),
			FulfillmentType:    s.AttrOr("data-fulfillment", ""),
			ProSellerBadge:     s.Find("[data-testid='pro-seller-badge']").Length() > 0,
			DeliveryEstimate:   strings.TrimSpace(s.Find("[data-testid='delivery-estimate']").Text()),
			AvailabilityStatus: s.AttrOr("data-availability", ""),
			AvailableQuantity:  qty,
		})
	})

	return offers
}

func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, br")
	req.Header.Set("Connection", "keep-alive")
}

// decodeBody wraps the response body with the decoder its Content-Encoding
// calls for.
func decodeBody(resp *http.Response) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		return gzipReader, nil
	case "br":
		return brotli.NewReader(resp.Body), nil
	default:
		return resp.Body, nil
	}
}
