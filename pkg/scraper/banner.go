// Package scraper implements the periodic catalog and lecturer-rating
// refresh pipeline feeding the catalog store and its Redis mirrors.
package scraper

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// browserUserAgent mimics a regular browser; the Banner endpoint rejects
// obvious non-browser clients.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// SectionRow is one row of the Banner sections feed.
type SectionRow struct {
	Course       string `json:"COURSE"`
	Section      string `json:"SECTION"`
	CRN          string `json:"CRN"`
	Days         string `json:"DAYS"`
	Times        string `json:"TIMES"`
	Location     string `json:"LOCATION"`
	Status       string `json:"STATUS"`
	Max          string `json:"MAX"`
	Now          string `json:"NOW"`
	Instructor   string `json:"INSTRUCTOR"`
	DeliveryMode string `json:"DELIVERY_MODE"`
	Credits      string `json:"CREDITS"`
	Title        string `json:"TITLE"`
	Info         string `json:"INFO"`
	Comments     string `json:"COMMENTS"`
}

// BannerClient fetches section data from the Ellucian Page Builder
// endpoint, which obfuscates every query key and value.
type BannerClient struct {
	baseURL string
	referer string
	client  *http.Client
}

// NewBannerClient creates a client with the scrape timeout.
func NewBannerClient(baseURL, referer string) *BannerClient {
	return &BannerClient{
		baseURL: baseURL,
		referer: referer,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// pbEncode applies the Page Builder parameter obfuscation:
// base64 of a random two-digit salt concatenated with base64 of the value.
func pbEncode(s string) string {
	salt := strconv.Itoa(10 + rand.Intn(90))
	return base64.StdEncoding.EncodeToString([]byte(salt)) +
		base64.StdEncoding.EncodeToString([]byte(s))
}

// FetchSections returns all section rows for one subject in one term.
func (c *BannerClient) FetchSections(ctx context.Context, subject, term string) ([]SectionRow, error) {
	raw := map[string]string{
		"term":    term,
		"subject": subject,
		"max":     "500",
		"offset":  "0",
		"attr":    "",
	}

	params := url.Values{}
	for key, value := range raw {
		params.Set(pbEncode(key), pbEncode(value))
	}
	// The encoded flag itself is sent in the clear.
	params.Set("encoded", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Referer", c.referer)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sections fetch for %s failed: %w", subject, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sections fetch for %s returned status %d", subject, resp.StatusCode)
	}

	var rows []SectionRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("sections response for %s malformed: %w", subject, err)
	}
	return rows, nil
}
