// Package goldprice fetches the spot gold price and converts it to local
// per-gram and per-tael quotes. A fixed fallback quote keeps the feature
// usable when the upstream feed is down.
package goldprice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fjacquet/finance-assistant/internal/logging"

	"github.com/shopspring/decimal"
)

// Conversion constants for the Vietnamese gold market: prices quote per
// troy ounce upstream, per gram and per tael (lượng, 37.5 g) locally.
var (
	gramsPerTroyOunce = decimal.NewFromFloat(31.1035)
	gramsPerTael      = decimal.NewFromFloat(37.5)

	// fallbackUSDPerOunce is used when the upstream feed is unreachable.
	fallbackUSDPerOunce = decimal.NewFromInt(2050)
)

// Quote is a spot gold price in upstream and local units.
type Quote struct {
	USDPerOunce decimal.Decimal
	VNDPerGram  decimal.Decimal
	VNDPerTael  decimal.Decimal
	FetchedAt   time.Time
	Fallback    bool
}

// Render formats the quote for terminal display.
func (q Quote) Render() string {
	s := fmt.Sprintf("Gold spot: %s USD/oz | %s VND/gram | %s VND/tael",
		q.USDPerOunce.Round(2), q.VNDPerGram.Round(0), q.VNDPerTael.Round(0))
	if q.Fallback {
		s += " (reference price, live feed unavailable)"
	}
	return s
}

// wireSpot matches the upstream feed: an array with one object per metal.
type wireSpot struct {
	Price decimal.Decimal `json:"price"`
}

// Client fetches spot gold quotes over HTTP.
type Client struct {
	http     *http.Client
	url      string
	usdToVND decimal.Decimal
	logger   logging.Logger
}

// New creates a gold price client. usdToVND is the configured conversion
// rate; the upstream feed quotes USD only.
func New(url string, timeout time.Duration, usdToVND decimal.Decimal, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Client{
		http:     &http.Client{Timeout: timeout},
		url:      url,
		usdToVND: usdToVND,
		logger:   logger,
	}
}

// Fetch returns the current spot quote. Feed failures degrade to the fixed
// fallback quote rather than an error; the caller always gets a price.
func (c *Client) Fetch(ctx context.Context) Quote {
	usd, err := c.fetchSpot(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Gold price feed unavailable, using fallback quote")
		return c.quote(fallbackUSDPerOunce, true)
	}
	return c.quote(usd, false)
}

func (c *Client) fetchSpot(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch gold price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("gold price feed returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return decimal.Zero, fmt.Errorf("read gold price response: %w", err)
	}

	var spots []wireSpot
	if err := json.Unmarshal(body, &spots); err != nil {
		return decimal.Zero, fmt.Errorf("decode gold price response: %w", err)
	}
	if len(spots) == 0 || !spots[0].Price.IsPositive() {
		return decimal.Zero, fmt.Errorf("gold price feed returned no usable price")
	}
	return spots[0].Price, nil
}

func (c *Client) quote(usdPerOunce decimal.Decimal, fallback bool) Quote {
	vndPerGram := usdPerOunce.Mul(c.usdToVND).Div(gramsPerTroyOunce)
	return Quote{
		USDPerOunce: usdPerOunce,
		VNDPerGram:  vndPerGram,
		VNDPerTael:  vndPerGram.Mul(gramsPerTael),
		FetchedAt:   time.Now(),
		Fallback:    fallback,
	}
}
