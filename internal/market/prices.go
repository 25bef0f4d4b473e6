// Package market serves the static market price board.
package market

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iliyamo/farm-market/internal/model"
)

//go:embed prices.yaml
var defaultPrices []byte

// Board holds the price quotes loaded at startup.
type Board struct {
	prices []model.MarketPrice
}

// NewBoard parses the embedded price sheet and stamps every quote with
// today's date (YYYY-MM-DD) in now's location.
func NewBoard(now time.Time) (*Board, error) {
	return Parse(defaultPrices, now)
}

// Parse builds a Board from a YAML list of quotes. Quotes without a date
// get now's date.
func Parse(raw []byte, now time.Time) (*Board, error) {
	var prices []model.MarketPrice
	if err := yaml.Unmarshal(raw, &prices); err != nil {
		return nil, fmt.Errorf("parse market prices: %w", err)
	}
	today := now.Format(time.DateOnly)
	for i := range prices {
		if prices[i].Date == "" {
			prices[i].Date = today
		}
	}
	return &Board{prices: prices}, nil
}

// All returns every quote in sheet order.
func (b *Board) All() []model.MarketPrice {
	out := make([]model.MarketPrice, len(b.prices))
	copy(out, b.prices)
	return out
}

// Search matches term against crop, state and district, ignoring case.
// A blank term returns everything.
func (b *Board) Search(term string) []model.MarketPrice {
	q := strings.ToLower(strings.TrimSpace(term))
	if q == "" {
		return b.All()
	}
	out := []model.MarketPrice{}
	for _, p := range b.prices {
		if strings.Contains(strings.ToLower(p.Crop), q) ||
			strings.Contains(strings.ToLower(p.State), q) ||
			strings.Contains(strings.ToLower(p.District), q) {
			out = append(out, p)
		}
	}
	return out
}
