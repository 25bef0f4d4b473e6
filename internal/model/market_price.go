package model

// MarketPrice is a mandi price quote. The data is static reference
// material; it is not persisted and not linked to listings.
type MarketPrice struct {
	Crop       string  `json:"crop" yaml:"crop"`
	State      string  `json:"state" yaml:"state"`
	District   string  `json:"district" yaml:"district"`
	Market     string  `json:"market" yaml:"market"`
	Variety    string  `json:"variety" yaml:"variety"`
	Grade      string  `json:"grade" yaml:"grade"`
	MinPrice   float64 `json:"minPrice" yaml:"minPrice"`
	MaxPrice   float64 `json:"maxPrice" yaml:"maxPrice"`
	ModalPrice float64 `json:"modalPrice" yaml:"modalPrice"`
	Date       string  `json:"date" yaml:"date"`
}
