package market

// Trade represents one executed trade observed this tick.
type Trade struct {
	Symbol    string `json:"symbol"`
	Price     int    `json:"price"`
	Quantity  int    `json:"quantity"`
	Buyer     string `json:"buyer,omitempty"`
	Seller    string `json:"seller,omitempty"`
	Timestamp int64  `json:"timestamp"`
}
