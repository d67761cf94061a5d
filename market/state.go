package market

// Listing describes one tradable product.
type Listing struct {
	Symbol       string `json:"symbol"`
	Product      string `json:"product"`
	Denomination string `json:"denomination"`
}

// ConversionObservation carries the auxiliary quotes attached to a product
// that supports conversions.
type ConversionObservation struct {
	BidPrice      float64 `json:"bid_price"`
	AskPrice      float64 `json:"ask_price"`
	TransportFees float64 `json:"transport_fees"`
	ExportTariff  float64 `json:"export_tariff"`
	ImportTariff  float64 `json:"import_tariff"`
	SugarPrice    float64 `json:"sugar_price"`
	SunlightIndex float64 `json:"sunlight_index"`
}

// Observation bundles the auxiliary market observations of one tick.
type Observation struct {
	PlainValues map[string]float64               `json:"plain_values,omitempty"`
	Conversions map[string]ConversionObservation `json:"conversions,omitempty"`
}

// TickState is the full input snapshot for one tick. TraderData is the
// opaque state blob returned by the previous tick; an empty string means no
// prior state exists for any product.
type TickState struct {
	Timestamp    int64                 `json:"timestamp"`
	TraderData   string                `json:"trader_data"`
	Listings     map[string]Listing    `json:"listings,omitempty"`
	OrderDepths  map[string]OrderDepth `json:"order_depths"`
	OwnTrades    map[string][]Trade    `json:"own_trades,omitempty"`
	MarketTrades map[string][]Trade    `json:"market_trades,omitempty"`
	Positions    map[string]int        `json:"positions,omitempty"`
	Observations Observation           `json:"observations,omitempty"`
}

// Position returns the current position for symbol, zero when unknown.
func (s *TickState) Position(symbol string) int {
	return s.Positions[symbol]
}
