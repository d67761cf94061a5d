package market

// Order is a single-tick order proposal. Positive quantity buys, negative
// sells. Orders are transient: they are emitted once and never persisted.
type Order struct {
	Symbol   string `json:"symbol"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}
