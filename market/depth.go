package market

import "sort"

// Level is one resting price level of the book.
type Level struct {
	Price  int
	Volume int
}

// OrderDepth holds the resting book for one product. BuyOrders volumes are
// positive; SellOrders volumes are negative (quantity available to buy from).
// Volumes are never zero and prices are integers.
type OrderDepth struct {
	BuyOrders  map[int]int `json:"buy_orders"`
	SellOrders map[int]int `json:"sell_orders"`
}

// BidsDescending returns buy levels sorted best (highest price) first.
func (d OrderDepth) BidsDescending() []Level {
	levels := collect(d.BuyOrders)
	sort.Slice(levels, func(i, j int) bool { return levels[i].Price > levels[j].Price })
	return levels
}

// AsksAscending returns sell levels sorted best (lowest price) first.
func (d OrderDepth) AsksAscending() []Level {
	levels := collect(d.SellOrders)
	sort.Slice(levels, func(i, j int) bool { return levels[i].Price < levels[j].Price })
	return levels
}

func collect(side map[int]int) []Level {
	levels := make([]Level, 0, len(side))
	for p, v := range side {
		levels = append(levels, Level{Price: p, Volume: v})
	}
	return levels
}
