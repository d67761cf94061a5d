package strategy

import (
	"encoding/json"
	"math"

	"github.com/mstrvictor/prosperity3/market"
)

// MarketMaker quotes both sides of the book around an estimated fair price.
// Headroom is consumed in strict order: aggressive fills, hard liquidation,
// soft liquidation, passive quotes. Later steps only act on what earlier
// steps left, so a full fill of every order can never push the position
// beyond ±limit.
type MarketMaker struct {
	symbol    string
	limit     int
	estimator Estimator

	window Window
	orders []market.Order
}

// NewMarketMaker builds the policy for one product. limit is the position
// limit the policy must never allow to be breached.
func NewMarketMaker(symbol string, limit int, estimator Estimator) *MarketMaker {
	return &MarketMaker{symbol: symbol, limit: limit, estimator: estimator}
}

func (m *MarketMaker) Symbol() string { return m.symbol }

// Run computes this tick's orders and advances the liquidation window.
func (m *MarketMaker) Run(state *market.TickState) []market.Order {
	m.orders = nil
	m.act(state)
	return m.orders
}

func (m *MarketMaker) act(state *market.TickState) {
	estimate, tradable := m.estimator.Estimate(state)
	trueValue := int(math.Round(estimate))

	depth := state.OrderDepths[m.symbol]
	bids := depth.BidsDescending()
	asks := depth.AsksAscending()

	position := state.Position(m.symbol)
	toBuy := m.limit - position
	toSell := m.limit + position

	// The just-observed saturation status participates in this tick's
	// liquidation decision.
	m.window.Append(abs(position) == m.limit)
	softLiquidate := m.window.SoftLiquidate()
	hardLiquidate := m.window.HardLiquidate()

	// Skew the acceptable prices against the inventory: buy less
	// aggressively when already long, sell less aggressively when short.
	maxBuyPrice := trueValue
	if position > m.limit/2 {
		maxBuyPrice = trueValue - 1
	}
	minSellPrice := trueValue
	if position < -(m.limit / 2) {
		minSellPrice = trueValue + 1
	}

	// Aggressive fills: lift resting asks at or below our max buy price.
	if tradable {
		for _, lvl := range asks {
			if toBuy > 0 && lvl.Price <= maxBuyPrice {
				quantity := min(toBuy, -lvl.Volume)
				m.buy(lvl.Price, quantity)
				toBuy -= quantity
			}
		}
	}

	if toBuy > 0 && hardLiquidate {
		quantity := toBuy / 2
		m.buy(trueValue, quantity)
		toBuy -= quantity
	}

	if toBuy > 0 && softLiquidate {
		quantity := toBuy
		m.buy(trueValue-2, quantity)
		toBuy -= quantity
	}

	// Passive quote one tick inside the most popular bid, capped at the
	// skewed max buy price.
	if toBuy > 0 && tradable && len(bids) > 0 {
		price := min(maxBuyPrice, popularPrice(bids)+1)
		m.buy(price, toBuy)
	}

	// Aggressive fills: hit resting bids at or above our min sell price.
	if tradable {
		for _, lvl := range bids {
			if toSell > 0 && lvl.Price >= minSellPrice {
				quantity := min(toSell, lvl.Volume)
				m.sell(lvl.Price, quantity)
				toSell -= quantity
			}
		}
	}

	if toSell > 0 && hardLiquidate {
		quantity := toSell / 2
		m.sell(trueValue, quantity)
		toSell -= quantity
	}

	if toSell > 0 && softLiquidate {
		quantity := toSell / 2
		m.sell(trueValue+2, quantity)
		toSell -= quantity
	}

	if toSell > 0 && tradable && len(asks) > 0 {
		price := max(minSellPrice, popularPrice(asks)-1)
		m.sell(price, toSell)
	}
}

func (m *MarketMaker) buy(price, quantity int) {
	m.orders = append(m.orders, market.Order{Symbol: m.symbol, Price: price, Quantity: quantity})
}

func (m *MarketMaker) sell(price, quantity int) {
	m.orders = append(m.orders, market.Order{Symbol: m.symbol, Price: price, Quantity: -quantity})
}

// Save persists the liquidation window; Load restores it, treating a
// malformed payload as no prior state.
func (m *MarketMaker) Save() (json.RawMessage, error) {
	return m.window.Save()
}

func (m *MarketMaker) Load(data json.RawMessage) error {
	return m.window.Load(data)
}

// popularPrice returns the price of the level with the largest standing
// volume. Levels are pre-sorted best first, so ties resolve to the level
// closest to the top of the book.
func popularPrice(levels []market.Level) int {
	best := levels[0]
	for _, lvl := range levels[1:] {
		if abs(lvl.Volume) > abs(best.Volume) {
			best = lvl
		}
	}
	return best.Price
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
