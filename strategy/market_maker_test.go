package strategy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstrvictor/prosperity3/market"
	"github.com/mstrvictor/prosperity3/risk"
	"github.com/mstrvictor/prosperity3/strategy"
)

const symbol = "RAINFOREST_RESIN"

func tick(position int, bids, asks map[int]int) *market.TickState {
	return &market.TickState{
		Timestamp: 100,
		OrderDepths: map[string]market.OrderDepth{
			symbol: {BuyOrders: bids, SellOrders: asks},
		},
		Positions: map[string]int{symbol: position},
	}
}

func TestAggressiveThenPassive(t *testing.T) {
	mm := strategy.NewMarketMaker(symbol, 10, strategy.ConstantValue{Value: 100})
	orders := mm.Run(tick(0, map[int]int{98: 4}, map[int]int{99: -5, 101: -3}))

	require.Equal(t, []market.Order{
		{Symbol: symbol, Price: 99, Quantity: 5},   // lift the cheap ask
		{Symbol: symbol, Price: 99, Quantity: 5},   // passive quote above popular bid
		{Symbol: symbol, Price: 100, Quantity: -10}, // passive ask floored at fair value
	}, orders)
}

func TestPopularPriceSelection(t *testing.T) {
	mm := strategy.NewMarketMaker(symbol, 10, strategy.ConstantValue{Value: 100})
	orders := mm.Run(tick(0, map[int]int{10: 5, 11: 20, 12: 3}, nil))

	// popular bid is 11 (largest volume); quote one tick above it
	require.Len(t, orders, 1)
	assert.Equal(t, 12, orders[0].Price)
	assert.Equal(t, 10, orders[0].Quantity)
}

func TestInventorySkewWhenLong(t *testing.T) {
	mm := strategy.NewMarketMaker(symbol, 10, strategy.ConstantValue{Value: 100})
	orders := mm.Run(tick(6, map[int]int{99: 2}, map[int]int{100: -5}))

	// position 6 > limit/2 drops the max buy price to 99: the 100 ask is
	// not lifted and the passive bid is capped at 99
	require.Len(t, orders, 2)
	assert.Equal(t, market.Order{Symbol: symbol, Price: 99, Quantity: 4}, orders[0])
	assert.Equal(t, market.Order{Symbol: symbol, Price: 100, Quantity: -16}, orders[1])
}

func TestInventorySkewWhenShort(t *testing.T) {
	mm := strategy.NewMarketMaker(symbol, 10, strategy.ConstantValue{Value: 100})
	orders := mm.Run(tick(-6, map[int]int{100: 3}, map[int]int{102: -4}))

	// position -6 < -limit/2 raises the min sell price to 101: the 100 bid
	// is not hit and the passive ask is floored at 101
	for _, o := range orders {
		if o.Quantity < 0 {
			assert.GreaterOrEqual(t, o.Price, 101)
		}
	}
}

func TestUntradableSkipsPriceCrossing(t *testing.T) {
	est, err := strategy.NewEstimator(strategy.EstimatorRecency, symbol, 0, 0.13)
	require.NoError(t, err)
	mm := strategy.NewMarketMaker(symbol, 10, est)

	// crossed book, but no trades this tick: the estimator is unreliable
	// and the window is not saturated, so nothing may be emitted
	orders := mm.Run(tick(0, map[int]int{105: 5}, map[int]int{95: -5}))
	assert.Empty(t, orders)
}

func TestHardLiquidationAfterSustainedSaturation(t *testing.T) {
	mm := strategy.NewMarketMaker(symbol, 50, strategy.ConstantValue{Value: 100})

	var orders []market.Order
	for i := 0; i < 10; i++ {
		orders = mm.Run(tick(50, nil, nil))
		if i < 9 {
			// window not yet full: empty book plus full inventory means
			// nothing to do
			require.Empty(t, orders, "tick %d", i)
		}
	}

	// tick 10: all-true window. No buy headroom, so no buy order ever
	// appears; half the sell headroom goes out at fair value, then half
	// the remainder at the soft concession.
	require.Equal(t, []market.Order{
		{Symbol: symbol, Price: 100, Quantity: -50},
		{Symbol: symbol, Price: 102, Quantity: -25},
	}, orders)
	require.NoError(t, risk.CheckOrders(symbol, 50, 50, orders))
}

func TestSoftLiquidationOnly(t *testing.T) {
	mm := strategy.NewMarketMaker(symbol, 50, strategy.ConstantValue{Value: 100})

	var orders []market.Order
	for i := 0; i < 5; i++ {
		orders = mm.Run(tick(0, nil, nil))
	}
	for i := 0; i < 5; i++ {
		orders = mm.Run(tick(50, nil, nil))
	}

	// half the window saturated with the newest entry at limit: soft but
	// not hard, so only the smaller concession fires
	require.Equal(t, []market.Order{
		{Symbol: symbol, Price: 102, Quantity: -50},
	}, orders)
}

func TestPositionLimitInvariant(t *testing.T) {
	states := []*market.TickState{
		tick(0, map[int]int{98: 30}, map[int]int{99: -40, 101: -3}),
		tick(7, map[int]int{100: 25, 99: 5}, map[int]int{100: -25}),
		tick(-9, map[int]int{101: 50}, map[int]int{96: -50}),
		tick(10, nil, map[int]int{90: -100}),
		tick(-10, map[int]int{110: 100}, nil),
	}
	for i, state := range states {
		mm := strategy.NewMarketMaker(symbol, 10, strategy.ConstantValue{Value: 100})
		orders := mm.Run(state)
		position := state.Position(symbol)
		require.NoError(t, risk.CheckOrders(symbol, position, 10, orders), "state %d", i)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	mm := strategy.NewMarketMaker(symbol, 10, strategy.ConstantValue{Value: 100})
	for i := 0; i < 3; i++ {
		mm.Run(tick(10, nil, nil))
	}
	saved, err := mm.Save()
	require.NoError(t, err)
	assert.JSONEq(t, `[true,true,true]`, string(saved))

	restored := strategy.NewMarketMaker(symbol, 10, strategy.ConstantValue{Value: 100})
	require.NoError(t, restored.Load(saved))
	again, err := restored.Save()
	require.NoError(t, err)
	assert.Equal(t, string(saved), string(again))
}
