package trader_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstrvictor/prosperity3/market"
	"github.com/mstrvictor/prosperity3/strategy"
	"github.com/mstrvictor/prosperity3/trader"
)

func newTrader(sink trader.Sink) *trader.Trader {
	resin := strategy.NewMarketMaker("RAINFOREST_RESIN", 50, strategy.ConstantValue{Value: 10000})
	kelp := strategy.NewMarketMaker("KELP", 50, strategy.RecencyWeighted{Symbol: "KELP", Bias: 0.13})
	return trader.New([]strategy.Strategy{resin, kelp}, sink)
}

func depth(bids, asks map[int]int) market.OrderDepth {
	return market.OrderDepth{BuyOrders: bids, SellOrders: asks}
}

func TestRunEmitsOrdersAndBlob(t *testing.T) {
	tr := newTrader(nil)
	state := &market.TickState{
		Timestamp: 0,
		OrderDepths: map[string]market.OrderDepth{
			"RAINFOREST_RESIN": depth(map[int]int{9998: 10}, map[int]int{10002: -10}),
		},
	}

	orders, conversions, blob := tr.Run(state)
	assert.Equal(t, 0, conversions)
	assert.Contains(t, orders, "RAINFOREST_RESIN")
	assert.NotContains(t, orders, "KELP")

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(blob), &decoded))
	assert.Contains(t, decoded, "RAINFOREST_RESIN")
	// KELP never ran and had no prior state, so it is absent from the blob
	assert.NotContains(t, decoded, "KELP")
	assert.JSONEq(t, `[false]`, string(decoded["RAINFOREST_RESIN"]))
}

func TestBlobRoundTripsAcrossTicks(t *testing.T) {
	tr := newTrader(nil)
	blob := ""
	for i := 0; i < 3; i++ {
		state := &market.TickState{
			Timestamp:  int64(i * 100),
			TraderData: blob,
			OrderDepths: map[string]market.OrderDepth{
				"RAINFOREST_RESIN": depth(nil, nil),
			},
			Positions: map[string]int{"RAINFOREST_RESIN": 50},
		}
		_, _, blob = tr.Run(state)
	}

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(blob), &decoded))
	assert.JSONEq(t, `[true,true,true]`, string(decoded["RAINFOREST_RESIN"]))
}

func TestMalformedBlobMeansFreshState(t *testing.T) {
	tr := newTrader(nil)
	state := &market.TickState{
		TraderData: `{"RAINFOREST_RESIN": "not a window"`,
		OrderDepths: map[string]market.OrderDepth{
			"RAINFOREST_RESIN": depth(nil, nil),
		},
	}
	_, _, blob := tr.Run(state)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(blob), &decoded))
	assert.JSONEq(t, `[false]`, string(decoded["RAINFOREST_RESIN"]))
}

func TestMalformedProductEntryMeansFreshWindow(t *testing.T) {
	tr := newTrader(nil)
	state := &market.TickState{
		TraderData: `{"RAINFOREST_RESIN":{"bogus":true}}`,
		OrderDepths: map[string]market.OrderDepth{
			"RAINFOREST_RESIN": depth(nil, nil),
		},
	}
	_, _, blob := tr.Run(state)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(blob), &decoded))
	assert.JSONEq(t, `[false]`, string(decoded["RAINFOREST_RESIN"]))
}

func TestAbsentProductCarriesStateUnchanged(t *testing.T) {
	tr := newTrader(nil)
	state := &market.TickState{
		TraderData:  `{"KELP":[true,false,true]}`,
		OrderDepths: map[string]market.OrderDepth{},
	}
	orders, _, blob := tr.Run(state)
	assert.Empty(t, orders)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(blob), &decoded))
	// KELP did not run this tick but its prior state survives verbatim
	assert.JSONEq(t, `[true,false,true]`, string(decoded["KELP"]))
	assert.NotContains(t, decoded, "RAINFOREST_RESIN")
}

func TestRunIsDeterministic(t *testing.T) {
	state := func() *market.TickState {
		return &market.TickState{
			Timestamp: 100,
			OrderDepths: map[string]market.OrderDepth{
				"RAINFOREST_RESIN": depth(map[int]int{9995: 3, 9996: 3}, map[int]int{10004: -3, 10005: -3}),
				"KELP":             depth(map[int]int{2020: 5}, map[int]int{2024: -5}),
			},
			MarketTrades: map[string][]market.Trade{
				"KELP": {
					{Symbol: "KELP", Price: 2021, Quantity: 2, Timestamp: 0},
					{Symbol: "KELP", Price: 2023, Quantity: 2, Timestamp: 50},
				},
			},
		}
	}
	ordersA, _, blobA := newTrader(nil).Run(state())
	ordersB, _, blobB := newTrader(nil).Run(state())
	assert.Equal(t, ordersA, ordersB)
	assert.Equal(t, blobA, blobB)
}

type captureSink struct {
	state       *market.TickState
	orders      map[string][]market.Order
	conversions int
	traderData  string
	calls       int
}

func (c *captureSink) Record(state *market.TickState, orders map[string][]market.Order, conversions int, traderData string) {
	c.state = state
	c.orders = orders
	c.conversions = conversions
	c.traderData = traderData
	c.calls++
}

func TestSinkReceivesTickRecord(t *testing.T) {
	sink := &captureSink{}
	tr := newTrader(sink)
	state := &market.TickState{
		OrderDepths: map[string]market.OrderDepth{
			"RAINFOREST_RESIN": depth(map[int]int{9998: 10}, nil),
		},
	}
	orders, conversions, blob := tr.Run(state)

	require.Equal(t, 1, sink.calls)
	assert.Same(t, state, sink.state)
	assert.Equal(t, orders, sink.orders)
	assert.Equal(t, conversions, sink.conversions)
	assert.Equal(t, blob, sink.traderData)
}
