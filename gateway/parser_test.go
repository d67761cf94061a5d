package gateway

import "testing"

func TestParseTick(t *testing.T) {
	raw := []byte(`{
		"timestamp": 100,
		"trader_data": "{\"KELP\":[false]}",
		"order_depths": {
			"KELP": {"buy_orders": {"2020": 5}, "sell_orders": {"2024": -5}}
		},
		"market_trades": {
			"KELP": [{"symbol": "KELP", "price": 2021, "quantity": 2, "timestamp": 0}]
		},
		"positions": {"KELP": 3}
	}`)
	state, err := ParseTick(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if state.Timestamp != 100 {
		t.Fatalf("timestamp = %d", state.Timestamp)
	}
	depth, ok := state.OrderDepths["KELP"]
	if !ok {
		t.Fatalf("missing KELP depth")
	}
	if depth.BuyOrders[2020] != 5 || depth.SellOrders[2024] != -5 {
		t.Fatalf("unexpected depth: %+v", depth)
	}
	if state.Position("KELP") != 3 {
		t.Fatalf("position = %d", state.Position("KELP"))
	}
	if len(state.MarketTrades["KELP"]) != 1 {
		t.Fatalf("trades = %+v", state.MarketTrades)
	}
}

func TestParseTickRejectsMalformedFrames(t *testing.T) {
	cases := map[string]string{
		"not json":           `{"timestamp": `,
		"missing depths":     `{"timestamp": 100}`,
		"negative timestamp": `{"timestamp": -1, "order_depths": {}}`,
	}
	for name, raw := range cases {
		if _, err := ParseTick([]byte(raw)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
