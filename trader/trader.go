package trader

import (
	"encoding/json"
	"sort"

	"github.com/mstrvictor/prosperity3/market"
	"github.com/mstrvictor/prosperity3/strategy"
)

// Sink consumes one tick's full diagnostic record: the inbound snapshot, the
// emitted orders, the conversion count and the new state blob. It owns all
// formatting and truncation; the trader only supplies the values.
type Sink interface {
	Record(state *market.TickState, orders map[string][]market.Order, conversions int, traderData string)
}

// Trader fans each tick out to the per-product strategies and carries their
// persisted payloads through the trader-data blob. Strategies hold no
// cross-tick memory outside the blob: payloads are reloaded from it at every
// tick start and re-saved at tick end.
type Trader struct {
	symbols    []string
	strategies map[string]strategy.Strategy
	sink       Sink
}

// New builds a trader over the given strategies. Products are processed in
// sorted symbol order so output is deterministic. sink may be nil.
func New(strategies []strategy.Strategy, sink Sink) *Trader {
	bySymbol := make(map[string]strategy.Strategy, len(strategies))
	symbols := make([]string, 0, len(strategies))
	for _, s := range strategies {
		bySymbol[s.Symbol()] = s
		symbols = append(symbols, s.Symbol())
	}
	sort.Strings(symbols)
	return &Trader{symbols: symbols, strategies: bySymbol, sink: sink}
}

// Run processes one tick: restore each product's payload from the inbound
// blob, run its policy if the snapshot carries its order depth, and collect
// orders plus the re-serialized blob. Conversions are reserved and always 0.
func (t *Trader) Run(state *market.TickState) (map[string][]market.Order, int, string) {
	prior := decodeBlob(state.TraderData)
	next := make(map[string]json.RawMessage, len(t.symbols))
	orders := make(map[string][]market.Order)

	for _, symbol := range t.symbols {
		strat := t.strategies[symbol]
		payload, hadPrior := prior[symbol]
		// A missing or malformed entry means a fresh start for the
		// product, never a failed tick.
		_ = strat.Load(payload)

		_, present := state.OrderDepths[symbol]
		if present {
			orders[symbol] = strat.Run(state)
		}
		if present || hadPrior {
			if saved, err := strat.Save(); err == nil {
				next[symbol] = saved
			}
		}
	}

	conversions := 0
	blob := encodeBlob(next)
	if t.sink != nil {
		t.sink.Record(state, orders, conversions, blob)
	}
	return orders, conversions, blob
}

// decodeBlob parses the previous tick's blob. Empty or malformed input is
// treated as no prior state for any product.
func decodeBlob(blob string) map[string]json.RawMessage {
	if blob == "" {
		return nil
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal([]byte(blob), &decoded); err != nil {
		return nil
	}
	return decoded
}

func encodeBlob(payloads map[string]json.RawMessage) string {
	encoded, err := json.Marshal(payloads)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}
