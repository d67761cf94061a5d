// Package monitor builds the compact per-tick record consumed by the
// offline replay viewer. The engine supplies the snapshot, orders,
// conversion count and new state blob; all formatting and size truncation
// happens here.
package monitor

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mstrvictor/prosperity3/market"
)

// maxRecordLength is the viewer's hard per-tick size budget in bytes.
const maxRecordLength = 3750

// Recorder writes one JSON array per tick:
// [state, orders, conversions, traderData, notes]. The three free-text
// fields share whatever budget the fixed fields leave over.
type Recorder struct {
	out   io.Writer
	log   *zap.Logger
	notes strings.Builder
}

func NewRecorder(out io.Writer, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{out: out, log: log}
}

// Print appends free-form diagnostic text to the current tick's record.
// The buffer is scoped to the tick and cleared by Record.
func (r *Recorder) Print(args ...any) {
	fmt.Fprintln(&r.notes, args...)
}

// Record emits the tick's record and resets the note buffer.
func (r *Recorder) Record(state *market.TickState, orders map[string][]market.Order, conversions int, traderData string) {
	base := encode([]any{
		compressState(state, ""),
		compressOrders(orders),
		conversions,
		"",
		"",
	})

	// Prior blob, new blob and notes split the remaining budget evenly.
	maxItem := (maxRecordLength - len(base)) / 3

	line := encode([]any{
		compressState(state, truncate(state.TraderData, maxItem)),
		compressOrders(orders),
		conversions,
		truncate(traderData, maxItem),
		truncate(r.notes.String(), maxItem),
	})
	r.notes.Reset()

	if _, err := fmt.Fprintln(r.out, line); err != nil {
		r.log.Error("write tick record", zap.Error(err))
	}
}

func compressState(state *market.TickState, traderData string) []any {
	return []any{
		state.Timestamp,
		traderData,
		compressListings(state.Listings),
		compressDepths(state.OrderDepths),
		compressTrades(state.OwnTrades),
		compressTrades(state.MarketTrades),
		state.Positions,
		compressObservations(state.Observations),
	}
}

func compressListings(listings map[string]market.Listing) [][]any {
	compressed := make([][]any, 0, len(listings))
	for _, symbol := range sortedKeys(listings) {
		l := listings[symbol]
		compressed = append(compressed, []any{l.Symbol, l.Product, l.Denomination})
	}
	return compressed
}

func compressDepths(depths map[string]market.OrderDepth) map[string][]any {
	compressed := make(map[string][]any, len(depths))
	for symbol, depth := range depths {
		compressed[symbol] = []any{depth.BuyOrders, depth.SellOrders}
	}
	return compressed
}

func compressTrades(trades map[string][]market.Trade) [][]any {
	var compressed [][]any
	for _, symbol := range sortedKeys(trades) {
		for _, t := range trades[symbol] {
			compressed = append(compressed, []any{t.Symbol, t.Price, t.Quantity, t.Buyer, t.Seller, t.Timestamp})
		}
	}
	if compressed == nil {
		compressed = [][]any{}
	}
	return compressed
}

func compressObservations(obs market.Observation) []any {
	conversions := make(map[string][]float64, len(obs.Conversions))
	for product, c := range obs.Conversions {
		conversions[product] = []float64{
			c.BidPrice, c.AskPrice, c.TransportFees,
			c.ExportTariff, c.ImportTariff, c.SugarPrice, c.SunlightIndex,
		}
	}
	return []any{obs.PlainValues, conversions}
}

func compressOrders(orders map[string][]market.Order) [][]any {
	var compressed [][]any
	for _, symbol := range sortedKeys(orders) {
		for _, o := range orders[symbol] {
			compressed = append(compressed, []any{o.Symbol, o.Price, o.Quantity})
		}
	}
	if compressed == nil {
		compressed = [][]any{}
	}
	return compressed
}

func encode(value any) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

func truncate(value string, maxLength int) string {
	if len(value) <= maxLength {
		return value
	}
	if maxLength < 3 {
		return ""
	}
	return value[:maxLength-3] + "..."
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
