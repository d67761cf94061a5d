// Package sim replays recorded tick snapshots through the trader offline.
package sim

import (
	"errors"
	"fmt"

	"github.com/mstrvictor/prosperity3/market"
	"github.com/mstrvictor/prosperity3/risk"
	"github.com/mstrvictor/prosperity3/trader"
)

// Runner feeds snapshots through the trader with a naive full-fill model:
// every emitted order is assumed to fill completely. The runner owns
// position bookkeeping and overwrites each snapshot's positions and
// trader-data blob with the carried values.
type Runner struct {
	Trader *trader.Trader
	Limits map[string]int // per-product position limits to enforce
}

// Result summarizes one replay.
type Result struct {
	Positions  map[string]int
	TraderData string
	Orders     []map[string][]market.Order // per tick
}

// Replay runs the ticks in order, carrying blob and positions across them.
// It fails on the first tick whose orders could breach a position limit;
// that is a policy defect, not a market condition.
func (r *Runner) Replay(ticks []*market.TickState) (*Result, error) {
	if r.Trader == nil {
		return nil, errors.New("runner not initialized")
	}
	positions := make(map[string]int)
	blob := ""
	result := &Result{}

	for i, tick := range ticks {
		tick.TraderData = blob
		if tick.Positions == nil {
			tick.Positions = make(map[string]int)
		}
		for symbol, p := range positions {
			tick.Positions[symbol] = p
		}

		orders, _, newBlob := r.Trader.Run(tick)
		for symbol, list := range orders {
			if limit, ok := r.Limits[symbol]; ok {
				if err := risk.CheckOrders(symbol, tick.Positions[symbol], limit, list); err != nil {
					return nil, fmt.Errorf("tick %d: %w", i, err)
				}
			}
			for _, o := range list {
				positions[symbol] += o.Quantity
			}
		}

		blob = newBlob
		result.Orders = append(result.Orders, orders)
	}

	result.Positions = positions
	result.TraderData = blob
	return result, nil
}
