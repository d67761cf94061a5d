package strategy

import (
	"encoding/json"

	"github.com/mstrvictor/prosperity3/market"
)

// Strategy is the per-product decision contract. Run returns this tick's
// orders; Save and Load carry the strategy's cross-tick payload through the
// trader-data blob, which is its only channel of memory between ticks.
type Strategy interface {
	Symbol() string
	Run(state *market.TickState) []market.Order
	Save() (json.RawMessage, error)
	Load(data json.RawMessage) error
}
