package gateway

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mstrvictor/prosperity3/market"
)

// ParseTick decodes one feed frame into a tick snapshot. The feed sends one
// JSON object per tick in the market.TickState shape.
func ParseTick(raw []byte) (*market.TickState, error) {
	var state market.TickState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode tick frame: %w", err)
	}
	if state.Timestamp < 0 {
		return nil, fmt.Errorf("tick frame: negative timestamp %d", state.Timestamp)
	}
	if state.OrderDepths == nil {
		return nil, errors.New("tick frame: missing order_depths")
	}
	return &state, nil
}
