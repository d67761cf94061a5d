package risk

import (
	"errors"
	"fmt"

	"github.com/mstrvictor/prosperity3/market"
)

var ErrLimitExceeded = errors.New("position limit exceeded")

// CheckOrders verifies that one tick's proposals cannot push the position
// beyond ±limit even if every order fills in full. A correctly implemented
// policy never trips this: a violation is a logic defect, not a runtime
// condition to recover from.
func CheckOrders(symbol string, position, limit int, orders []market.Order) error {
	bought, sold := 0, 0
	for _, o := range orders {
		if o.Quantity > 0 {
			bought += o.Quantity
		} else {
			sold -= o.Quantity
		}
	}
	if position+bought > limit {
		return fmt.Errorf("%w: %s buys %d exceed headroom %d", ErrLimitExceeded, symbol, bought, limit-position)
	}
	if position-sold < -limit {
		return fmt.Errorf("%w: %s sells %d exceed headroom %d", ErrLimitExceeded, symbol, sold, limit+position)
	}
	return nil
}
