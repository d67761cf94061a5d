package strategy

import (
	"errors"

	"github.com/mstrvictor/prosperity3/market"
)

// Estimator produces the policy's fair-price signal for one tick. When
// tradable is false the signal is unreliable: the policy must not cross the
// book on it and may only use the value as a liquidation reference.
type Estimator interface {
	Estimate(state *market.TickState) (value float64, tradable bool)
}

// Estimator kinds selectable per product.
const (
	EstimatorConstant = "constant"
	EstimatorRecency  = "recency"
)

// NewEstimator builds the estimator variant for a product. The set is
// closed: a product is either quoted off a fixed value or off its
// recency-weighted trade flow.
func NewEstimator(kind, symbol string, value, bias float64) (Estimator, error) {
	switch kind {
	case EstimatorConstant:
		return ConstantValue{Value: value}, nil
	case EstimatorRecency:
		return RecencyWeighted{Symbol: symbol, Bias: bias}, nil
	default:
		return nil, errors.New("unknown estimator kind: " + kind)
	}
}

// ConstantValue always returns a fixed fair price.
type ConstantValue struct {
	Value float64
}

func (c ConstantValue) Estimate(*market.TickState) (float64, bool) {
	return c.Value, true
}

// RecencyWeighted averages this tick's market trades for one product with
// weights that decay as trades age: w = (now-ts)/100 + 1.
type RecencyWeighted struct {
	Symbol string
	Bias   float64
}

func (r RecencyWeighted) Estimate(state *market.TickState) (float64, bool) {
	trades := state.MarketTrades[r.Symbol]
	if len(trades) < 2 {
		return 0, false
	}
	var weightedPrice, weightedQty float64
	for _, t := range trades {
		w := float64(state.Timestamp-t.Timestamp)/100 + 1
		weightedPrice += float64(t.Price) * float64(t.Quantity) * w
		weightedQty += float64(t.Quantity) * w
	}
	if weightedQty == 0 {
		return 0, false
	}
	return weightedPrice/weightedQty + r.Bias, true
}
