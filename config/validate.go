package config

import "fmt"

// Validate checks the parts of the config the engine cannot run without.
func Validate(cfg AppConfig) error {
	if len(cfg.Products) == 0 {
		return fmt.Errorf("config: no products configured")
	}
	for symbol, p := range cfg.Products {
		if p.Limit <= 0 {
			return fmt.Errorf("config: product %s: limit must be positive, got %d", symbol, p.Limit)
		}
		switch p.Estimator.Kind {
		case "constant":
			if p.Estimator.Value <= 0 {
				return fmt.Errorf("config: product %s: constant estimator needs a positive value", symbol)
			}
		case "recency":
			// bias may be any value, including zero
		default:
			return fmt.Errorf("config: product %s: unknown estimator kind %q", symbol, p.Estimator.Kind)
		}
	}
	return nil
}
