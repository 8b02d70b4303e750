package ifta

// Config contains the reconciliation arithmetic parameters.
type Config struct {
	// FallbackEconomy is the miles-per-gallon figure used when a fleet
	// average cannot be computed (zero miles or zero purchased gallons).
	FallbackEconomy float64

	// Tolerance is the absolute gallon difference below which a
	// purchases-vs-trips mismatch is not reported as a discrepancy.
	Tolerance float64
}

// DefaultConfig returns the default reconciliation parameters.
func DefaultConfig() Config {
	return Config{
		FallbackEconomy: 6.0,   // domain default, do not change without product input
		Tolerance:       0.001, // gallons
	}
}
