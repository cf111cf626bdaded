package domain

// DefaultMinorUnits is the precision used when a currency does not declare one.
const DefaultMinorUnits int32 = 2

// RatePlaces is the number of decimal places an exchange rate may carry.
const RatePlaces int32 = 8

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode" yaml:"code"` // Primary Key (e.g., "USD")
	Symbol       string `json:"symbol" yaml:"symbol"`
	Name         string `json:"name" yaml:"name"`
	MinorUnits   int32  `json:"minorUnits" yaml:"minor_units"`
}

// Precision returns the number of decimal places amounts in this currency carry.
func (c *Currency) Precision() int32 {
	if c.MinorUnits <= 0 {
		return DefaultMinorUnits
	}
	return c.MinorUnits
}
