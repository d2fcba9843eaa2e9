package commission_fee

import "math"

// DefaultFlatRate is the symmetric per-side commission rate used when the
// configuration does not specify one.
const DefaultFlatRate = 0.001

type FlatRateCommissionFee struct {
	rate float64
}

func NewFlatRateCommissionFee(rate float64) CommissionFee {
	if rate < 0 {
		rate = DefaultFlatRate
	}

	return &FlatRateCommissionFee{rate: rate}
}

func (c *FlatRateCommissionFee) Calculate(price float64, quantity float64) float64 {
	return price * quantity * c.rate
}

func (c *FlatRateCommissionFee) MaxQuantity(price float64, cash float64) float64 {
	if price <= 0 {
		return 0
	}

	return math.Floor(cash / (price * (1 + c.rate)))
}
