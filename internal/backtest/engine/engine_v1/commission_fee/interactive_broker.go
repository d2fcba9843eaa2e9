package commission_fee

import "math"

type InteractiveBrokerCommissionFee struct {
}

func NewInteractiveBrokerCommissionFee() CommissionFee {
	return &InteractiveBrokerCommissionFee{}
}

// Calculate uses the tiered per-share pricing with a 1 USD minimum per order.
func (c *InteractiveBrokerCommissionFee) Calculate(price float64, quantity float64) float64 {
	fee := 0.005 * quantity
	if fee < 1.0 {
		return 1.0
	}

	return fee
}

func (c *InteractiveBrokerCommissionFee) MaxQuantity(price float64, cash float64) float64 {
	if price <= 0 {
		return 0
	}

	quantity := math.Floor(cash / price)
	for quantity > 0 && price*quantity+c.Calculate(price, quantity) > cash {
		quantity--
	}

	return quantity
}
