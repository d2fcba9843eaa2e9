package commission_fee

import "math"

type ZeroCommissionFee struct {
}

func NewZeroCommissionFee() CommissionFee {
	return &ZeroCommissionFee{}
}

func (c *ZeroCommissionFee) Calculate(price float64, quantity float64) float64 {
	return 0
}

func (c *ZeroCommissionFee) MaxQuantity(price float64, cash float64) float64 {
	if price <= 0 {
		return 0
	}

	return math.Floor(cash / price)
}
