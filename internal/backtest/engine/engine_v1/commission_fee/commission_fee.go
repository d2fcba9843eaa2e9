package commission_fee

// CommissionFee models the commission charged for one side of a trade.
type CommissionFee interface {
	// Calculate the commission fee for filling the given quantity at the
	// given price and returns the fee in USD
	Calculate(price float64, quantity float64) float64
	// MaxQuantity returns the largest whole number of shares whose notional
	// value plus commission fits within cash.
	MaxQuantity(price float64, cash float64) float64
}

type Broker string

const (
	BrokerFlatRate          Broker = "flat_rate"
	BrokerZero              Broker = "zero_commission"
	BrokerInteractiveBroker Broker = "interactive_broker"
)

var AllBrokers = []any{
	BrokerFlatRate,
	BrokerZero,
	BrokerInteractiveBroker,
}

// GetCommissionFeeHandler returns the fee model for the given broker. The
// rate applies to the flat-rate broker only.
func GetCommissionFeeHandler(broker Broker, rate float64) CommissionFee {
	switch broker {
	case BrokerFlatRate:
		return NewFlatRateCommissionFee(rate)
	case BrokerZero:
		return NewZeroCommissionFee()
	case BrokerInteractiveBroker:
		return NewInteractiveBrokerCommissionFee()
	default:
		return NewFlatRateCommissionFee(rate)
	}
}
