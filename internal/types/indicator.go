package types

type IndicatorType string

const (
	IndicatorTypeMA                    IndicatorType = "ma"
	IndicatorTypeEMA                   IndicatorType = "ema"
	IndicatorTypeRSI                   IndicatorType = "rsi"
	IndicatorTypeMACD                  IndicatorType = "macd"
	IndicatorTypeBollingerBands        IndicatorType = "bollinger_bands"
	IndicatorTypeATR                   IndicatorType = "atr"
	IndicatorTypeStochasticOsciallator IndicatorType = "stochastic_oscillator"
	IndicatorTypeWilliamsR             IndicatorType = "williams_r"
)
