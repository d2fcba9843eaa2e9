package parser

// ExampleStrategies are known-good descriptions covering every template the
// parser understands. They double as documentation and as parser test input.
var ExampleStrategies = []string{
	"Buy when stock falls over 9% in one day and sell it 2 days after.",
	"Buy when stock falls over 2%",
	"Buy when RSI falls below 30 and sell when RSI rises above 70.",
	"Buy when RSI is below 25",
	"Buy when the 50-day moving average crosses above the 200-day moving average.",
	"Buy when price drops below the lower Bollinger Band and sell when it reaches the upper band.",
	"Buy when price breaks below Bollinger lower band",
	"Buy when MACD line crosses above the signal line and sell when it crosses below.",
	"Buy when MACD crosses above signal",
	"Buy when stock price increases by 5% over 3 days and sell after 1 week.",
	"Buy when price rises 3% in 5 days",
	"Buy when momentum is strong (price up 10% in 10 days) and sell when momentum weakens.",
	"Buy when price falls 8% in one day, hold for 3 days, then sell.",
	"Buy when price increases by 10% over 7 days",
	"Buy when the fast moving average (20 days) crosses above the slow moving average (50 days).",
	"Buy when 20-day MA crosses above 50-day MA",
	"Buy when stock drops 5% in one day",
	"Buy when price decreases by 3% over 2 days",
	"Buy when RSI is oversold (below 30)",
	"Buy when volume is above average and price increases",
	"Buy when price is above 200-day moving average",
	"Buy when stock falls below support level of $100",
	"Buy when price breaks resistance at $150",
	"Buy when stochastic is below 20",
	"Buy when Williams %R is below -80",
	"Buy when stock falls over 2% and RSI is below 30",
	"Buy when stock falls over 2% and RSI is below 100",
	"Buy when price drops 3% and volume is above average",
	"Buy when RSI is below 25 and price is above 50-day MA",
	"Buy when MACD crosses above signal and price increases by 2%",
	"Buy when stock falls over 5% and Bollinger Band is at lower level",
}
