package clients

import (
	"context"
	"time"
)

// Downloader fetches daily OHLCV bars for one ticker and writes them to a CSV
// file the backtest engine can load directly.
type Downloader interface {
	// Download downloads the data for the given ticker and date range and
	// returns the path of the written CSV file.
	// example:
	// Download(ctx, "AAPL", "data", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))
	Download(ctx context.Context, ticker string, toDir string, startDate time.Time, endDate time.Time) (path string, err error)
}
