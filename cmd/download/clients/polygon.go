package clients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb"
	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/schollz/progressbar/v3"
)

type PolygonClient struct {
	client *polygon.Client
}

func NewPolygonClient() (*PolygonClient, error) {
	apiKey := os.Getenv("POLYGON_API_KEY")
	if apiKey == "" {
		return nil, errors.New("POLYGON_API_KEY is not set")
	}

	return &PolygonClient{
		client: polygon.New(apiKey),
	}, nil
}

func (c *PolygonClient) csvFileName(ticker string, startDate time.Time, endDate time.Time) string {
	return fmt.Sprintf("%s_%s_%s.csv", ticker, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
}

// Download implements Downloader. The daily aggregates are staged in a
// temporary DuckDB database and exported as CSV with a header row, which is
// the layout the engine's data source expects.
func (c *PolygonClient) Download(ctx context.Context, ticker string, toDir string, startDate time.Time, endDate time.Time) (string, error) {
	if err := os.MkdirAll(toDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tempDBName := filepath.Join(toDir, "temp.duckdb")
	outputFilePath := filepath.Join(toDir, c.csvFileName(ticker, startDate, endDate))

	db, err := sql.Open("duckdb", tempDBName)
	if err != nil {
		return "", fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	defer func() {
		db.Close()
		os.Remove(tempDBName)
	}()

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS market_data (
			time TIMESTAMP,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE
		)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to create table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO market_data (time, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()

		return "", fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	params := models.ListAggsParams{
		Ticker:     ticker,
		From:       models.Millis(startDate),
		To:         models.Millis(endDate),
		Multiplier: 1,
		Timespan:   models.Day,
	}

	bar := progressbar.Default(-1, fmt.Sprintf("Downloading %s", ticker))
	iter := c.client.ListAggs(ctx, &params)

	for iter.Next() {
		agg := iter.Item()

		_, err := stmt.Exec(
			time.Time(agg.Timestamp),
			agg.Open,
			agg.High,
			agg.Low,
			agg.Close,
			agg.Volume,
		)
		if err != nil {
			tx.Rollback()

			return "", fmt.Errorf("failed to insert data: %w", err)
		}

		bar.Add(1)
	}

	if iter.Err() != nil {
		tx.Rollback()

		return "", iter.Err()
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	_, err = db.Exec(fmt.Sprintf(`COPY (SELECT * FROM market_data ORDER BY time) TO '%s' (FORMAT CSV, HEADER)`, outputFilePath))
	if err != nil {
		return "", fmt.Errorf("failed to export to CSV: %w", err)
	}

	return outputFilePath, nil
}
