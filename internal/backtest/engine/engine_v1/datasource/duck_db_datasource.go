package datasource

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/strategy-backtest/internal/logger"
	"github.com/rxtech-lab/strategy-backtest/internal/types"
	"go.uber.org/zap"
)

type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewDuckDBDataSource creates an in-memory DuckDB instance used to query CSV
// market data files. Call Initialize to point it at a file.
func NewDuckDBDataSource(logger *logger.Logger) (DataSource, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	return &DuckDBDataSource{db: db, logger: logger}, nil
}

// Initialize implements DataSource.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", path))

	// Create a view over the CSV file; column names and types come from the
	// header row.
	query := fmt.Sprintf(`
		CREATE OR REPLACE VIEW market_data AS
		SELECT * FROM read_csv_auto('%s');
	`, path)

	if _, err := d.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create market data view: %w", err)
	}

	return nil
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count() (int, error) {
	query, args, err := sq.Select("COUNT(*)").
		From("market_data").
		Where(sq.Gt{`"close"`: 0}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := d.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count market data: %w", err)
	}

	return count, nil
}

// ReadAll implements DataSource.
func (d *DuckDBDataSource) ReadAll() ([]types.PricePoint, error) {
	query, args, err := sq.Select(`"time"`, `"open"`, `"high"`, `"low"`, `"close"`, `"volume"`).
		From("market_data").
		Where(sq.Gt{`"close"`: 0}).
		OrderBy(`"time" ASC`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build read query: %w", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read market data: %w", err)
	}
	defer rows.Close()

	var points []types.PricePoint

	for rows.Next() {
		var point types.PricePoint
		if err := rows.Scan(&point.Time, &point.Open, &point.High, &point.Low, &point.Close, &point.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan market data row: %w", err)
		}

		points = append(points, point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate market data rows: %w", err)
	}

	d.logger.Debug("Market data loaded", zap.Int("bars", len(points)))

	return points, nil
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	return d.db.Close()
}
