package datasource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/strategy-backtest/internal/logger"
	"github.com/stretchr/testify/suite"
)

type DuckDBDataSourceTestSuite struct {
	suite.Suite
	source DataSource
}

func TestDuckDBDataSourceSuite(t *testing.T) {
	suite.Run(t, new(DuckDBDataSourceTestSuite))
}

func (suite *DuckDBDataSourceTestSuite) SetupTest() {
	log, err := logger.NewLogger()
	suite.Require().NoError(err)

	source, err := NewDuckDBDataSource(log)
	suite.Require().NoError(err)
	suite.source = source
}

func (suite *DuckDBDataSourceTestSuite) TearDownTest() {
	suite.NoError(suite.source.Close())
}

func (suite *DuckDBDataSourceTestSuite) writeCSV(content string) string {
	path := filepath.Join(suite.T().TempDir(), "data.csv")
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0644))

	return path
}

func (suite *DuckDBDataSourceTestSuite) TestReadAllOrdersByTime() {
	// Rows are deliberately out of order.
	path := suite.writeCSV(`time,open,high,low,close,volume
2024-01-03,103,104,102,103.5,1200
2024-01-01,100,101,99,100.5,1000
2024-01-02,101,102,100,101.5,1100
`)

	suite.Require().NoError(suite.source.Initialize(path))

	points, err := suite.source.ReadAll()
	suite.Require().NoError(err)
	suite.Require().Len(points, 3)

	suite.Equal("2024-01-01", points[0].Time.Format("2006-01-02"))
	suite.Equal("2024-01-02", points[1].Time.Format("2006-01-02"))
	suite.Equal("2024-01-03", points[2].Time.Format("2006-01-02"))
	suite.InDelta(100.5, points[0].Close, 1e-9)
	suite.InDelta(1000.0, points[0].Volume, 1e-9)
}

func (suite *DuckDBDataSourceTestSuite) TestReadAllDropsInvalidCloses() {
	path := suite.writeCSV(`time,open,high,low,close,volume
2024-01-01,100,101,99,100.5,1000
2024-01-02,101,102,100,0,1100
2024-01-03,103,104,102,103.5,1200
`)

	suite.Require().NoError(suite.source.Initialize(path))

	points, err := suite.source.ReadAll()
	suite.Require().NoError(err)
	suite.Require().Len(points, 2)
	suite.InDelta(100.5, points[0].Close, 1e-9)
	suite.InDelta(103.5, points[1].Close, 1e-9)
}

func (suite *DuckDBDataSourceTestSuite) TestCountMatchesReadAll() {
	path := suite.writeCSV(`time,open,high,low,close,volume
2024-01-01,100,101,99,100.5,1000
2024-01-02,101,102,100,0,1100
2024-01-03,103,104,102,103.5,1200
`)

	suite.Require().NoError(suite.source.Initialize(path))

	count, err := suite.source.Count()
	suite.Require().NoError(err)
	suite.Equal(2, count)
}

func (suite *DuckDBDataSourceTestSuite) TestInitializeMissingFile() {
	suite.Error(suite.source.Initialize(filepath.Join(suite.T().TempDir(), "missing.csv")))
}
