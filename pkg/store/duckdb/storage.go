package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/marcboeker/go-duckdb/v2"
)

const SalesTable = "sales_records"

const SalesTableSchema = `
	CREATE TABLE IF NOT EXISTS sales_records (
		period DATE NOT NULL,
		country VARCHAR NOT NULL,
		region VARCHAR NOT NULL,
		channel VARCHAR NOT NULL,
		manufacturer VARCHAR NOT NULL,
		division VARCHAR NOT NULL,
		brand VARCHAR NOT NULL,
		category VARCHAR NOT NULL,
		segment VARCHAR NOT NULL,
		value DOUBLE NOT NULL,
		volume DOUBLE NOT NULL,
		units DOUBLE NOT NULL,
		own_brand BOOLEAN NOT NULL
	);
`

const SalesPeriodIndex = `
	CREATE INDEX IF NOT EXISTS sales_records_period_idx ON sales_records (period);
`

var bootQueries = []string{
	SalesTableSchema,
	SalesPeriodIndex,
}

type Settings struct {
	DbPath  string
	Threads int
}

func NewDB(settings Settings) (*sql.DB, error) {
	threads := settings.Threads
	if threads <= 0 {
		threads = 4
	}
	dsn := fmt.Sprintf("%s?threads=%d", settings.DbPath, threads)
	if settings.DbPath == ":memory:" || settings.DbPath == "" {
		dsn = fmt.Sprintf("?threads=%d", threads)
	}

	c, err := duckdb.NewConnector(dsn, func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sql.OpenDB(c), nil
}

// ImportCSV appends the rows of a headered CSV file whose columns are named
// like the sales_records columns. It returns the number of rows inserted.
func ImportCSV(ctx context.Context, db *sql.DB, path string) (int64, error) {
	columns := "period, country, region, channel, manufacturer, division, brand, category, segment, value, volume, units, own_brand"
	query := fmt.Sprintf(
		`INSERT INTO %s (%s) SELECT %s FROM read_csv_auto('%s', header = true)`,
		SalesTable, columns, columns, strings.ReplaceAll(path, "'", "''"),
	)

	var (
		res sql.Result
		err error
	)
	if tx := GetTransaction(ctx); tx != nil {
		res, err = tx.ExecContext(ctx, query)
	} else {
		res, err = db.ExecContext(ctx, query)
	}
	if err != nil {
		return 0, fmt.Errorf("import csv %s: %w", path, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
