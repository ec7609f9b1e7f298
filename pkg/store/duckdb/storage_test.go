package duckdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_FileBackedSchemaSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sales.db")

	db, err := NewDB(Settings{DbPath: dbPath})
	require.NoError(t, err)
	require.NotNil(t, db)

	_, err = db.Exec(
		`INSERT INTO sales_records (period, country, region, channel, manufacturer, division, brand, category, segment, value, volume, units, own_brand)
		VALUES (DATE '2023-01-01', 'Country 1', 'Region 1', 'Channel 1', 'Manufacturer 1', 'Division 1', 'Brand 1', 'Category 1', 'Segment 1', 10, 20, 1, true)`,
	)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = NewDB(Settings{DbPath: dbPath, Threads: 2})
	require.NoError(t, err)
	defer func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database connection: %v", err)
		}
	}()

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sales_records WHERE region = ?", "Region 1").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRunInTx_Commit(t *testing.T) {
	db, err := NewDB(Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	path := filepath.Join(t.TempDir(), "rows.csv")
	content := "period,country,region,channel,manufacturer,division,brand,category,segment,value,volume,units,own_brand\n" +
		"2022-05-01,Country 3,Region 2,Channel 3,Manufacturer 3,Division 1,Brand 2,Category 3,Segment 1,7,8,1,false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	var imported int64
	err = RunInTx(context.Background(), db, func(ctx context.Context) error {
		require.NotNil(t, GetTransaction(ctx))
		imported, err = ImportCSV(ctx, db, path)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), imported)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sales_records").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestImportCSV_MissingFile(t *testing.T) {
	db, err := NewDB(Settings{})
	require.NoError(t, err)
	defer db.Close()

	_, err = ImportCSV(context.Background(), db, filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestGetTransaction_Absent(t *testing.T) {
	assert.Nil(t, GetTransaction(context.Background()))
}
