package schema

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableColumns(t *testing.T, db *sqlx.DB, table string) []string {
	t.Helper()
	var cols []string
	require.NoError(t, db.Select(&cols, `SELECT name FROM pragma_table_info(?)`, table))
	return cols
}

func TestMigrateCreatesAllTables(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db, zap.NewNop()))

	assert.ElementsMatch(t,
		[]string{"id", "name", "category", "price", "created_at"},
		tableColumns(t, db, "products"))

	// 29 declared columns plus id and created_at.
	assert.Len(t, tableColumns(t, db, "sales"), 31)
	assert.Contains(t, tableColumns(t, db, "sales"), "paymentMode")
	assert.Contains(t, tableColumns(t, db, "purchases"), "orderNumber")
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db, zap.NewNop()))
	first := tableColumns(t, db, "sales")

	for i := 0; i < 3; i++ {
		require.NoError(t, Migrate(db, zap.NewNop()))
		assert.Equal(t, first, tableColumns(t, db, "sales"))
	}
}

func TestMigrateAddsColumnsToExistingTable(t *testing.T) {
	db := openTestDB(t)

	// An older install that predates every wide column.
	_, err := db.Exec(`CREATE TABLE sales (
	    id INTEGER PRIMARY KEY AUTOINCREMENT,
	    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO sales DEFAULT VALUES`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db, zap.NewNop()))

	cols := tableColumns(t, db, "sales")
	assert.Len(t, cols, 31)
	assert.Contains(t, cols, "saleInvoiceNo")
	assert.Contains(t, cols, "saleDate")

	// The preexisting row survives with NULLs in the new columns.
	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM sales WHERE saleInvoiceNo IS NULL`))
	assert.Equal(t, 1, n)
}
