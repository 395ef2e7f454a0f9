// Package schema owns the relational schema. Each table is declared once as
// an ordered column list; the same list produces both the CREATE TABLE
// statement and the additive ALTER TABLE pass, so the two can never drift.
package schema

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type column struct {
	name string
	typ  string
}

type table struct {
	name    string
	columns []column
}

// Every table gets an AUTOINCREMENT id and a server-assigned created_at in
// addition to the declared columns.
var tables = []table{
	{
		name: "products",
		columns: []column{
			{"name", "TEXT NOT NULL"},
			{"category", "TEXT"},
			{"price", "REAL"},
		},
	},
	{
		name: "purchases",
		columns: []column{
			{"orderNumber", "TEXT NOT NULL"},
			{"supplier", "TEXT NOT NULL"},
			{"date", "TEXT NOT NULL"},
			{"description", "TEXT NOT NULL"},
			{"birdQuantity", "INTEGER NOT NULL"},
			{"cageQuantity", "INTEGER NOT NULL DEFAULT 0"},
			{"unitCost", "REAL NOT NULL"},
			{"totalValue", "REAL NOT NULL"},
			{"status", "TEXT NOT NULL CHECK(status IN ('pending', 'picked up', 'cancel')) DEFAULT 'pending'"},
			{"notes", "TEXT"},
		},
	},
	{
		name: "sales",
		columns: []column{
			{"saleInvoiceNo", "TEXT"},
			{"shopName", "TEXT"},
			{"ownerName", "TEXT"},
			{"phone", "TEXT"},
			{"address", "TEXT"},
			{"saleMode", "TEXT"},
			{"vehicleNo", "TEXT"},
			{"salePayment", "TEXT"},
			{"notes", "TEXT"},
			{"birdType", "TEXT"},
			{"numberOfCages", "INTEGER"},
			{"numberOfBirds", "INTEGER"},
			{"averageWeight", "REAL"},
			{"totalWeight", "REAL"},
			{"ratePerKg", "REAL"},
			{"totalAmount", "REAL"},
			{"transportCharges", "REAL"},
			{"loadingCharges", "REAL"},
			{"commission", "REAL"},
			{"otherCharges", "REAL"},
			{"deductions", "REAL"},
			{"totalInvoice", "REAL"},
			{"advancePaid", "REAL"},
			{"creditBalance", "REAL"},
			{"totalPaymentMade", "REAL"},
			{"outstandingPayment", "REAL"},
			{"paymentMode", "TEXT"},
			{"balanceAmount", "REAL"},
			{"saleDate", "TEXT"},
		},
	},
}

func (t table) createSQL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", t.name)
	b.WriteString("    id INTEGER PRIMARY KEY AUTOINCREMENT,\n")
	for _, c := range t.columns {
		fmt.Fprintf(&b, "    %s %s,\n", c.name, c.typ)
	}
	b.WriteString("    created_at DATETIME DEFAULT CURRENT_TIMESTAMP\n)")
	return b.String()
}

// Migrate creates missing tables, then appends any column a table does not
// have yet. "duplicate column name" is the expected steady-state outcome and
// is swallowed; any other column failure is logged and the remaining columns
// still run. Idempotent, no transactions; a crash mid-pass heals on the next
// start.
func Migrate(db *sqlx.DB, log *zap.Logger) error {
	for _, t := range tables {
		if _, err := db.Exec(t.createSQL()); err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
		for _, c := range t.columns {
			stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", t.name, c.name, c.typ)
			if _, err := db.Exec(stmt); err != nil {
				if isDuplicateColumn(err) {
					continue
				}
				log.Warn("unable to add column",
					zap.String("table", t.name),
					zap.String("column", c.name),
					zap.Error(err))
			}
		}
	}
	return nil
}

func isDuplicateColumn(err error) bool {
	return strings.Contains(err.Error(), "duplicate column name")
}
