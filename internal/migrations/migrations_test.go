package migrations

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestRunIsIdempotent(t *testing.T) {
	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	require.NoError(t, Run(db))
	require.NoError(t, Run(db))

	var tables []string
	require.NoError(t, db.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`))
	assert.Equal(t, []string{"appointments", "clients", "pets", "products", "profiles", "sale_items", "sales", "services", "stock_movements"}, tables)
}

func TestSaleItemsRequireExactlyOneReference(t *testing.T) {
	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()
	require.NoError(t, Run(db))

	_, err = db.Exec(`INSERT INTO sale_items (id, sale_id, product_id, service_id, quantity, unit_price, total_price, created_at)
		VALUES ('i1', 's1', 'p1', 'sv1', 1, 1, 1, 'now')`)
	assert.Error(t, err)

	_, err = db.Exec(`INSERT INTO sale_items (id, sale_id, quantity, unit_price, total_price, created_at)
		VALUES ('i2', 's1', 1, 1, 1, 'now')`)
	assert.Error(t, err)
}
