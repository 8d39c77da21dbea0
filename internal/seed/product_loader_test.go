package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"petshop/m/internal/migrations"
)

const catalogCSV = `name,brand,barcode,description,cost_price,sell_price,stock_quantity,min_stock
Shampoo Neutro,PetClean,7891000000011,500ml,12.50,25.90,20,5
Coleira M,DogStyle,7891000000028,,18.00,39.90,8,2
Sem Codigo,Marca,,,1.00,2.00,1,1
Preco Ruim,Marca,7891000000035,,abc,2.00,1,1
Curta,Marca
`

func TestLoadProducts(t *testing.T) {
	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()
	require.NoError(t, migrations.Run(db))

	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte(catalogCSV), 0o600))

	n, err := LoadProducts(db, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = LoadProducts(db, path)
	require.NoError(t, err)
	assert.Zero(t, n)

	var stock int64
	require.NoError(t, db.Get(&stock, `SELECT stock_quantity FROM products WHERE barcode = ?`, "7891000000011"))
	assert.Equal(t, int64(20), stock)

	var total int
	require.NoError(t, db.Get(&total, `SELECT COUNT(*) FROM products`))
	assert.Equal(t, 2, total)
}

func TestLoadProductsMissingFile(t *testing.T) {
	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = LoadProducts(db, filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
