package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Product CSV columns, after a header row:
// name, brand, barcode, description, cost_price, sell_price, stock_quantity, min_stock
const productColumns = 8

// LoadProducts ingests the CSV into the products table. Rows are keyed by
// barcode; rows without one, or whose barcode is already stored, are
// skipped. It returns the number of products inserted.
func LoadProducts(db *sqlx.DB, csvPath string) (int, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return 0, fmt.Errorf("open product catalog %s: %w", csvPath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	// Skip header
	if _, err := reader.Read(); err != nil {
		return 0, fmt.Errorf("read product header: %w", err)
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("start product import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(tx.Rebind(`INSERT INTO products (id, name, description, brand, barcode, image_url, cost_price, sell_price, stock_quantity, min_stock, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NULL, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (barcode) DO NOTHING`))
	if err != nil {
		return 0, fmt.Errorf("prepare product insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	rows := 0
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			zap.L().Warn("skip unreadable product row", zap.Int("line", line), zap.Error(err))
			continue
		}
		row, err := parseProduct(record)
		if err != nil {
			zap.L().Warn("skip invalid product row", zap.Int("line", line), zap.Error(err))
			continue
		}

		res, err := stmt.Exec(uuid.New(), row.name, row.description, row.brand, row.barcode,
			row.costPrice, row.sellPrice, row.stock, row.minStock, now, now)
		if err != nil {
			zap.L().Warn("unable to insert product", zap.String("name", row.name), zap.Error(err))
			continue
		}
		if n, _ := res.RowsAffected(); n > 0 {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit product import: %w", err)
	}
	zap.L().Info("seeded product catalog", zap.String("path", csvPath), zap.Int("rows", rows))
	return rows, nil
}

type productRow struct {
	name        string
	brand       *string
	barcode     string
	description *string
	costPrice   decimal.Decimal
	sellPrice   decimal.Decimal
	stock       int64
	minStock    int64
}

func parseProduct(record []string) (productRow, error) {
	if len(record) < productColumns {
		return productRow{}, fmt.Errorf("expected %d columns, got %d", productColumns, len(record))
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	row := productRow{
		name:        record[0],
		brand:       optional(record[1]),
		barcode:     record[2],
		description: optional(record[3]),
	}
	if row.name == "" || row.barcode == "" {
		return productRow{}, errors.New("name and barcode are required")
	}

	var err error
	if row.costPrice, err = decimal.NewFromString(record[4]); err != nil {
		return productRow{}, fmt.Errorf("cost_price: %w", err)
	}
	if row.sellPrice, err = decimal.NewFromString(record[5]); err != nil {
		return productRow{}, fmt.Errorf("sell_price: %w", err)
	}
	if row.costPrice.IsNegative() || row.sellPrice.IsNegative() {
		return productRow{}, errors.New("prices must not be negative")
	}
	if row.stock, err = strconv.ParseInt(record[6], 10, 64); err != nil || row.stock < 0 {
		return productRow{}, fmt.Errorf("invalid stock_quantity %q", record[6])
	}
	if row.minStock, err = strconv.ParseInt(record[7], 10, 64); err != nil || row.minStock < 0 {
		return productRow{}, fmt.Errorf("invalid min_stock %q", record[7])
	}
	return row, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
