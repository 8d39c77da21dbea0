package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is portable between SQLite and PostgreSQL: ids are UUID text
// generated by the service, timestamps are RFC 3339 text and money is
// NUMERIC(12,2).
var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'funcionario',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		cpf TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL,
		email TEXT,
		address TEXT NOT NULL,
		photo_url TEXT,
		total_spent NUMERIC(12,2),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS pets (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		species TEXT NOT NULL,
		breed TEXT,
		age INTEGER,
		size TEXT,
		medical_notes TEXT,
		photo_url TEXT,
		last_visit TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		brand TEXT,
		barcode TEXT UNIQUE,
		image_url TEXT,
		cost_price NUMERIC(12,2) NOT NULL,
		sell_price NUMERIC(12,2) NOT NULL,
		stock_quantity INTEGER NOT NULL DEFAULT 0,
		min_stock INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS services (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		service_type TEXT NOT NULL,
		base_price NUMERIC(12,2) NOT NULL,
		duration_minutes INTEGER,
		image_url TEXT,
		created_at TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id TEXT PRIMARY KEY,
		pet_id TEXT NOT NULL REFERENCES pets(id),
		service_id TEXT NOT NULL REFERENCES services(id),
		employee_id TEXT REFERENCES profiles(id),
		appointment_date TEXT NOT NULL,
		appointment_time TEXT NOT NULL,
		price NUMERIC(12,2) NOT NULL,
		status TEXT NOT NULL DEFAULT 'agendado',
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL REFERENCES clients(id),
		employee_id TEXT NOT NULL REFERENCES profiles(id),
		total_amount NUMERIC(12,2) NOT NULL,
		discount_amount NUMERIC(12,2) DEFAULT 0,
		final_amount NUMERIC(12,2) NOT NULL,
		payment_method TEXT,
		sale_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS sale_items (
		id TEXT PRIMARY KEY,
		sale_id TEXT NOT NULL REFERENCES sales(id),
		product_id TEXT REFERENCES products(id),
		service_id TEXT REFERENCES services(id),
		quantity INTEGER NOT NULL DEFAULT 1,
		unit_price NUMERIC(12,2) NOT NULL,
		total_price NUMERIC(12,2) NOT NULL,
		created_at TEXT NOT NULL,
		CHECK ((product_id IS NULL) <> (service_id IS NULL))
	);`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL REFERENCES products(id),
		employee_id TEXT REFERENCES profiles(id),
		movement_type TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		reason TEXT,
		reference_id TEXT,
		created_at TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_pets_client ON pets(client_id);`,
	`CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items(sale_id);`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments(appointment_date);`,
}

// Run creates the database schema required by the service.
func Run(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
