package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Config holds application configuration values.
type Config struct {
	Secret          string
	HTTPPort        string
	DatabaseDriver  string
	DatabaseDSN     string
	CORSOrigins     []string
	Env             string
	SeedProductsCSV string
}

// Development reports whether the service runs with development logging.
func (c Config) Development() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables with reasonable defaults.
// A .env file in the working directory is applied first when present.
func Load() Config {
	_ = godotenv.Load()

	secret := os.Getenv("SECRET")
	if secret == "" {
		secret = "dev_secret"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	driver := strings.ToLower(os.Getenv("DATABASE_DRIVER"))
	switch driver {
	case "", DriverSQLite:
		driver = DriverSQLite
	case "postgres", "postgresql", DriverPostgres:
		driver = DriverPostgres
	default:
		log.Printf("unknown DATABASE_DRIVER %q, defaulting to %s", driver, DriverSQLite)
		driver = DriverSQLite
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = defaultDSN(driver)
	}

	origins := []string{"*"}
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		origins = origins[:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "production"
	}

	return Config{
		Secret:          secret,
		HTTPPort:        port,
		DatabaseDriver:  driver,
		DatabaseDSN:     dsn,
		CORSOrigins:     origins,
		Env:             env,
		SeedProductsCSV: os.Getenv("SEED_PRODUCTS_CSV"),
	}
}

func defaultDSN(driver string) string {
	if driver == DriverSQLite {
		return "petshop.db"
	}
	host := getenv("DB_HOST", "localhost")
	user := getenv("DB_USER", "postgres")
	dbPort := getenv("DB_PORT", "5432")
	name := getenv("DB_NAME", "petshop")
	password := os.Getenv("DB_PASSWORD")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, dbPort, name)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
