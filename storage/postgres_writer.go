package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/utils"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS properties (
	id            SERIAL PRIMARY KEY,
	address       TEXT NOT NULL,
	suburb        TEXT NOT NULL DEFAULT '',
	price         TEXT NOT NULL DEFAULT '',
	price_numeric DOUBLE PRECISION,
	bedrooms      INT NOT NULL DEFAULT 0,
	bathrooms     INT NOT NULL DEFAULT 0,
	parking       INT NOT NULL DEFAULT 0,
	property_type TEXT NOT NULL DEFAULT '',
	source        TEXT NOT NULL DEFAULT '',
	link          TEXT NOT NULL UNIQUE,
	features      TEXT[] NOT NULL DEFAULT '{}',
	scraped_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_properties_suburb ON properties (suburb);
CREATE INDEX IF NOT EXISTS idx_properties_source ON properties (source);
`

// PostgresWriter persists property records to PostgreSQL. Records are
// upserted on their listing link so re-running a query refreshes rows
// instead of duplicating them.
type PostgresWriter struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresWriter connects, verifies the connection and ensures the
// schema exists.
func NewPostgresWriter(dsn string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ping := &utils.RetryConfig{MaxAttempts: 3, BaseDelay: time.Second, Logger: logger}
	if err := ping.Do("postgres ping", db.Ping); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: ping postgres: %w", err)
	}

	w := &PostgresWriter{db: db, logger: logger}
	if err := w.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("[storage] Connected to PostgreSQL")
	return w, nil
}

func (w *PostgresWriter) migrate() error {
	if _, err := w.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("storage: migrate schema: %w", err)
	}
	return nil
}

// WriteRaw upserts all records in one transaction.
func (w *PostgresWriter) WriteRaw(properties []*models.Property) error {
	if len(properties) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO properties
			(address, suburb, price, price_numeric, bedrooms, bathrooms,
			 parking, property_type, source, link, features, scraped_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (link) DO UPDATE SET
			price = EXCLUDED.price,
			price_numeric = EXCLUDED.price_numeric,
			features = EXCLUDED.features,
			scraped_at = EXCLUDED.scraped_at`)
	if err != nil {
		return fmt.Errorf("storage: prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, p := range properties {
		if strings.TrimSpace(p.Link) == "" {
			continue
		}
		var priceNumeric sql.NullFloat64
		if p.HasNumericPrice() {
			priceNumeric = sql.NullFloat64{Float64: *p.PriceNumeric, Valid: true}
		}
		if _, err := stmt.Exec(
			p.Address, p.Suburb, p.Price, priceNumeric,
			p.Bedrooms, p.Bathrooms, p.Parking,
			p.PropertyType, p.Source, p.Link,
			pq.Array(p.Features), p.ScrapedAt,
		); err != nil {
			return fmt.Errorf("storage: insert %q: %w", p.Link, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit: %w", err)
	}

	w.logger.Info("[storage] Upserted %d record(s) to PostgreSQL", inserted)
	return nil
}

// FetchAll returns every stored record, most recently scraped first.
func (w *PostgresWriter) FetchAll() ([]*models.Property, error) {
	rows, err := w.db.Query(`
		SELECT address, suburb, price, price_numeric, bedrooms, bathrooms,
		       parking, property_type, source, link, features, scraped_at
		FROM properties
		ORDER BY scraped_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("storage: query properties: %w", err)
	}
	defer rows.Close()

	var properties []*models.Property
	for rows.Next() {
		p := &models.Property{}
		var priceNumeric sql.NullFloat64
		var features pq.StringArray

		if err := rows.Scan(
			&p.Address, &p.Suburb, &p.Price, &priceNumeric,
			&p.Bedrooms, &p.Bathrooms, &p.Parking,
			&p.PropertyType, &p.Source, &p.Link,
			&features, &p.ScrapedAt,
		); err != nil {
			return nil, fmt.Errorf("storage: scan property: %w", err)
		}
		if priceNumeric.Valid {
			p.PriceNumeric = models.Float64(priceNumeric.Float64)
		}
		p.Features = []string(features)
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate properties: %w", err)
	}
	return properties, nil
}

// Clear removes all stored records.
func (w *PostgresWriter) Clear() error {
	if _, err := w.db.Exec(`TRUNCATE properties RESTART IDENTITY`); err != nil {
		return fmt.Errorf("storage: clear properties: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (w *PostgresWriter) Close() error {
	return w.db.Close()
}
