// Package store implements the corpus document store over PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/grantwell/grantsearch/internal/grants"
	"github.com/grantwell/grantsearch/pkg/errors"
	"github.com/grantwell/grantsearch/pkg/postgres"
)

const selectColumns = `id, title, description, keywords, agency, amount_min, amount_max, deadline, last_updated`

// Postgres reads grant documents from a `grants` table:
//
//	CREATE TABLE grants (
//	    id           BIGSERIAL PRIMARY KEY,
//	    title        TEXT NOT NULL,
//	    description  TEXT,
//	    keywords     TEXT,
//	    agency       TEXT,
//	    amount_min   NUMERIC,
//	    amount_max   NUMERIC,
//	    deadline     TIMESTAMPTZ,
//	    last_updated TIMESTAMPTZ
//	);
type Postgres struct {
	db     *postgres.Client
	logger *slog.Logger
}

// NewPostgres creates a store backed by the given client.
func NewPostgres(db *postgres.Client) *Postgres {
	return &Postgres{
		db:     db,
		logger: slog.Default().With("component", "grant-store"),
	}
}

// GetAllDocuments returns the full corpus snapshot. A row that fails to scan
// is skipped and logged rather than aborting the read; one malformed
// document must not take down scoring of the rest.
func (s *Postgres) GetAllDocuments(ctx context.Context) ([]grants.Document, error) {
	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM grants ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying grants: %w", err)
	}
	defer rows.Close()

	var docs []grants.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			s.logger.Warn("skipping unreadable grant row", "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return docs, fmt.Errorf("iterating grants: %w", err)
	}
	return docs, nil
}

// GetDocumentByID returns a single document or ErrDocumentNotFound.
func (s *Postgres) GetDocumentByID(ctx context.Context, id int64) (grants.Document, error) {
	row := s.db.DB.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM grants WHERE id = $1`, id,
	)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return grants.Document{}, errors.Newf(errors.ErrDocumentNotFound, 404, "grant %d", id)
	}
	if err != nil {
		return grants.Document{}, fmt.Errorf("querying grant %d: %w", id, err)
	}
	return doc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (grants.Document, error) {
	var (
		doc         grants.Document
		description sql.NullString
		keywords    sql.NullString
		agency      sql.NullString
		amountMin   sql.NullFloat64
		amountMax   sql.NullFloat64
		deadline    sql.NullTime
		lastUpdated sql.NullTime
	)
	err := row.Scan(
		&doc.ID, &doc.Title, &description, &keywords, &agency,
		&amountMin, &amountMax, &deadline, &lastUpdated,
	)
	if err != nil {
		return grants.Document{}, err
	}
	doc.Description = description.String
	doc.Keywords = keywords.String
	doc.Agency = agency.String
	doc.AmountMin = amountMin.Float64
	doc.AmountMax = amountMax.Float64
	if deadline.Valid {
		doc.Deadline = deadline.Time
	}
	if lastUpdated.Valid {
		doc.LastUpdated = lastUpdated.Time
	}
	return doc, nil
}
