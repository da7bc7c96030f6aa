// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists entities and their contact rosters in SQLite.
//
// The enrichment pipeline never talks to SQL: it sees the EntityStore
// interface, computes the next roster value as a pure function, and
// hands it back for an atomic replace. Roster replacement runs inside a
// single transaction, so concurrent enrichment calls on the same entity
// serialize at the database instead of racing a read-modify-write.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/pkg/types"
)

// EntityStore is the boundary the pipeline depends on.
type EntityStore interface {
	GetEntityContacts(ctx context.Context, entityType types.EntityType, entityID string) (types.EntityInfo, error)
	ReplaceEntityContacts(ctx context.Context, entityType types.EntityType, entityID string, contacts []types.ContactRecord) ([]types.ContactRecord, error)
	AddSingleContact(ctx context.Context, entityType types.EntityType, entityID string, contact types.ContactRecord) error
}

// Store is the SQLite implementation of EntityStore.
type Store struct {
	db          *sql.DB
	snapshotDir string
}

// Open opens or creates the database at cfg.DBPath and ensures the
// schema exists.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = "prospector.db"
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, snapshotDir: cfg.SnapshotDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entities (
			type TEXT NOT NULL,
			id TEXT NOT NULL,
			company_name TEXT NOT NULL DEFAULT '',
			company_website TEXT NOT NULL DEFAULT '',
			parent_company TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (type, id)
		)`,
		`CREATE TABLE IF NOT EXISTS contacts (
			row_id TEXT PRIMARY KEY,
			entity_type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			linkedin_url TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL,
			confidence REAL NOT NULL,
			FOREIGN KEY (entity_type, entity_id) REFERENCES entities(type, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_entity ON contacts(entity_type, entity_id, position)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// UpsertEntity creates or updates an entity's identifying attributes.
// The contact roster is untouched.
func (s *Store) UpsertEntity(ctx context.Context, info types.EntityInfo) error {
	if info.Type == "" || info.ID == "" {
		return fmt.Errorf("entity type and id are required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entities (type, id, company_name, company_website, parent_company)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (type, id) DO UPDATE SET
			company_name = excluded.company_name,
			company_website = excluded.company_website,
			parent_company = excluded.parent_company`,
		info.Type, info.ID, info.CompanyName, info.CompanyWebsite, info.ParentCompany)
	if err != nil {
		return fmt.Errorf("upserting entity %s/%s: %w", info.Type, info.ID, err)
	}
	return nil
}

// GetEntityContacts returns the entity's attributes and current roster.
func (s *Store) GetEntityContacts(ctx context.Context, entityType types.EntityType, entityID string) (types.EntityInfo, error) {
	info := types.EntityInfo{Type: entityType, ID: entityID}

	err := s.db.QueryRowContext(ctx,
		`SELECT company_name, company_website, parent_company
		 FROM entities WHERE type = ? AND id = ?`,
		entityType, entityID).
		Scan(&info.CompanyName, &info.CompanyWebsite, &info.ParentCompany)
	if err == sql.ErrNoRows {
		return info, fmt.Errorf("entity %s/%s not found", entityType, entityID)
	}
	if err != nil {
		return info, fmt.Errorf("reading entity %s/%s: %w", entityType, entityID, err)
	}

	contacts, err := s.readContacts(ctx, s.db, entityType, entityID)
	if err != nil {
		return info, err
	}
	info.Contacts = contacts
	return info, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) readContacts(ctx context.Context, q queryer, entityType types.EntityType, entityID string) ([]types.ContactRecord, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT name, title, email, phone, linkedin_url, location, source, confidence
		 FROM contacts WHERE entity_type = ? AND entity_id = ?
		 ORDER BY position`,
		entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("reading contacts for %s/%s: %w", entityType, entityID, err)
	}
	defer rows.Close()

	var contacts []types.ContactRecord
	for rows.Next() {
		var c types.ContactRecord
		if err := rows.Scan(&c.Name, &c.Title, &c.Email, &c.Phone,
			&c.LinkedInURL, &c.Location, &c.Source, &c.Confidence); err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// ReplaceEntityContacts atomically replaces the entity's roster with the
// given value and returns it. The delete and inserts share one
// transaction; SQLite serializes writing transactions, so two enrichment
// runs replacing the same roster cannot interleave.
func (s *Store) ReplaceEntityContacts(ctx context.Context, entityType types.EntityType, entityID string, contacts []types.ContactRecord) ([]types.ContactRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM contacts WHERE entity_type = ? AND entity_id = ?`,
		entityType, entityID); err != nil {
		return nil, fmt.Errorf("clearing roster for %s/%s: %w", entityType, entityID, err)
	}

	for i, c := range contacts {
		if err := insertContact(ctx, tx, entityType, entityID, i, c); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing roster replace: %w", err)
	}

	if err := s.writeSnapshot(ctx, entityType, entityID); err != nil {
		// The replace committed; a failed snapshot is only a warning.
		fmt.Fprintf(os.Stderr, "warning: roster snapshot failed: %v\n", err)
	}
	return contacts, nil
}

// AddSingleContact appends one contact at the end of the roster. This is
// the manual path: it bypasses the automated roster cap.
func (s *Store) AddSingleContact(ctx context.Context, entityType types.EntityType, entityID string, contact types.ContactRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM contacts
		 WHERE entity_type = ? AND entity_id = ?`,
		entityType, entityID).Scan(&next); err != nil {
		return fmt.Errorf("reading roster size for %s/%s: %w", entityType, entityID, err)
	}

	if contact.Source == "" {
		contact.Source = types.SourceManual
	}
	if err := insertContact(ctx, tx, entityType, entityID, next, contact); err != nil {
		return err
	}
	return tx.Commit()
}

func insertContact(ctx context.Context, tx *sql.Tx, entityType types.EntityType, entityID string, position int, c types.ContactRecord) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO contacts
		 (row_id, entity_type, entity_id, position, name, title, email, phone, linkedin_url, location, source, confidence)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), entityType, entityID, position,
		c.Name, c.Title, c.NormalizedEmail(), c.Phone, c.LinkedInURL, c.Location,
		c.Source, c.Confidence)
	if err != nil {
		return fmt.Errorf("inserting contact for %s/%s: %w", entityType, entityID, err)
	}
	return nil
}

// writeSnapshot dumps the entity's roster to a YAML file in the
// configured snapshot directory, one file per entity.
func (s *Store) writeSnapshot(ctx context.Context, entityType types.EntityType, entityID string) error {
	if s.snapshotDir == "" {
		return nil
	}

	info, err := s.GetEntityContacts(ctx, entityType, entityID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.snapshotDir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	data, err := yaml.Marshal(info)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	name := fmt.Sprintf("%s-%s.yaml", entityType, entityID)
	return os.WriteFile(filepath.Join(s.snapshotDir, name), data, 0o644)
}
