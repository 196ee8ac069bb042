package data

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb/v2"
)

var ErrPairNotFound = errors.New("book pair not found")

const schema = `
CREATE TABLE IF NOT EXISTS book_pairs (
	id VARCHAR PRIMARY KEY,
	name VARCHAR NOT NULL,
	original_location VARCHAR NOT NULL,
	original_offset INTEGER NOT NULL,
	translated_location VARCHAR NOT NULL,
	translated_offset INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL
)`

// InitDuckDB opens the library database at path, creating its directory
// and schema as needed.
func InitDuckDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// OpenRepository opens the database at path and wraps it in a Repository.
func OpenRepository(path string) (*Repository, error) {
	db, err := InitDuckDB(path)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// SavePair inserts pair or replaces the stored pair with the same ID.
func (r *Repository) SavePair(pair *BookPair) error {
	_, err := r.db.Exec(`
		INSERT OR REPLACE INTO book_pairs
			(id, name, original_location, original_offset, translated_location, translated_offset, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		pair.ID, pair.Name,
		pair.OriginalLocation, pair.OriginalOffset,
		pair.TranslatedLocation, pair.TranslatedOffset,
		pair.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save pair %s: %w", pair.Name, err)
	}
	return nil
}

const selectPair = `
	SELECT id, name, original_location, original_offset, translated_location, translated_offset, created_at
	FROM book_pairs`

func (r *Repository) GetPair(id string) (*BookPair, error) {
	return r.queryOne(selectPair+` WHERE id = ?`, id)
}

func (r *Repository) FindPairByName(name string) (*BookPair, error) {
	return r.queryOne(selectPair+` WHERE name = ?`, name)
}

func (r *Repository) ListPairs() ([]*BookPair, error) {
	rows, err := r.db.Query(selectPair + ` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pairs: %w", err)
	}
	defer rows.Close()

	var pairs []*BookPair
	for rows.Next() {
		pair, err := scanPair(rows)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, rows.Err()
}

func (r *Repository) DeletePair(id string) error {
	res, err := r.db.Exec(`DELETE FROM book_pairs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pair: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrPairNotFound, id)
	}
	return nil
}

func (r *Repository) queryOne(query string, arg string) (*BookPair, error) {
	pair, err := scanPair(r.db.QueryRow(query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPairNotFound, arg)
	}
	return pair, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPair(s scanner) (*BookPair, error) {
	var pair BookPair
	err := s.Scan(
		&pair.ID, &pair.Name,
		&pair.OriginalLocation, &pair.OriginalOffset,
		&pair.TranslatedLocation, &pair.TranslatedOffset,
		&pair.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan pair: %w", err)
	}
	return &pair, nil
}
