package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/driquet/git-template/internal/history"
	_ "github.com/mattn/go-sqlite3"
)

// Database defines the interface for instantiation history operations
type Database interface {
	// RecordInstantiation stores a new entry and sets its ID
	RecordInstantiation(entry *history.Entry) error

	// RecentInstantiations returns at most limit entries, newest first
	RecentInstantiations(limit int) ([]history.Entry, error)

	// TemplateUsage returns how many times each template has been instantiated
	TemplateUsage() (map[string]int, error)

	// Close closes the database connection
	Close() error
}

// SQLiteDatabase implements the Database interface using SQLite
type SQLiteDatabase struct {
	db *sql.DB
}

// NewSQLiteDatabase creates a new SQLite database connection
func NewSQLiteDatabase(dbPath string) (*SQLiteDatabase, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	sqliteDB := &SQLiteDatabase{db: db}

	// Initialize the database schema
	if err := sqliteDB.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return sqliteDB, nil
}

// initSchema creates the instantiations table if it doesn't exist
func (s *SQLiteDatabase) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS instantiations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		template TEXT NOT NULL,
		item TEXT NOT NULL,
		destination TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS instantiations_template ON instantiations (template);`

	_, err := s.db.Exec(query)
	return err
}

// RecordInstantiation stores a new entry and sets its ID
func (s *SQLiteDatabase) RecordInstantiation(entry *history.Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := "INSERT INTO instantiations (template, item, destination, created_at) VALUES (?, ?, ?, ?)"
	result, err := s.db.Exec(query, entry.Template, entry.Item, entry.Destination, entry.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to record instantiation of %q: %w", entry.Template, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = id

	return nil
}

// RecentInstantiations returns at most limit entries, newest first
func (s *SQLiteDatabase) RecentInstantiations(limit int) ([]history.Entry, error) {
	query := "SELECT id, template, item, destination, created_at FROM instantiations ORDER BY created_at DESC, id DESC LIMIT ?"
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []history.Entry
	for rows.Next() {
		var e history.Entry
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.Template, &e.Item, &e.Destination, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = time.Unix(0, createdAt)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// TemplateUsage returns how many times each template has been instantiated
func (s *SQLiteDatabase) TemplateUsage() (map[string]int, error) {
	query := "SELECT template, COUNT(*) FROM instantiations GROUP BY template"
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usage := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, err
		}
		usage[name] = count
	}

	return usage, rows.Err()
}

// Close closes the database connection
func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}
