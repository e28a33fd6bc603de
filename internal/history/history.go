// Package history keeps a small local record of generated plans for the CLI,
// so reruns with identical inputs can be flagged and past generations listed.
package history

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/stride/internal/engine"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DB is the local plan-history database.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite history database at dir/history.db.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS plans (
		id            TEXT PRIMARY KEY,
		created_at    TEXT NOT NULL,
		request_hash  TEXT NOT NULL,
		name          TEXT NOT NULL DEFAULT '',
		start         TEXT NOT NULL,
		weeks         INTEGER NOT NULL,
		fitness_index REAL NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history table: %w", err)
	}

	return &DB{db: db}, nil
}

// HashRequest fingerprints the generation inputs. Identical requests hash
// identically regardless of when they are run.
func HashRequest(req engine.Request) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("hashing request: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Seen reports whether a plan with the same request hash was already recorded.
func (d *DB) Seen(hash string) (bool, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM plans WHERE request_hash = ?`, hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Record stores a summary row for a generated plan and returns its id.
func (d *DB) Record(req engine.Request, doc engine.Document) (string, error) {
	hash, err := HashRequest(req)
	if err != nil {
		return "", err
	}
	id := uuid.New().String()
	_, err = d.db.Exec(
		`INSERT INTO plans (id, created_at, request_hash, name, start, weeks, fitness_index)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		time.Now().UTC().Format(time.RFC3339),
		hash,
		doc.Name,
		doc.Start.Format(time.RFC3339),
		len(doc.Weeks),
		doc.FitnessIndex,
	)
	if err != nil {
		return "", fmt.Errorf("recording plan: %w", err)
	}
	return id, nil
}

// Entry is one recorded generation.
type Entry struct {
	ID           string
	CreatedAt    time.Time
	Name         string
	Start        time.Time
	Weeks        int
	FitnessIndex float64
}

// List returns the most recent entries, newest first.
func (d *DB) List(limit int) ([]Entry, error) {
	rows, err := d.db.Query(
		`SELECT id, created_at, name, start, weeks, fitness_index
		 FROM plans ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var created, start string
		if err := rows.Scan(&e.ID, &created, &e.Name, &start, &e.Weeks, &e.FitnessIndex); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		if e.Start, err = time.Parse(time.RFC3339, start); err != nil {
			return nil, fmt.Errorf("parsing start: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the history database.
func (d *DB) Close() error {
	return d.db.Close()
}
