// Package workspace persists named questionnaire documents in a SQLite
// database so drafts survive between CLI invocations.
package workspace

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vellumkit/vellum/internal/field"
	"github.com/vellumkit/vellum/internal/sqlutil"
)

// ErrDocumentNotFound indicates the named document is not in the workspace.
var ErrDocumentNotFound = errors.New("document not found in workspace")

// CurrentDBVersion is the current workspace schema version.
const CurrentDBVersion = 1

// Workspace is the SQLite-backed document library handle.
type Workspace struct {
	db *sql.DB
}

// Open opens or creates the workspace database under dir.
func Open(dir string) (*Workspace, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace directory: %w", err)
	}

	dbPath := filepath.Join(dir, "workspace.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace database: %w", err)
	}

	w := &Workspace{db: db}
	if err := w.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

// OpenInMemory opens an in-memory workspace (for testing).
func OpenInMemory() (*Workspace, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	w := &Workspace{db: db}
	if err := w.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

// Close closes the database.
func (w *Workspace) Close() error {
	return w.db.Close()
}

func (w *Workspace) initialize() error {
	schema := `
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS documents (
			name TEXT PRIMARY KEY,
			schema_type TEXT NOT NULL DEFAULT '',
			field_count INTEGER NOT NULL,
			body TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_documents_updated ON documents(updated_at);
	`
	if _, err := w.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize workspace schema: %w", err)
	}

	_, err := w.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)`,
		fmt.Sprintf("%d", CurrentDBVersion))
	if err != nil {
		return fmt.Errorf("failed to set workspace version: %w", err)
	}
	return nil
}

// Save upserts a document under the given name. The created timestamp is
// preserved across overwrites.
func (w *Workspace) Save(name string, doc *field.Document) error {
	if name == "" {
		return fmt.Errorf("document name must not be empty")
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	now := time.Now().Unix()
	_, err = w.db.Exec(`
		INSERT INTO documents (name, schema_type, field_count, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			schema_type = excluded.schema_type,
			field_count = excluded.field_count,
			body = excluded.body,
			updated_at = excluded.updated_at
	`, name, doc.SchemaType, len(field.Flatten(doc.Fields)), string(body), now, now)
	if err != nil {
		return fmt.Errorf("failed to save document %q: %w", name, err)
	}
	return nil
}

// Load returns the named document.
func (w *Workspace) Load(name string) (*field.Document, error) {
	var body string
	err := w.db.QueryRow(`SELECT body FROM documents WHERE name = ?`, name).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}

	var doc field.Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("stored document %q is corrupt: %w", name, err)
	}
	return &doc, nil
}

// Delete removes the named document.
func (w *Workspace) Delete(name string) error {
	res, err := w.db.Exec(`DELETE FROM documents WHERE name = ?`, name)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// Rename moves a document to a new name. Fails if the new name is taken.
func (w *Workspace) Rename(name, newName string) error {
	if newName == "" {
		return fmt.Errorf("document name must not be empty")
	}
	var existing int
	if err := w.db.QueryRow(`SELECT COUNT(*) FROM documents WHERE name = ?`, newName).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return fmt.Errorf("document %q already exists", newName)
	}

	res, err := w.db.Exec(`UPDATE documents SET name = ? WHERE name = ?`, newName, name)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// Entry is one row of the workspace listing.
type Entry struct {
	Name       string    `json:"name"`
	SchemaType string    `json:"schemaType,omitempty"`
	FieldCount int       `json:"fieldCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// List returns all documents, most recently updated first.
func (w *Workspace) List() ([]Entry, error) {
	rows, err := w.db.Query(`
		SELECT name, schema_type, field_count, created_at, updated_at
		FROM documents
		ORDER BY updated_at DESC, name
	`)
	if err != nil {
		return nil, err
	}

	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (Entry, error) {
		var e Entry
		var created, updated int64
		if err := rows.Scan(&e.Name, &e.SchemaType, &e.FieldCount, &created, &updated); err != nil {
			return Entry{}, err
		}
		e.CreatedAt = time.Unix(created, 0)
		e.UpdatedAt = time.Unix(updated, 0)
		return e, nil
	})
}
