package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a page id does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the page and settings operations the scheduler and the
// command line need.
type Store interface {
	ListPages(ctx context.Context) ([]Page, error)
	GetPage(ctx context.Context, id int64) (*Page, error)
	InsertPage(ctx context.Context, url string, lastOpened *time.Time) (int64, error)
	UpdatePage(ctx context.Context, id int64, upd PageUpdate) error
	DeletePage(ctx context.Context, id int64) error
	PurgePages(ctx context.Context) (int64, error)
	GetSettings(ctx context.Context) (*Settings, error)
	UpsertSettings(ctx context.Context, patch SettingsPatch) error
	EnsureDefaults(ctx context.Context) error
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	ownsDB bool
	path   string

	// Prepared statements
	listPages   *sql.Stmt
	getPage     *sql.Stmt
	insertPage  *sql.Stmt
	touchPage   *sql.Stmt
	deletePage  *sql.Stmt
	getSettings *sql.Stmt
}

// Open creates the parent directory of path, opens the database, applies
// migrations and returns a store that closes the database on Close.
func Open(path, journalMode string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer is all SQLite wants, and it keeps :memory: databases on a
	// single connection.
	db.SetMaxOpenConns(1)

	if err := NewMigrationRunner(db).WithJournalMode(journalMode).Run(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create store: %w", err)
	}
	s.ownsDB = true
	s.path = path
	return s, nil
}

// NewSQLiteStore creates a new SQLiteStore from an already-opened and migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

// Path returns the database file path, or "" when the store was built
// from an existing handle.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.listPages, err = s.db.Prepare(`
		SELECT id, url, last_opened, created_at FROM pages ORDER BY id
	`)
	if err != nil {
		return err
	}

	s.getPage, err = s.db.Prepare(`
		SELECT id, url, last_opened, created_at FROM pages WHERE id = ?
	`)
	if err != nil {
		return err
	}

	s.insertPage, err = s.db.Prepare(`
		INSERT INTO pages (url, last_opened, created_at) VALUES (?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.touchPage, err = s.db.Prepare(`UPDATE pages SET last_opened = ? WHERE id = ?`)
	if err != nil {
		return err
	}

	s.deletePage, err = s.db.Prepare(`DELETE FROM pages WHERE id = ?`)
	if err != nil {
		return err
	}

	s.getSettings, err = s.db.Prepare(`
		SELECT cron_expression, dark_mode, updated_at FROM settings WHERE id = 1
	`)
	if err != nil {
		return err
	}

	return nil
}

// timestampLayout is fixed width so that text comparison in SQL orders
// timestamps chronologically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTimestamp renders t the way every timestamp column stores it.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

func nullTimestamp(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTimestamp(*t), Valid: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (Page, error) {
	var p Page
	var lastOpened sql.NullString
	var createdAt string
	if err := row.Scan(&p.ID, &p.URL, &lastOpened, &createdAt); err != nil {
		return Page{}, err
	}
	if lastOpened.Valid {
		ts, err := parseTimestamp(lastOpened.String)
		if err != nil {
			return Page{}, fmt.Errorf("page %d: %w", p.ID, err)
		}
		p.LastOpened = &ts
	}
	p.CreatedAt, _ = parseTimestamp(createdAt)
	return p, nil
}

// ListPages returns every page ordered by id.
func (s *SQLiteStore) ListPages(ctx context.Context) ([]Page, error) {
	rows, err := s.listPages.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query pages: %w", err)
	}
	defer rows.Close()

	pages := []Page{}
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// GetPage retrieves a single page by id.
func (s *SQLiteStore) GetPage(ctx context.Context, id int64) (*Page, error) {
	p, err := scanPage(s.getPage.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("page %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get page: %w", err)
	}
	return &p, nil
}

// InsertPage stores a new page and returns its id. The url is stored as
// given; validation belongs to the caller.
func (s *SQLiteStore) InsertPage(ctx context.Context, url string, lastOpened *time.Time) (int64, error) {
	res, err := s.insertPage.ExecContext(ctx, url, nullTimestamp(lastOpened), formatTimestamp(time.Now()))
	if err != nil {
		return 0, fmt.Errorf("insert page: %w", err)
	}
	return res.LastInsertId()
}

// UpdatePage applies upd to the page. The url is never rewritten.
func (s *SQLiteStore) UpdatePage(ctx context.Context, id int64, upd PageUpdate) error {
	res, err := s.touchPage.ExecContext(ctx, nullTimestamp(upd.LastOpened), id)
	if err != nil {
		return fmt.Errorf("update page: %w", err)
	}
	return expectOne(res, id)
}

// DeletePage removes a page by id.
func (s *SQLiteStore) DeletePage(ctx context.Context, id int64) error {
	res, err := s.deletePage.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	return expectOne(res, id)
}

func expectOne(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("page %d: %w", id, ErrNotFound)
	}
	return nil
}

// PurgePages deletes every page and reports how many were removed.
// Settings are kept.
func (s *SQLiteStore) PurgePages(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM pages")
	if err != nil {
		return 0, fmt.Errorf("purge pages: %w", err)
	}
	return res.RowsAffected()
}

// GetSettings returns the settings row, or nil without error when none exists.
func (s *SQLiteStore) GetSettings(ctx context.Context) (*Settings, error) {
	var st Settings
	var updatedAt string
	err := s.getSettings.QueryRowContext(ctx).Scan(&st.CronExpression, &st.DarkMode, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	st.UpdatedAt, _ = parseTimestamp(updatedAt)
	return &st, nil
}

// UpsertSettings creates the settings row from defaults plus patch, or
// updates only the patched fields of the existing row.
func (s *SQLiteStore) UpsertSettings(ctx context.Context, patch SettingsPatch) error {
	def := DefaultSettings()
	expr, dark := def.CronExpression, def.DarkMode
	if patch.CronExpression != nil {
		expr = *patch.CronExpression
	}
	if patch.DarkMode != nil {
		dark = *patch.DarkMode
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (id, cron_expression, dark_mode, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			cron_expression = CASE WHEN ? THEN excluded.cron_expression ELSE cron_expression END,
			dark_mode       = CASE WHEN ? THEN excluded.dark_mode ELSE dark_mode END,
			updated_at      = excluded.updated_at
	`, expr, dark, formatTimestamp(time.Now()), patch.CronExpression != nil, patch.DarkMode != nil)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

// EnsureDefaults creates the settings row on first run.
func (s *SQLiteStore) EnsureDefaults(ctx context.Context) error {
	def := DefaultSettings()
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO settings (id, cron_expression, dark_mode, updated_at)
		VALUES (1, ?, ?, ?)
	`, def.CronExpression, def.DarkMode, formatTimestamp(time.Now()))
	if err != nil {
		return fmt.Errorf("ensure default settings: %w", err)
	}
	return nil
}

// Stats returns aggregate statistics about the database.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages").Scan(&stats.TotalPages)
	if err != nil {
		return nil, fmt.Errorf("count pages: %w", err)
	}

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages WHERE last_opened IS NULL").Scan(&stats.NeverOpened)
	if err != nil {
		return nil, fmt.Errorf("count never opened: %w", err)
	}

	if stats.TotalPages > stats.NeverOpened {
		var last string
		err = s.db.QueryRowContext(ctx, "SELECT MAX(last_opened) FROM pages").Scan(&last)
		if err != nil {
			return nil, fmt.Errorf("last opened: %w", err)
		}
		stats.LastOpened, _ = parseTimestamp(last)
	}

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM settings").Scan(&stats.SettingsRows)
	if err != nil {
		return nil, fmt.Errorf("count settings: %w", err)
	}

	stats.SchemaVersion, err = NewMigrationRunner(s.db).Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("schema version: %w", err)
	}

	stats.DatabaseSizeBytes = s.databaseSize(ctx)
	return stats, nil
}

// databaseSize uses the file size for on-disk databases and
// page_count * page_size otherwise.
func (s *SQLiteStore) databaseSize(ctx context.Context) int64 {
	if s.path != "" {
		if info, err := os.Stat(s.path); err == nil {
			return info.Size()
		}
	}

	var pageCount, pageSize int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0
	}
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0
	}
	return pageCount * pageSize
}

// Close releases all prepared statements. The underlying *sql.DB is closed
// only when the store opened it.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{
		s.listPages, s.getPage, s.insertPage,
		s.touchPage, s.deletePage, s.getSettings,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}
