package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nriscan/nriscan/internal/model"
)

// dbFileName is the database file created inside the data directory.
const dbFileName = "nriscan.db"

// CrawlDB provides SQLite-based storage for article records and the
// seen-URL set.
//
// Design decision: One database file for all runs rather than a file per
// run because:
//  1. The seen-URL set only works across runs if runs share storage
//  2. Queries like "latest record for this URL" stay single-file
//  3. Backup and inspection stay a single-file affair
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB in the given directory.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite: mode=rw prevents creating new files, mode=rwc
	// allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; a larger pool buys nothing for
	// this sequential workload.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- Articles store one row per fetched article URL, latest fetch wins.
	CREATE TABLE IF NOT EXISTS articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		normalized_url TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL,
		success INTEGER NOT NULL,
		title TEXT,
		author TEXT,
		publish_date TEXT,
		content_length INTEGER NOT NULL DEFAULT 0,
		image_count INTEGER NOT NULL DEFAULT 0,
		comment_count INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		record_json TEXT NOT NULL,
		crawled_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_articles_crawled ON articles(crawled_at);
	CREATE INDEX IF NOT EXISTS idx_articles_success ON articles(success);

	-- Seen URLs let a run skip articles fetched by earlier runs.
	CREATE TABLE IF NOT EXISTS seen_urls (
		normalized_url TEXT PRIMARY KEY,
		first_seen DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Runs store one summary row per crawl invocation.
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		mode TEXT NOT NULL,
		keyword TEXT,
		records INTEGER NOT NULL,
		failures INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRecord upserts an article record keyed by its normalized URL.
// The full record is stored as JSON; the columns exist for querying.
func (cdb *CrawlDB) SaveRecord(ctx context.Context, rec *model.ArticleRecord) error {
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}

	query := `
	INSERT INTO articles (normalized_url, url, success, title, author, publish_date,
		content_length, image_count, comment_count, error, record_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(normalized_url) DO UPDATE SET
		url = excluded.url,
		success = excluded.success,
		title = excluded.title,
		author = excluded.author,
		publish_date = excluded.publish_date,
		content_length = excluded.content_length,
		image_count = excluded.image_count,
		comment_count = excluded.comment_count,
		error = excluded.error,
		record_json = excluded.record_json,
		crawled_at = CURRENT_TIMESTAMP
	`

	_, err = cdb.db.ExecContext(ctx, query,
		model.NormalizeURL(rec.URL),
		rec.URL,
		rec.Success,
		rec.Title,
		rec.Author,
		rec.PublishDate,
		rec.ContentLength,
		rec.ImageCount,
		rec.CommentCount,
		rec.Error,
		string(recordJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// GetRecord retrieves the stored record for a URL, nil when the URL has
// never been crawled.
func (cdb *CrawlDB) GetRecord(ctx context.Context, url string) (*model.ArticleRecord, error) {
	query := `SELECT record_json FROM articles WHERE normalized_url = ?`

	var recordJSON string
	err := cdb.db.QueryRowContext(ctx, query, model.NormalizeURL(url)).Scan(&recordJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	var rec model.ArticleRecord
	if err := json.Unmarshal([]byte(recordJSON), &rec); err != nil {
		return nil, fmt.Errorf("failed to parse stored record: %w", err)
	}
	return &rec, nil
}

// ListRecords returns stored records, newest first. A limit of 0 means
// no limit.
func (cdb *CrawlDB) ListRecords(ctx context.Context, limit int) ([]*model.ArticleRecord, error) {
	query := `SELECT record_json FROM articles ORDER BY crawled_at DESC`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []*model.ArticleRecord
	for rows.Next() {
		var recordJSON string
		if err := rows.Scan(&recordJSON); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		var rec model.ArticleRecord
		if err := json.Unmarshal([]byte(recordJSON), &rec); err != nil {
			continue // skip malformed rows
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// MarkSeen records a normalized URL as crawled.
func (cdb *CrawlDB) MarkSeen(ctx context.Context, normalizedURL string) error {
	query := `INSERT OR IGNORE INTO seen_urls (normalized_url) VALUES (?)`
	if _, err := cdb.db.ExecContext(ctx, query, normalizedURL); err != nil {
		return fmt.Errorf("failed to mark url seen: %w", err)
	}
	return nil
}

// SeenURLs loads the full seen set. Loaded once at run start so the crawl
// loop never blocks on storage.
func (cdb *CrawlDB) SeenURLs(ctx context.Context) (map[string]bool, error) {
	rows, err := cdb.db.QueryContext(ctx, `SELECT normalized_url FROM seen_urls`)
	if err != nil {
		return nil, fmt.Errorf("failed to load seen urls: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan seen url: %w", err)
		}
		seen[u] = true
	}
	return seen, rows.Err()
}

// RunSummary is one crawl invocation's outcome.
type RunSummary struct {
	// ID is the database identifier, set on read.
	ID int64

	// Mode is the discovery mode the run used.
	Mode string

	// Keyword is the search term, empty for listing runs.
	Keyword string

	// Records is the number of records the run produced.
	Records int

	// Failures is how many of those records are success=false.
	Failures int

	// Pages is the number of discovery pages consulted.
	Pages int

	// StartedAt is the run start time.
	StartedAt time.Time

	// FinishedAt is the run end time, set by the database.
	FinishedAt time.Time
}

// SaveRun stores a run summary.
func (cdb *CrawlDB) SaveRun(ctx context.Context, run *RunSummary) error {
	query := `
	INSERT INTO runs (mode, keyword, records, failures, pages, started_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := cdb.db.ExecContext(ctx, query,
		run.Mode,
		run.Keyword,
		run.Records,
		run.Failures,
		run.Pages,
		run.StartedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// RunHistory returns run summaries, newest first. A limit of 0 means no
// limit.
func (cdb *CrawlDB) RunHistory(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
	SELECT id, mode, keyword, records, failures, pages, started_at, finished_at
	FROM runs
	ORDER BY finished_at DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			run      RunSummary
			started  string
			finished string
		)
		if err := rows.Scan(&run.ID, &run.Mode, &run.Keyword, &run.Records,
			&run.Failures, &run.Pages, &started, &finished); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.StartedAt = parseTimestamp(started)
		run.FinishedAt = parseTimestamp(finished)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// Order matters: more specific formats first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp parses a timestamp string with the formats SQLite emits
// depending on configuration. Returns zero time when nothing matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
