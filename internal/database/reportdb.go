package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/linkweave/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "linkweave.db"

// ReportDB provides SQLite-based storage for analysis reports.
type ReportDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ReportDB behavior.
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

// Open opens or creates a ReportDB in the given directory.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ReportDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run analyze with --save first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &ReportDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Path returns the database file path.
func (rdb *ReportDB) Path() string {
	return rdb.dbPath
}

// Close closes the database connection.
func (rdb *ReportDB) Close() error {
	return rdb.db.Close()
}

func (rdb *ReportDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site TEXT NOT NULL,
		sitemap_url TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		provider TEXT,
		report_json TEXT NOT NULL,
		summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_reports_site ON reports(site);
	CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON reports(timestamp);

	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_id INTEGER NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		title TEXT,
		word_count INTEGER DEFAULT 0,
		internal_links INTEGER DEFAULT 0,
		UNIQUE(report_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_report ON pages(report_id);
	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// Summary holds the headline numbers of an archived report.
type Summary struct {
	Pages       int `json:"pages"`
	Suggestions int `json:"suggestions"`
	Orphans     int `json:"orphans"`
}

// SaveReport archives a finished report together with its crawled pages
// and returns the new report ID.
func (rdb *ReportDB) SaveReport(ctx context.Context, report *model.AnalysisReport) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	var summary Summary
	if report.Result != nil {
		summary = Summary{
			Pages:       report.Result.Stats.TotalPages,
			Suggestions: report.Result.Stats.TotalSuggestions,
			Orphans:     report.Result.Stats.TotalOrphans,
		}
	}
	summaryJSON, _ := json.Marshal(summary) //nolint:errcheck,errchkjson // plain struct of ints

	var provider string
	if report.Provider != nil {
		provider = report.Provider.Name + "/" + report.Provider.Model
	}

	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
	INSERT INTO reports (site, sitemap_url, timestamp, provider, report_json, summary)
	VALUES (?, ?, ?, ?, ?, ?)
	`,
		report.Site(),
		report.SitemapURL,
		report.StartedAt.UTC().Format(time.RFC3339),
		provider,
		string(reportJSON),
		string(summaryJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read report id: %w", err)
	}

	for _, page := range report.Pages {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO pages (report_id, url, title, word_count, internal_links)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(report_id, url) DO UPDATE SET
			title = excluded.title,
			word_count = excluded.word_count,
			internal_links = excluded.internal_links
		`,
			id,
			page.URL,
			page.Title,
			page.WordCount,
			len(page.InternalLinks),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to save page %s: %w", page.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit report: %w", err)
	}
	return id, nil
}

// GetReportByID retrieves an archived report by its database ID.
// It returns nil without error when no report has that ID.
func (rdb *ReportDB) GetReportByID(ctx context.Context, id int64) (*model.AnalysisReport, error) {
	var reportJSON string
	err := rdb.db.QueryRowContext(ctx, `SELECT report_json FROM reports WHERE id = ?`, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report model.AnalysisReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// GetLatestReport retrieves the most recent report for a site.
// It returns nil without error when the site has no reports.
func (rdb *ReportDB) GetLatestReport(ctx context.Context, site string) (*model.AnalysisReport, error) {
	var id int64
	err := rdb.db.QueryRowContext(ctx, `
	SELECT id FROM reports
	WHERE site = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`, site).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest report: %w", err)
	}
	return rdb.GetReportByID(ctx, id)
}

// ListSites returns every site with at least one archived report.
func (rdb *ReportDB) ListSites(ctx context.Context) ([]string, error) {
	rows, err := rdb.db.QueryContext(ctx, `SELECT DISTINCT site FROM reports ORDER BY site`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []string
	for rows.Next() {
		var site string
		if err := rows.Scan(&site); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

// ReportMetadata describes an archived report without loading it.
type ReportMetadata struct {
	// ID is the unique identifier of the report in the database.
	ID int64 `json:"id"`

	// Site is the host of the analyzed sitemap.
	Site string `json:"site"`

	// SitemapURL is the sitemap the run started with.
	SitemapURL string `json:"sitemap_url"`

	// Timestamp is when the analysis started.
	Timestamp time.Time `json:"timestamp"`

	// Provider is "name/model" of the embedding provider.
	Provider string `json:"provider"`

	Summary Summary `json:"summary"`
}

// History lists report metadata, newest first. An empty site lists
// every site.
func (rdb *ReportDB) History(ctx context.Context, site string) ([]ReportMetadata, error) {
	query := `
	SELECT id, site, sitemap_url, timestamp, provider, summary
	FROM reports
	`
	args := make([]any, 0, 1)
	if site != "" {
		query += " WHERE site = ?"
		args = append(args, site)
	}
	query += " ORDER BY timestamp DESC, id DESC"

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var results []ReportMetadata
	for rows.Next() {
		var meta ReportMetadata
		var timestamp string
		var provider, summaryJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.Site, &meta.SitemapURL, &timestamp, &provider, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		meta.Provider = provider.String
		if summaryJSON.Valid && summaryJSON.String != "" {
			// A damaged summary leaves zero counts.
			_ = json.Unmarshal([]byte(summaryJSON.String), &meta.Summary) //nolint:errcheck
		}

		results = append(results, meta)
	}
	return results, rows.Err()
}

// PageRow is a crawled page stored with an archived report.
type PageRow struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	WordCount     int    `json:"word_count"`
	InternalLinks int    `json:"internal_links"`
}

// ListPages returns the pages archived with a report in URL order.
func (rdb *ReportDB) ListPages(ctx context.Context, reportID int64) ([]PageRow, error) {
	rows, err := rdb.db.QueryContext(ctx, `
	SELECT url, title, word_count, internal_links
	FROM pages
	WHERE report_id = ?
	ORDER BY url
	`, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	var pages []PageRow
	for rows.Next() {
		var p PageRow
		var title sql.NullString
		if err := rows.Scan(&p.URL, &title, &p.WordCount, &p.InternalLinks); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		p.Title = title.String
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// More specific formats come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp tries each known format and returns the zero time when
// none matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
