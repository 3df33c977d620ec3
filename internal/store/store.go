// Package store provides SQLite persistence for hogwash.
//
// Everything the app keeps between runs is small: the watch history blob,
// newsroom layout, custom platforms and a log of shares. It lives in a
// key/value table plus a shares table.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/abelbrown/hogwash/internal/logging"
	"github.com/abelbrown/hogwash/internal/model"
	"github.com/abelbrown/hogwash/internal/newsroom"

	_ "modernc.org/sqlite"
)

// Keys in the kv table.
const (
	KeyHistory         = "videoHoggHistory"
	KeyGridSize        = "gridSize"
	KeyGridStreams     = "gridStreams"
	KeyCustomPlatforms = "customPlatforms"
)

// DefaultPath returns the database location inside dataDir.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, "hogwash.db")
}

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex // Protects all database operations
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// For in-memory databases, use shared cache mode so all connections
		// in the pool see the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// For in-memory databases, limit to 1 connection to avoid issues
	// with multiple connections getting different databases
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

// createTables creates the required tables and indexes if they don't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS shares (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		video_key TEXT NOT NULL,
		platform TEXT NOT NULL,
		url TEXT NOT NULL,
		points INTEGER NOT NULL,
		shared_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_shares_shared ON shares(shared_at DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Get returns the value stored under key. ok is false when the key is absent.
func (s *Store) Get(key string) (value string, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	err = s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Put stores value under key, replacing any previous value.
func (s *Store) Put(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now())
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *Store) putJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Put(key, string(data))
}

// LoadHistory returns the persisted watch history, most recent first.
// A missing or malformed value is treated as empty history.
func (s *Store) LoadHistory() ([]model.Video, error) {
	raw, ok, err := s.Get(KeyHistory)
	if err != nil || !ok {
		return nil, err
	}

	var videos []model.Video
	if err := json.Unmarshal([]byte(raw), &videos); err != nil {
		logging.Warn("Discarding malformed watch history", "error", err)
		return nil, nil
	}
	return videos, nil
}

// SaveHistory replaces the persisted watch history.
func (s *Store) SaveHistory(videos []model.Video) error {
	if videos == nil {
		videos = []model.Video{}
	}
	return s.putJSON(KeyHistory, videos)
}

// LoadPlatforms returns user-added platforms.
func (s *Store) LoadPlatforms() ([]model.Platform, error) {
	raw, ok, err := s.Get(KeyCustomPlatforms)
	if err != nil || !ok {
		return nil, err
	}

	var platforms []model.Platform
	if err := json.Unmarshal([]byte(raw), &platforms); err != nil {
		logging.Warn("Discarding malformed custom platforms", "error", err)
		return nil, nil
	}
	return platforms, nil
}

// SavePlatforms replaces the list of user-added platforms.
func (s *Store) SavePlatforms(platforms []model.Platform) error {
	return s.putJSON(KeyCustomPlatforms, platforms)
}

// LoadNewsroom restores the newsroom grid, or a fresh one if nothing valid
// is stored.
func (s *Store) LoadNewsroom() (*newsroom.Grid, error) {
	size := newsroom.DefaultSize
	rawSize, ok, err := s.Get(KeyGridSize)
	if err != nil {
		return nil, err
	}
	if ok {
		if n, err := strconv.Atoi(rawSize); err == nil {
			size = n
		}
	}

	var streams []newsroom.Stream
	rawStreams, ok, err := s.Get(KeyGridStreams)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := json.Unmarshal([]byte(rawStreams), &streams); err != nil {
			logging.Warn("Discarding malformed newsroom streams", "error", err)
			streams = nil
		}
	}

	return newsroom.Restore(size, streams), nil
}

// SaveNewsroom persists grid size and cell streams.
func (s *Store) SaveNewsroom(g *newsroom.Grid) error {
	if err := s.Put(KeyGridSize, strconv.Itoa(g.Size)); err != nil {
		return err
	}
	return s.putJSON(KeyGridStreams, g.Streams)
}

// RecordShare logs a share and returns the new WALLER points total.
func (s *Store) RecordShare(v model.Video, url string, points int) (int, error) {
	s.mu.Lock()
	_, err := s.db.Exec(`
		INSERT INTO shares (video_key, platform, url, points, shared_at)
		VALUES (?, ?, ?, ?, ?)
	`, v.Key(), v.Platform, url, points, time.Now())
	s.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("record share: %w", err)
	}
	return s.Points()
}

// Points returns the total WALLER points earned from shares.
func (s *Store) Points() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int
	if err := s.db.QueryRow("SELECT COALESCE(SUM(points), 0) FROM shares").Scan(&total); err != nil {
		return 0, fmt.Errorf("sum points: %w", err)
	}
	return total, nil
}

// ShareTotal is the share count and points earned on one platform.
type ShareTotal struct {
	Platform string
	Shares   int
	Points   int
}

// ShareTotals groups recorded shares by platform, highest points first.
func (s *Store) ShareTotals() ([]ShareTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT platform, COUNT(*), COALESCE(SUM(points), 0)
		FROM shares
		GROUP BY platform
		ORDER BY SUM(points) DESC, platform
	`)
	if err != nil {
		return nil, fmt.Errorf("share totals: %w", err)
	}
	defer rows.Close()

	var totals []ShareTotal
	for rows.Next() {
		var t ShareTotal
		if err := rows.Scan(&t.Platform, &t.Shares, &t.Points); err != nil {
			return nil, fmt.Errorf("scan share total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
