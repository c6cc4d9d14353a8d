package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"apod/server/internal/db"
	"apod/server/internal/model"
	"apod/server/internal/snowflake"
)

// NewTestDB opens a migrated store in a temp dir, closed on cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "apod-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewIDs returns a snowflake generator for tests.
func NewIDs(t *testing.T) *snowflake.Generator {
	t.Helper()

	g, err := snowflake.NewGenerator(1)
	require.NoError(t, err)
	return g
}

// SeedEntry inserts e directly and returns its id.
func SeedEntry(t *testing.T, database *sql.DB, e model.Entry) int64 {
	t.Helper()

	if e.ID == 0 {
		e.ID = NewIDs(t).NextID()
	}
	if e.MediaType == "" {
		e.MediaType = model.MediaTypeImage
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	var localPath any
	if e.LocalFilePath != nil {
		localPath = *e.LocalFilePath
	}

	_, err := database.Exec(
		`INSERT INTO apod_entries (id, title, explanation, url, media_type, date, created_at, local_file_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Explanation, e.URL, e.MediaType,
		model.FormatDate(e.Date), e.CreatedAt.Format(time.RFC3339Nano), localPath,
	)
	require.NoError(t, err)
	return e.ID
}

// MustDate parses a YYYY-MM-DD literal.
func MustDate(t *testing.T, s string) time.Time {
	t.Helper()

	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}
