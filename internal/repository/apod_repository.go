package repository

//go:generate mockgen -destination=mock/apod_repository.go -package=mock apod/server/internal/repository APODRepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"apod/server/internal/model"
)

// ErrDuplicate is returned by Create when an entry for the date already exists.
var ErrDuplicate = errors.New("entry for date already exists")

// IDGenerator assigns ids to new rows.
type IDGenerator interface {
	NextID() int64
}

type APODRepository interface {
	GetByDate(ctx context.Context, date time.Time) (model.Entry, error)
	ExistsByDate(ctx context.Context, date time.Time) (bool, error)
	List(ctx context.Context) ([]model.Entry, error)
	Latest(ctx context.Context) (model.Entry, error)
	Create(ctx context.Context, entry model.Entry) (model.Entry, error)
	Ping(ctx context.Context) error
}

type apodRepository struct {
	db  dbtx
	ids IDGenerator
}

func NewAPODRepository(db dbtx, ids IDGenerator) APODRepository {
	return &apodRepository{db: db, ids: ids}
}

var entryColumns = []string{
	"id", "title", "explanation", "url", "media_type", "date", "created_at", "local_file_path",
}

// GetByDate returns sql.ErrNoRows when no entry exists for date.
func (r *apodRepository) GetByDate(ctx context.Context, date time.Time) (model.Entry, error) {
	query, args, err := builder.
		Select(entryColumns...).
		From("apod_entries").
		Where(sq.Eq{"date": model.FormatDate(date)}).
		ToSql()
	if err != nil {
		return model.Entry{}, fmt.Errorf("build query: %w", err)
	}

	return scanEntry(r.db.QueryRowContext(ctx, query, args...))
}

func (r *apodRepository) ExistsByDate(ctx context.Context, date time.Time) (bool, error) {
	query, args, err := builder.
		Select("COUNT(*)").
		From("apod_entries").
		Where(sq.Eq{"date": model.FormatDate(date)}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *apodRepository) List(ctx context.Context) ([]model.Entry, error) {
	query, args, err := builder.
		Select(entryColumns...).
		From("apod_entries").
		OrderBy("date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]model.Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Latest returns the entry with the greatest date, or sql.ErrNoRows.
func (r *apodRepository) Latest(ctx context.Context) (model.Entry, error) {
	query, args, err := builder.
		Select(entryColumns...).
		From("apod_entries").
		OrderBy("date DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return model.Entry{}, fmt.Errorf("build query: %w", err)
	}

	return scanEntry(r.db.QueryRowContext(ctx, query, args...))
}

// Create inserts entry with a fresh id. The unique index on date decides
// concurrent inserts: the loser gets ErrDuplicate and nothing is written.
func (r *apodRepository) Create(ctx context.Context, entry model.Entry) (model.Entry, error) {
	entry.ID = r.ids.NextID()
	entry.Date = model.DateOf(entry.Date)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	var localPath any
	if entry.LocalFilePath != nil {
		localPath = *entry.LocalFilePath
	}

	query, args, err := builder.
		Insert("apod_entries").
		Columns(entryColumns...).
		Values(
			entry.ID,
			entry.Title,
			entry.Explanation,
			entry.URL,
			entry.MediaType,
			model.FormatDate(entry.Date),
			formatTime(entry.CreatedAt),
			localPath,
		).
		Suffix("ON CONFLICT(date) DO NOTHING").
		ToSql()
	if err != nil {
		return model.Entry{}, fmt.Errorf("build query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return model.Entry{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Entry{}, err
	}
	if affected == 0 {
		return model.Entry{}, ErrDuplicate
	}

	// Readers get UTC without a monotonic reading; match them.
	entry.CreatedAt = entry.CreatedAt.UTC()
	return entry, nil
}

func (r *apodRepository) Ping(ctx context.Context) error {
	var one int
	return r.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (model.Entry, error) {
	var e model.Entry
	var date, createdAt string
	var localPath sql.NullString

	err := row.Scan(
		&e.ID, &e.Title, &e.Explanation, &e.URL, &e.MediaType, &date, &createdAt, &localPath,
	)
	if err != nil {
		return model.Entry{}, err
	}

	e.Date, err = model.ParseDate(date)
	if err != nil {
		return model.Entry{}, fmt.Errorf("entry %d: %w", e.ID, err)
	}
	e.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return model.Entry{}, fmt.Errorf("entry %d: parse created_at: %w", e.ID, err)
	}
	if localPath.Valid {
		path := localPath.String
		e.LocalFilePath = &path
	}

	return e, nil
}
