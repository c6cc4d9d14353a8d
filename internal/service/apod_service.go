package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"apod/server/internal/logger"
	"apod/server/internal/metrics"
	"apod/server/internal/model"
	"apod/server/internal/repository"
	"apod/server/internal/service/nasa"
	"apod/server/internal/service/wallpaper"
)

// APODService resolves picture entries from the store, falling back to the provider.
type APODService interface {
	// Resolve returns the entry for date, fetching and persisting it on first use.
	Resolve(ctx context.Context, date time.Time) (model.Entry, error)
	// ResolveLatest always asks the provider for its latest record and persists it if new.
	ResolveLatest(ctx context.Context) (model.Entry, error)
	// ListAll returns every stored entry, newest first.
	ListAll(ctx context.Context) ([]model.Entry, error)
	// NewestStored returns the stored entry with the greatest date.
	NewestStored(ctx context.Context) (model.Entry, error)
	// RefreshToday stores the provider's latest record unless today already has an entry.
	RefreshToday(ctx context.Context) (bool, error)
	// SetWallpaper resolves date and paints its downloaded image.
	SetWallpaper(ctx context.Context, date time.Time) (model.Entry, error)
	// ValidateDate checks date against the provider's range as of now.
	ValidateDate(date time.Time) error
	// Today is the current calendar day in the configured location.
	Today() time.Time
}

type APODOptions struct {
	Location *time.Location
	Now      func() time.Time
	Metrics  *metrics.Metrics
}

type apodService struct {
	repo     repository.APODRepository
	provider nasa.Client
	sink     wallpaper.Sink
	loc      *time.Location
	now      func() time.Time
	metrics  *metrics.Metrics
	inflight singleflight.Group
}

func NewAPODService(repo repository.APODRepository, provider nasa.Client, sink wallpaper.Sink, opts APODOptions) APODService {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &apodService{
		repo:     repo,
		provider: provider,
		sink:     sink,
		loc:      loc,
		now:      now,
		metrics:  opts.Metrics,
	}
}

func (s *apodService) Today() time.Time {
	return model.DateOf(s.now().In(s.loc))
}

func (s *apodService) ValidateDate(date time.Time) error {
	date = model.DateOf(date)
	if date.Before(model.MinDate) {
		return fmt.Errorf("%w: %s is before %s", ErrInvalidDate, model.FormatDate(date), model.FormatDate(model.MinDate))
	}
	if today := s.Today(); date.After(today) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidDate, model.FormatDate(date), model.FormatDate(today))
	}
	return nil
}

func (s *apodService) Resolve(ctx context.Context, date time.Time) (model.Entry, error) {
	date = model.DateOf(date)
	if err := s.ValidateDate(date); err != nil {
		return model.Entry{}, err
	}

	entry, err := s.repo.GetByDate(ctx, date)
	if err == nil {
		s.metrics.ObserveResolution("store", "hit")
		return entry, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Entry{}, storeError("get entry by date", err)
	}

	entry, err = s.shared(ctx, "date:"+model.FormatDate(date), func(ctx context.Context) (model.Entry, error) {
		rec, err := s.provider.FetchByDate(ctx, date)
		if err != nil {
			return model.Entry{}, s.providerError("fetch by date", err)
		}
		recDate, err := rec.ParsedDate()
		if err != nil {
			return model.Entry{}, &UpstreamError{Err: err}
		}
		if !recDate.Equal(date) {
			return model.Entry{}, &UpstreamError{Err: fmt.Errorf("provider answered %s for %s", rec.Date, model.FormatDate(date))}
		}
		return s.store(ctx, rec, recDate)
	})
	if err != nil {
		s.metrics.ObserveResolution("provider", "failed")
		logger.Warn("resolve entry failed", "module", "service", "action", "resolve", "resource", "apod", "result", "failed", "date", model.FormatDate(date), "error", err)
		return model.Entry{}, err
	}
	return entry, nil
}

func (s *apodService) ResolveLatest(ctx context.Context) (model.Entry, error) {
	entry, err := s.shared(ctx, "latest", func(ctx context.Context) (model.Entry, error) {
		entry, _, err := s.latest(ctx)
		return entry, err
	})
	if err != nil {
		logger.Warn("resolve latest failed", "module", "service", "action", "resolve", "resource", "apod", "result", "failed", "error", err)
		return model.Entry{}, err
	}
	return entry, nil
}

// shared runs fn once per key for all concurrent callers. fn gets a context
// detached from any single caller, so one caller going away does not fail the
// others; each caller still stops waiting when its own ctx is done.
func (s *apodService) shared(ctx context.Context, key string, fn func(context.Context) (model.Entry, error)) (model.Entry, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(key, func() (any, error) {
		return fn(detached)
	})

	select {
	case <-ctx.Done():
		return model.Entry{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return model.Entry{}, res.Err
		}
		return res.Val.(model.Entry), nil
	}
}

func (s *apodService) RefreshToday(ctx context.Context) (bool, error) {
	today := s.Today()
	exists, err := s.repo.ExistsByDate(ctx, today)
	if err != nil {
		return false, storeError("check today", err)
	}
	if exists {
		logger.Debug("entry for today already stored", "module", "service", "action", "refresh", "resource", "apod", "result", "skipped", "date", model.FormatDate(today))
		return false, nil
	}

	entry, created, err := s.latest(ctx)
	if err != nil {
		return false, err
	}
	if created {
		logger.Info("added entry", "module", "service", "action", "refresh", "resource", "apod", "result", "ok", "date", model.FormatDate(entry.Date), "media_type", entry.MediaType)
	}
	return created, nil
}

// latest fetches the provider's latest record and persists it unless its date is already stored.
func (s *apodService) latest(ctx context.Context) (model.Entry, bool, error) {
	rec, err := s.provider.FetchLatest(ctx)
	if err != nil {
		s.metrics.ObserveResolution("provider", "failed")
		return model.Entry{}, false, s.providerError("fetch latest", err)
	}
	date, err := rec.ParsedDate()
	if err != nil {
		s.metrics.ObserveResolution("provider", "failed")
		return model.Entry{}, false, &UpstreamError{Err: err}
	}

	existing, err := s.repo.GetByDate(ctx, date)
	if err == nil {
		s.metrics.ObserveResolution("store", "hit")
		return existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Entry{}, false, storeError("get entry by date", err)
	}

	entry, err := s.store(ctx, rec, date)
	if err != nil {
		s.metrics.ObserveResolution("provider", "failed")
		return model.Entry{}, false, err
	}
	return entry, true, nil
}

// store downloads the image for image records and persists the entry.
// A download failure aborts before anything is written.
func (s *apodService) store(ctx context.Context, rec nasa.Record, date time.Time) (model.Entry, error) {
	var localPath *string
	if model.IsImage(rec.MediaType) {
		path, err := s.sink.SetFromURL(ctx, rec.URL, model.FormatDate(date)+"_"+rec.Title)
		if err != nil {
			return model.Entry{}, wallpaperError("download image", err)
		}
		localPath = &path
	}

	entry := model.Entry{
		Title:         rec.Title,
		Explanation:   rec.Explanation,
		URL:           rec.URL,
		MediaType:     rec.MediaType,
		Date:          date,
		CreatedAt:     s.now().UTC(),
		LocalFilePath: localPath,
	}

	created, err := s.repo.Create(ctx, entry)
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost the insert race for this date; the winner's row is the entry.
		existing, err := s.repo.GetByDate(ctx, date)
		if err != nil {
			return model.Entry{}, storeError("reread entry after conflict", err)
		}
		s.metrics.ObserveResolution("store", "conflict")
		return existing, nil
	}
	if err != nil {
		return model.Entry{}, storeError("create entry", err)
	}

	s.metrics.ObserveResolution("provider", "created")
	logger.Info("entry stored", "module", "service", "action", "create", "resource", "apod", "result", "ok", "date", model.FormatDate(date), "media_type", rec.MediaType, "local_file", localPath != nil)
	return created, nil
}

func (s *apodService) ListAll(ctx context.Context) ([]model.Entry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError("list entries", err)
	}
	return entries, nil
}

func (s *apodService) NewestStored(ctx context.Context) (model.Entry, error) {
	entry, err := s.repo.Latest(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Entry{}, ErrNotFound
		}
		return model.Entry{}, storeError("get newest entry", err)
	}
	return entry, nil
}

func (s *apodService) SetWallpaper(ctx context.Context, date time.Time) (model.Entry, error) {
	entry, err := s.Resolve(ctx, date)
	if err != nil {
		return model.Entry{}, err
	}
	if !entry.HasLocalFile() {
		return model.Entry{}, ErrNoLocalFile
	}

	if err := s.sink.SetFromLocalPath(ctx, *entry.LocalFilePath); err != nil {
		if errors.Is(err, wallpaper.ErrFileNotFound) {
			return model.Entry{}, fmt.Errorf("%w: %w", ErrNoLocalFile, err)
		}
		return model.Entry{}, wallpaperError("paint wallpaper", err)
	}
	return entry, nil
}

func (s *apodService) providerError(op string, err error) error {
	if errors.Is(err, nasa.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	upstream := &UpstreamError{Err: fmt.Errorf("%s: %w", op, err)}
	var statusErr *nasa.StatusError
	if errors.As(err, &statusErr) {
		upstream.StatusCode = statusErr.StatusCode
	}
	return upstream
}
