package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"apod/server/internal/model"
	"apod/server/internal/repository"
	repomock "apod/server/internal/repository/mock"
	"apod/server/internal/service"
	"apod/server/internal/service/nasa"
	nasamock "apod/server/internal/service/nasa/mock"
	"apod/server/internal/service/wallpaper"
	wallpapermock "apod/server/internal/service/wallpaper/mock"
)

// fixedNow is 2024-06-01 10:00 UTC.
var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type apodFixture struct {
	repo     *repomock.MockAPODRepository
	provider *nasamock.MockClient
	sink     *wallpapermock.MockSink
	svc      service.APODService
}

func newAPODFixture(t *testing.T) apodFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := apodFixture{
		repo:     repomock.NewMockAPODRepository(ctrl),
		provider: nasamock.NewMockClient(ctrl),
		sink:     wallpapermock.NewMockSink(ctrl),
	}
	f.svc = service.NewAPODService(f.repo, f.provider, f.sink, service.APODOptions{
		Location: time.UTC,
		Now:      func() time.Time { return fixedNow },
	})
	return f
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func stringPtr(s string) *string { return &s }

func imageRecord(d string) nasa.Record {
	return nasa.Record{Title: "T", Explanation: "E", URL: "http://x/y.jpg", MediaType: "image", Date: d}
}

func TestAPODService_Resolve_StoreHit(t *testing.T) {
	f := newAPODFixture(t)
	ctx := context.Background()
	d := date(t, "2024-01-01")

	stored := model.Entry{ID: 7, Title: "T", Date: d}
	f.repo.EXPECT().GetByDate(gomock.Any(), d).Return(stored, nil)

	entry, err := f.svc.Resolve(ctx, d)
	require.NoError(t, err)
	require.Equal(t, stored, entry)
}

func TestAPODService_Resolve_FetchesImageAndPersists(t *testing.T) {
	f := newAPODFixture(t)
	ctx := context.Background()
	d := date(t, "2024-01-01")

	gomock.InOrder(
		f.repo.EXPECT().GetByDate(gomock.Any(), d).Return(model.Entry{}, sql.ErrNoRows),
		f.provider.EXPECT().FetchByDate(gomock.Any(), d).Return(imageRecord("2024-01-01"), nil),
		f.sink.EXPECT().SetFromURL(gomock.Any(), "http://x/y.jpg", "2024-01-01_T").Return("/walls/2024-01-01_T.jpg", nil),
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e model.Entry) (model.Entry, error) {
			require.Equal(t, "T", e.Title)
			require.Equal(t, "E", e.Explanation)
			require.Equal(t, "image", e.MediaType)
			require.Equal(t, d, e.Date)
			require.Equal(t, fixedNow, e.CreatedAt)
			require.Equal(t, "/walls/2024-01-01_T.jpg", *e.LocalFilePath)
			e.ID = 42
			return e, nil
		}),
	)

	entry, err := f.svc.Resolve(ctx, d)
	require.NoError(t, err)
	require.EqualValues(t, 42, entry.ID)
	require.True(t, entry.HasLocalFile())
}

func TestAPODService_Resolve_MediaKindBranching(t *testing.T) {
	t.Run("video skips download", func(t *testing.T) {
		f := newAPODFixture(t)
		ctx := context.Background()
		d := date(t, "2024-02-02")

		rec := nasa.Record{Title: "V", URL: "https://youtube.com/embed/x", MediaType: "video", Date: "2024-02-02"}
		f.repo.EXPECT().GetByDate(gomock.Any(), d).Return(model.Entry{}, sql.ErrNoRows)
		f.provider.EXPECT().FetchByDate(gomock.Any(), d).Return(rec, nil)
		f.sink.EXPECT().SetFromURL(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e model.Entry) (model.Entry, error) {
			require.Nil(t, e.LocalFilePath)
			return e, nil
		})

		entry, err := f.svc.Resolve(ctx, d)
		require.NoError(t, err)
		require.False(t, entry.HasLocalFile())
	})

	t.Run("mixed case image downloads", func(t *testing.T) {
		f := newAPODFixture(t)
		ctx := context.Background()
		d := date(t, "2024-02-03")

		rec := imageRecord("2024-02-03")
		rec.MediaType = "Image"
		f.repo.EXPECT().GetByDate(gomock.Any(), d).Return(model.Entry{}, sql.ErrNoRows)
		f.provider.EXPECT().FetchByDate(gomock.Any(), d).Return(rec, nil)
		f.sink.EXPECT().SetFromURL(gomock.Any(), rec.URL, "2024-02-03_T").Return("/walls/x.jpg", nil)
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e model.Entry) (model.Entry, error) {
			return e, nil
		})

		entry, err := f.svc.Resolve(ctx, d)
		require.NoError(t, err)
		require.Equal(t, "/walls/x.jpg", *entry.LocalFilePath)
	})
}

func TestAPODService_Resolve_ValidationBoundary(t *testing.T) {
	f := newAPODFixture(t)
	ctx := context.Background()

	_, err := f.svc.Resolve(ctx, date(t, "1995-06-15"))
	require.ErrorIs(t, err, service.ErrInvalidDate)

	_, err = f.svc.Resolve(ctx, date(t, "2024-06-02"))
	require.ErrorIs(t, err, service.ErrInvalidDate)

	minDate := date(t, "1995-06-16")
	f.repo.EXPECT().GetByDate(gomock.Any(), minDate).Return(model.Entry{ID: 1, Date: minDate}, nil)
	_, err = f.svc.Resolve(ctx, minDate)
	require.NoError(t, err)

	today := date(t, "2024-06-01")
	f.repo.EXPECT().GetByDate(gomock.Any(), today).Return(model.Entry{ID: 2, Date: today}, nil)
	_, err = f.svc.Resolve(ctx, today)
	require.NoError(t, err)
}

func TestAPODService_Today_UsesLocation(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokyo := time.FixedZone("JST", 9*60*60)
	svc := service.NewAPODService(
		repomock.NewMockAPODRepository(ctrl), nasamock.NewMockClient(ctrl), wallpapermock.NewMockSink(ctrl),
		service.APODOptions{
			Location: tokyo,
			Now:      func() time.Time { return time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC) },
		},
	)

	require.Equal(t, date(t, "2024-06-02"), svc.Today())
	require.NoError(t, svc.ValidateDate(date(t, "2024-06-02")))
}

func TestAPODService_Resolve_ProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "not found", err: nasa.ErrNotFound, wantErr: service.ErrNotFound},
		{name: "status", err: &nasa.StatusError{StatusCode: 503}, wantErr: service.ErrUpstream},
		{name: "malformed", err: nasa.ErrMalformed, wantErr: service.ErrUpstream},
		{name: "transport", err: errors.New("connection reset"), wantErr: service.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPODFixture(t)
			ctx := context.Background()
			d := date(t, "2024-01-01")

			f.repo.EXPECT().GetByDate(gomock.Any(), d).Return(model.Entry{}, sql.ErrNoRows)
			f.provider.EXPECT().FetchByDate(gomock.Any(), d).Return(nasa.Record{}, tt.err)

			_, err := f.svc.Resolve(ctx, d)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAPODService_Resolve_UpstreamStatusCode(t *testing.T) {
	f := newAPODFixture(t)
	ctx := context.Background()
	d := date(t, "2024-01-01")

	f.repo.EXPECT().GetByDate(gomock.Any(), d).Return(model.Entry{}, sql.ErrNoRows)
	f.provider.EXPECT().FetchByDate(gomock.Any(), d).Return(nasa.Record{}, &nasa.StatusError{StatusCode: 429})

	_, err := f.svc.Resolve(ctx, d)
	var upstream *service.UpstreamError
	require.True(t, errors.As(err, &upstream))
	require.Equal(t, 429, upstream.StatusCode)
}

func TestAPODService_Resolve_BadRecordDate(t *testing.T) {
	f := newAPODFixture(t)
	ctx := context.Background()
	d := date(t, "2024-01-01")

	f.repo.EXPECT().GetByDate(gomock.Any(), d).Return(model.Entry{}, sql.ErrNoRows)
	f.provider.EXPECT().FetchByDate(gomock.Any(), d).Return(imageRecord("Jan 1 2024"), nil)

	_, err := f.svc.Resolve(ctx, d)
	require.ErrorIs(t, err, service.ErrUpstream)
	require.ErrorIs(t, err, nasa.ErrMalformed)
}

func TestAPODService_Resolve_MismatchedRecordDate(t *testing.T) {
	f := newAPODFixture(t)
	ctx := context.Background()
	d := date(t, "2024-01-01")

	f.repo.EXPECT().GetByDate(gomock.Any(), d).Return(model.Entry{}, sql.ErrNoRows)
	f.provider.EXPECT().FetchByDate(gomock.Any(), d).Return(imageRecord("2023-12-31"), nil)

	_, err := f.svc.Resolve(ctx, d)
	require.ErrorIs(t, err, service.ErrUpstream)
}

func TestAPODService_Resolve_WallpaperFailureDoesNotPersist(t *testing.T) {
	f := newAPODFixture(t)
	ctx := context.Background()
	d := date(t, "2024-01-01")

	f.repo.EXPECT().GetByDate(gomock.Any(), d).Return(model.Entry{}, sql.ErrNoRows)
	f.provider.EXPECT().FetchByDate(gomock.Any(), d).Return(imageRecord("2024-01-01"), nil)
	f.sink.EXPECT().SetFromURL(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("disk full"))
	f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := f.svc.Resolve(ctx, d)
	require.ErrorIs(t, err, service.ErrWallpaper)
	require.NotErrorIs(t, err, service.ErrStore)
}

func TestAPODService_Resolve_StoreErrors(t *testing.T) {
	f := newAPODFixture(t)
	ctx := context.Background()
	d := date(t, "2024-01-01")

	f.repo.EXPECT().GetByDate(gomock.Any(), d).Return(model.Entry{}, errors.New("disk I/O error"))

	_, err := f.svc.Resolve(ctx, d)
	require.ErrorIs(t, err, service.ErrStore)
}

func TestAPODService_Resolve_LosesInsertRace(t *testing.T) {
	f := newAPODFixture(t)
	ctx := context.Background()
	d := date(t, "2024-01-01")
	winner := model.Entry{ID: 99, Title: "T", Date: d, MediaType: "video"}

	rec := imageRecord("2024-01-01")
	rec.MediaType = "video"
	gomock.InOrder(
		f.repo.EXPECT().GetByDate(gomock.Any(), d).Return(model.Entry{}, sql.ErrNoRows),
		f.provider.EXPECT().FetchByDate(gomock.Any(), d).Return(rec, nil),
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(model.Entry{}, repository.ErrDuplicate),
		f.repo.EXPECT().GetByDate(gomock.Any(), d).Return(winner, nil),
	)

	entry, err := f.svc.Resolve(ctx, d)
	require.NoError(t, err)
	require.Equal(t, winner, entry)
}

func TestAPODService_ResolveLatest(t *testing.T) {
	t.Run("persists new record", func(t *testing.T) {
		f := newAPODFixture(t)
		ctx := context.Background()
		d := date(t, "2024-05-31")

		f.provider.EXPECT().FetchLatest(gomock.Any()).Return(imageRecord("2024-05-31"), nil)
		f.repo.EXPECT().GetByDate(gomock.Any(), d).Return(model.Entry{}, sql.ErrNoRows)
		f.sink.EXPECT().SetFromURL(gomock.Any(), "http://x/y.jpg", "2024-05-31_T").Return("/walls/a.jpg", nil)
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e model.Entry) (model.Entry, error) {
			e.ID = 5
			return e, nil
		})

		entry, err := f.svc.ResolveLatest(ctx)
		require.NoError(t, err)
		require.EqualValues(t, 5, entry.ID)
		require.Equal(t, d, entry.Date)
	})

	t.Run("already stored is a pure read", func(t *testing.T) {
		f := newAPODFixture(t)
		ctx := context.Background()
		d := date(t, "2024-05-31")
		stored := model.Entry{ID: 3, Date: d}

		f.provider.EXPECT().FetchLatest(gomock.Any()).Return(imageRecord("2024-05-31"), nil)
		f.repo.EXPECT().GetByDate(gomock.Any(), d).Return(stored, nil)
		f.sink.EXPECT().SetFromURL(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		entry, err := f.svc.ResolveLatest(ctx)
		require.NoError(t, err)
		require.Equal(t, stored, entry)
	})

	t.Run("provider failure", func(t *testing.T) {
		f := newAPODFixture(t)
		ctx := context.Background()

		f.provider.EXPECT().FetchLatest(gomock.Any()).Return(nasa.Record{}, &nasa.StatusError{StatusCode: 500})

		_, err := f.svc.ResolveLatest(ctx)
		require.ErrorIs(t, err, service.ErrUpstream)
	})
}

func TestAPODService_RefreshToday(t *testing.T) {
	today := date(t, "2024-06-01")

	t.Run("skips when today is stored", func(t *testing.T) {
		f := newAPODFixture(t)
		ctx := context.Background()

		f.repo.EXPECT().ExistsByDate(gomock.Any(), today).Return(true, nil)
		f.provider.EXPECT().FetchLatest(gomock.Any()).Times(0)

		created, err := f.svc.RefreshToday(ctx)
		require.NoError(t, err)
		require.False(t, created)
	})

	t.Run("stores latest", func(t *testing.T) {
		f := newAPODFixture(t)
		ctx := context.Background()

		f.repo.EXPECT().ExistsByDate(gomock.Any(), today).Return(false, nil)
		f.provider.EXPECT().FetchLatest(gomock.Any()).Return(imageRecord("2024-06-01"), nil)
		f.repo.EXPECT().GetByDate(gomock.Any(), today).Return(model.Entry{}, sql.ErrNoRows)
		f.sink.EXPECT().SetFromURL(gomock.Any(), gomock.Any(), "2024-06-01_T").Return("/walls/t.jpg", nil)
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e model.Entry) (model.Entry, error) {
			return e, nil
		})

		created, err := f.svc.RefreshToday(ctx)
		require.NoError(t, err)
		require.True(t, created)
	})

	t.Run("latest not published yet", func(t *testing.T) {
		f := newAPODFixture(t)
		ctx := context.Background()
		yesterday := date(t, "2024-05-31")

		f.repo.EXPECT().ExistsByDate(gomock.Any(), today).Return(false, nil)
		f.provider.EXPECT().FetchLatest(gomock.Any()).Return(imageRecord("2024-05-31"), nil)
		f.repo.EXPECT().GetByDate(gomock.Any(), yesterday).Return(model.Entry{ID: 1, Date: yesterday}, nil)

		created, err := f.svc.RefreshToday(ctx)
		require.NoError(t, err)
		require.False(t, created)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newAPODFixture(t)
		ctx := context.Background()

		f.repo.EXPECT().ExistsByDate(gomock.Any(), today).Return(false, errors.New("locked"))

		_, err := f.svc.RefreshToday(ctx)
		require.ErrorIs(t, err, service.ErrStore)
	})
}

func TestAPODService_ListAllAndNewest(t *testing.T) {
	f := newAPODFixture(t)
	ctx := context.Background()

	entries := []model.Entry{{ID: 2}, {ID: 1}}
	f.repo.EXPECT().List(gomock.Any()).Return(entries, nil)
	got, err := f.svc.ListAll(ctx)
	require.NoError(t, err)
	require.Equal(t, entries, got)

	f.repo.EXPECT().List(gomock.Any()).Return(nil, errors.New("boom"))
	_, err = f.svc.ListAll(ctx)
	require.ErrorIs(t, err, service.ErrStore)

	f.repo.EXPECT().Latest(gomock.Any()).Return(model.Entry{}, sql.ErrNoRows)
	_, err = f.svc.NewestStored(ctx)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestAPODService_SetWallpaper(t *testing.T) {
	d := date(t, "2024-01-01")

	t.Run("paints local file", func(t *testing.T) {
		f := newAPODFixture(t)
		ctx := context.Background()
		stored := model.Entry{ID: 1, Date: d, LocalFilePath: stringPtr("/walls/a.jpg")}

		f.repo.EXPECT().GetByDate(gomock.Any(), d).Return(stored, nil)
		f.sink.EXPECT().SetFromLocalPath(gomock.Any(), "/walls/a.jpg").Return(nil)

		entry, err := f.svc.SetWallpaper(ctx, d)
		require.NoError(t, err)
		require.Equal(t, stored, entry)
	})

	t.Run("no local file", func(t *testing.T) {
		f := newAPODFixture(t)
		ctx := context.Background()

		f.repo.EXPECT().GetByDate(gomock.Any(), d).Return(model.Entry{ID: 1, Date: d, MediaType: "video"}, nil)

		_, err := f.svc.SetWallpaper(ctx, d)
		require.ErrorIs(t, err, service.ErrNoLocalFile)
	})

	t.Run("file deleted from disk", func(t *testing.T) {
		f := newAPODFixture(t)
		ctx := context.Background()

		f.repo.EXPECT().GetByDate(gomock.Any(), d).Return(model.Entry{ID: 1, Date: d, LocalFilePath: stringPtr("/gone.jpg")}, nil)
		f.sink.EXPECT().SetFromLocalPath(gomock.Any(), "/gone.jpg").Return(wallpaper.ErrFileNotFound)

		_, err := f.svc.SetWallpaper(ctx, d)
		require.ErrorIs(t, err, service.ErrNoLocalFile)
	})

	t.Run("painter failure", func(t *testing.T) {
		f := newAPODFixture(t)
		ctx := context.Background()

		f.repo.EXPECT().GetByDate(gomock.Any(), d).Return(model.Entry{ID: 1, Date: d, LocalFilePath: stringPtr("/walls/a.jpg")}, nil)
		f.sink.EXPECT().SetFromLocalPath(gomock.Any(), "/walls/a.jpg").Return(wallpaper.ErrUnsupported)

		_, err := f.svc.SetWallpaper(ctx, d)
		require.ErrorIs(t, err, service.ErrWallpaper)
	})

	t.Run("invalid date", func(t *testing.T) {
		f := newAPODFixture(t)

		_, err := f.svc.SetWallpaper(context.Background(), date(t, "1990-01-01"))
		require.ErrorIs(t, err, service.ErrInvalidDate)
	})
}

func TestAPODService_Resolve_CallerCancelDoesNotFailOthers(t *testing.T) {
	f := newAPODFixture(t)
	d := date(t, "2024-01-01")
	rec := nasa.Record{Title: "T", URL: "https://youtube.test/v", MediaType: "video", Date: "2024-01-01"}

	started := make(chan struct{})
	release := make(chan struct{})
	f.repo.EXPECT().GetByDate(gomock.Any(), d).Return(model.Entry{}, sql.ErrNoRows).Times(2)
	f.provider.EXPECT().FetchByDate(gomock.Any(), d).DoAndReturn(func(ctx context.Context, _ time.Time) (nasa.Record, error) {
		close(started)
		<-release
		return rec, ctx.Err()
	}).Times(1)
	f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e model.Entry) (model.Entry, error) {
		e.ID = 42
		return e, nil
	})

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := f.svc.Resolve(ctxA, d)
		errA <- err
	}()
	<-started

	type result struct {
		entry model.Entry
		err   error
	}
	resB := make(chan result, 1)
	go func() {
		entry, err := f.svc.Resolve(context.Background(), d)
		resB <- result{entry, err}
	}()
	// Let B join the in-flight fetch.
	time.Sleep(100 * time.Millisecond)

	cancelA()
	require.ErrorIs(t, <-errA, context.Canceled)

	close(release)
	got := <-resB
	require.NoError(t, got.err)
	require.Equal(t, int64(42), got.entry.ID)
}

func TestAPODService_ResolveLatest_CallerCancelDoesNotFailOthers(t *testing.T) {
	f := newAPODFixture(t)
	d := date(t, "2024-06-01")

	started := make(chan struct{})
	release := make(chan struct{})
	f.provider.EXPECT().FetchLatest(gomock.Any()).DoAndReturn(func(ctx context.Context) (nasa.Record, error) {
		close(started)
		<-release
		return nasa.Record{Title: "T", URL: "u", MediaType: "video", Date: "2024-06-01"}, ctx.Err()
	}).Times(1)
	f.repo.EXPECT().GetByDate(gomock.Any(), d).Return(model.Entry{ID: 7, Date: d}, nil)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := f.svc.ResolveLatest(ctxA)
		errA <- err
	}()
	<-started

	errB := make(chan error, 1)
	go func() {
		_, err := f.svc.ResolveLatest(context.Background())
		errB <- err
	}()
	time.Sleep(100 * time.Millisecond)

	cancelA()
	require.ErrorIs(t, <-errA, context.Canceled)

	close(release)
	require.NoError(t, <-errB)
}
