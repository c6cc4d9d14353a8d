package wallpaper

//go:generate mockgen -destination=mock/sink.go -package=mock apod/server/internal/service/wallpaper Sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"apod/server/internal/config"
	"apod/server/internal/logger"
	"apod/server/internal/metrics"
	"apod/server/internal/network"
)

const (
	downloadTimeout = 2 * time.Minute
	defaultExt      = ".jpg"
	maxLabelLen     = 120
	// DefaultMaxBytes caps a single download. Provider HD images are well below it.
	DefaultMaxBytes = 100 << 20
)

var (
	// ErrFileNotFound is returned when a local wallpaper file is missing.
	ErrFileNotFound = errors.New("wallpaper image not found")
	// ErrUnsupported is returned by painters on platforms without a known mechanism.
	ErrUnsupported = errors.New("wallpaper painting not supported on this platform")
	// ErrTooLarge is returned when an image exceeds the download cap.
	ErrTooLarge = errors.New("wallpaper image too large")
)

// Sink downloads pictures to stable local paths and paints them as the desktop background.
type Sink interface {
	// SetFromURL downloads imageURL under a name derived from label and,
	// when automatic painting is enabled, paints it. Returns the local path.
	SetFromURL(ctx context.Context, imageURL, label string) (string, error)
	// SetFromLocalPath paints an already downloaded file.
	SetFromLocalPath(ctx context.Context, localPath string) error
}

// Painter is the OS-specific mechanism that sets the desktop background.
type Painter interface {
	Paint(ctx context.Context, imagePath string) error
}

// PainterFunc adapts a function to Painter.
type PainterFunc func(ctx context.Context, imagePath string) error

func (f PainterFunc) Paint(ctx context.Context, imagePath string) error {
	return f(ctx, imagePath)
}

type Options struct {
	Dir string
	// AutoPaint paints every freshly downloaded picture.
	AutoPaint bool
	Painter   Painter
	Metrics   *metrics.Metrics
	// MaxBytes caps each download; zero means DefaultMaxBytes.
	MaxBytes int64
}

type service struct {
	dir        string
	autoPaint  bool
	painter    Painter
	httpClient *http.Client
	metrics    *metrics.Metrics
	maxBytes   int64
}

// NewService creates the wallpaper sink. A nil Painter selects the platform painter.
func NewService(opts Options, clientFactory *network.ClientFactory) Sink {
	painter := opts.Painter
	if painter == nil {
		painter = NewPlatformPainter()
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &service{
		maxBytes:   maxBytes,
		dir:        opts.Dir,
		autoPaint:  opts.AutoPaint,
		painter:    painter,
		httpClient: clientFactory.NewHTTPClient(downloadTimeout),
		metrics:    opts.Metrics,
	}
}

func (s *service) SetFromURL(ctx context.Context, imageURL, label string) (string, error) {
	localPath, err := s.download(ctx, imageURL, label)
	if err != nil {
		s.metrics.ObserveWallpaperDownload("failed")
		logger.Error("wallpaper download failed", "module", "wallpaper", "action", "download", "resource", "image", "result", "failed", "url", imageURL, "error", err)
		return "", err
	}
	s.metrics.ObserveWallpaperDownload("ok")

	if s.autoPaint {
		if err := s.paint(ctx, localPath); err != nil {
			return "", err
		}
	}
	return localPath, nil
}

func (s *service) SetFromLocalPath(ctx context.Context, localPath string) error {
	info, err := os.Stat(localPath)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", ErrFileNotFound, localPath)
	}
	return s.paint(ctx, localPath)
}

func (s *service) paint(ctx context.Context, localPath string) error {
	if err := s.painter.Paint(ctx, localPath); err != nil {
		logger.Error("wallpaper paint failed", "module", "wallpaper", "action", "paint", "resource", "desktop", "result", "failed", "path", localPath, "error", err)
		return fmt.Errorf("paint wallpaper: %w", err)
	}
	logger.Info("wallpaper set", "module", "wallpaper", "action", "paint", "resource", "desktop", "result", "ok", "path", localPath)
	return nil
}

// download stores the image at <dir>/<label><ext>. An existing file is reused,
// so the same label always maps to the same path.
func (s *service) download(ctx context.Context, imageURL, label string) (string, error) {
	fullPath := filepath.Join(s.dir, FileName(imageURL, label))
	if info, err := os.Stat(fullPath); err == nil && !info.IsDir() && info.Size() > 0 {
		return fullPath, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", config.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download image: HTTP %d", resp.StatusCode)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create wallpaper dir: %w", err)
	}

	// Write to a temp file first so a failed transfer never leaves a
	// truncated file at the stable path.
	tmp, err := os.CreateTemp(s.dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	written, err := io.Copy(tmp, io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write image: %w", err)
	}
	if written > s.maxBytes {
		_ = tmp.Close()
		return "", fmt.Errorf("%w: larger than %d bytes", ErrTooLarge, s.maxBytes)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close image: %w", err)
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		return "", fmt.Errorf("move image: %w", err)
	}

	logger.Info("wallpaper downloaded", "module", "wallpaper", "action", "download", "resource", "image", "result", "ok", "path", fullPath)
	return fullPath, nil
}

// FileName derives the local file name from the label and the URL's extension.
func FileName(imageURL, label string) string {
	ext := defaultExt
	if u, err := url.Parse(imageURL); err == nil {
		if e := strings.ToLower(path.Ext(u.Path)); e != "" && len(e) <= 5 {
			ext = e
		}
	}
	return SanitizeLabel(label) + ext
}

// SanitizeLabel replaces characters that are not valid in file names.
func SanitizeLabel(label string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(label) {
		switch {
		case r < 0x20, strings.ContainsRune(`<>:"/\|?*`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), ". ")
	if len(out) > maxLabelLen {
		n := maxLabelLen
		for n > 0 && !utf8.RuneStart(out[n]) {
			n--
		}
		out = strings.TrimRight(out[:n], ". ")
	}
	if out == "" {
		out = "apod"
	}
	return out
}
