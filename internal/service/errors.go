package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrNotFound    = errors.New("not found")
	ErrUpstream    = errors.New("upstream provider failed")
	ErrWallpaper   = errors.New("wallpaper operation failed")
	ErrStore       = errors.New("store operation failed")
	ErrNoLocalFile = errors.New("no local file available")
)

// UpstreamError is returned when the provider call or its payload failed.
type UpstreamError struct {
	// StatusCode is the provider's HTTP status, 0 for transport or decode failures.
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream provider failed (HTTP %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream provider failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}

func wallpaperError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrWallpaper, err)
}
