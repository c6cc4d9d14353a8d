package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"apod/server/internal/logger"
	"apod/server/internal/model"
	"apod/server/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

// EntryResponse is the JSON shape of an entry.
type EntryResponse struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Explanation   string  `json:"explanation"`
	URL           string  `json:"url"`
	MediaType     string  `json:"mediaType"`
	Date          string  `json:"date"`
	CreatedAt     string  `json:"createdAt"`
	LocalFilePath *string `json:"localFilePath,omitempty"`
}

// ToEntryResponse formats ids as decimal strings and dates as YYYY-MM-DD.
func ToEntryResponse(e model.Entry) EntryResponse {
	return EntryResponse{
		ID:            idToString(e.ID),
		Title:         e.Title,
		Explanation:   e.Explanation,
		URL:           e.URL,
		MediaType:     e.MediaType,
		Date:          model.FormatDate(e.Date),
		CreatedAt:     e.CreatedAt.UTC().Format(time.RFC3339Nano),
		LocalFilePath: e.LocalFilePath,
	}
}

func idToString(id int64) string {
	return strconv.FormatInt(id, 10)
}

// writeServiceError maps service sentinels to status codes. 500-class bodies
// never carry the underlying error.
func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidDate):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid date"})
	case errors.Is(err, service.ErrNoLocalFile):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "entry has no local image file"})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "resource not found"})
	case errors.Is(err, service.ErrWallpaper):
		logServerError(c, err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "wallpaper operation failed"})
	default:
		logServerError(c, err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func logServerError(c echo.Context, err error) {
	logger.Error("request failed", "module", "handler", "action", "request", "resource", "http", "result", "failed", "path", c.Request().URL.Path, "error", err)
}
