package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"apod/server/internal/service"
)

type APODHandler struct {
	cached service.CachedAPODService
	apod   service.APODService
}

func NewAPODHandler(cached service.CachedAPODService, apod service.APODService) *APODHandler {
	return &APODHandler{cached: cached, apod: apod}
}

func (h *APODHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/apod", h.List)
	// Static segment first so "latest" is never parsed as a date.
	g.GET("/apod/latest", h.GetLatest)
	g.GET("/apod/:date", h.GetByDate)
	g.POST("/apod/wallpaper/:date", h.SetWallpaper)
	g.POST("/apod/clear-cache", h.ClearCache)
}

// List returns every stored entry.
// @Summary List entries
// @Description Get all stored entries, newest first
// @Tags apod
// @Produce json
// @Success 200 {array} EntryResponse
// @Failure 500 {object} errorResponse
// @Router /apod [get]
func (h *APODHandler) List(c echo.Context) error {
	entries, err := h.cached.List(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}

	response := make([]EntryResponse, len(entries))
	for i, e := range entries {
		response[i] = ToEntryResponse(e)
	}
	return c.JSON(http.StatusOK, response)
}

// GetLatest returns the most recent entry.
// @Summary Get latest entry
// @Tags apod
// @Produce json
// @Success 200 {object} EntryResponse
// @Failure 404 {object} errorResponse
// @Router /apod/latest [get]
func (h *APODHandler) GetLatest(c echo.Context) error {
	entry, err := h.cached.GetLatest(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, ToEntryResponse(entry))
}

// GetByDate returns the entry for one calendar date, fetching it if needed.
// @Summary Get entry by date
// @Tags apod
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} EntryResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /apod/{date} [get]
func (h *APODHandler) GetByDate(c echo.Context) error {
	date, err := parseDateParam(c, "date")
	if err != nil {
		return writeServiceError(c, err)
	}

	entry, err := h.cached.GetByDate(c.Request().Context(), date)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, ToEntryResponse(entry))
}

// SetWallpaper resolves the entry and paints its downloaded image.
// @Summary Set wallpaper
// @Tags apod
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} EntryResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /apod/wallpaper/{date} [post]
func (h *APODHandler) SetWallpaper(c echo.Context) error {
	date, err := parseDateParam(c, "date")
	if err != nil {
		return writeServiceError(c, err)
	}

	entry, err := h.apod.SetWallpaper(c.Request().Context(), date)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, ToEntryResponse(entry))
}

// ClearCache drops every memoized result.
// @Summary Clear cache
// @Tags apod
// @Success 204
// @Router /apod/clear-cache [post]
func (h *APODHandler) ClearCache(c echo.Context) error {
	h.cached.ClearCache()
	return c.NoContent(http.StatusNoContent)
}
