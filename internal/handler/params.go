package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"apod/server/internal/model"
	"apod/server/internal/service"
)

// parseDateParam reads a YYYY-MM-DD path parameter. Malformed input is ErrInvalidDate.
func parseDateParam(c echo.Context, name string) (time.Time, error) {
	d, err := model.ParseDate(c.Param(name))
	if err != nil {
		return time.Time{}, service.ErrInvalidDate
	}
	return d, nil
}
