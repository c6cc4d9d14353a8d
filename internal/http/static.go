package http

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"apod/server/internal/logger"
)

const wallpaperRoute = "/wallpapers"

// registerWallpapers serves downloaded images read-only from dir.
func registerWallpapers(e *echo.Echo, dir string) {
	if dir == "" {
		return
	}
	logger.Info("wallpaper files enabled", "module", "http", "action", "request", "resource", "wallpaper", "result", "ok", "dir", dir)

	e.GET(wallpaperRoute+"/:file", func(c echo.Context) error {
		name := c.Param("file")
		cleanPath := strings.TrimPrefix(path.Clean("/"+name), "/")
		if cleanPath == "" || cleanPath == "." || strings.ContainsAny(cleanPath, `/\`) {
			return echo.ErrNotFound
		}

		candidate := filepath.Join(dir, cleanPath)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			logger.Debug("wallpaper file missing", "module", "http", "action", "fetch", "resource", "wallpaper", "result", "failed", "path", cleanPath)
			return echo.ErrNotFound
		}

		logger.Debug("wallpaper file served", "module", "http", "action", "fetch", "resource", "wallpaper", "result", "ok", "path", cleanPath)
		return c.File(candidate)
	})
}
