//go:build windows

package wallpaper

import (
	"context"
	"fmt"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const (
	spiSetDeskWallpaper = 0x0014
	spifUpdateIniFile   = 0x01
	spifSendChange      = 0x02
)

var (
	user32                    = windows.NewLazySystemDLL("user32.dll")
	procSystemParametersInfoW = user32.NewProc("SystemParametersInfoW")
)

// NewPlatformPainter sets a stretched wallpaper through SystemParametersInfoW.
func NewPlatformPainter() Painter {
	return PainterFunc(paintWindows)
}

func paintWindows(ctx context.Context, imagePath string) error {
	abs, err := filepath.Abs(imagePath)
	if err != nil {
		return err
	}

	if key, err := registry.OpenKey(registry.CURRENT_USER, `Control Panel\Desktop`, registry.SET_VALUE); err == nil {
		_ = key.SetStringValue("WallpaperStyle", "2")
		_ = key.SetStringValue("TileWallpaper", "0")
		_ = key.Close()
	}

	p, err := windows.UTF16PtrFromString(abs)
	if err != nil {
		return err
	}
	r1, _, callErr := procSystemParametersInfoW.Call(
		spiSetDeskWallpaper,
		0,
		uintptr(unsafe.Pointer(p)),
		spifUpdateIniFile|spifSendChange,
	)
	if r1 == 0 {
		return fmt.Errorf("SystemParametersInfoW: %w", callErr)
	}
	return nil
}
