//go:build linux

package wallpaper

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
)

// NewPlatformPainter uses gsettings (GNOME) and falls back to feh.
func NewPlatformPainter() Painter {
	return PainterFunc(paintLinux)
}

func paintLinux(ctx context.Context, imagePath string) error {
	abs, err := filepath.Abs(imagePath)
	if err != nil {
		return err
	}

	if _, err := exec.LookPath("gsettings"); err == nil {
		uri := "file://" + abs
		for _, key := range []string{"picture-uri", "picture-uri-dark"} {
			out, err := exec.CommandContext(ctx, "gsettings", "set", "org.gnome.desktop.background", key, uri).CombinedOutput()
			if err != nil && key == "picture-uri" {
				return fmt.Errorf("gsettings: %w: %s", err, out)
			}
		}
		return nil
	}

	if _, err := exec.LookPath("feh"); err == nil {
		if out, err := exec.CommandContext(ctx, "feh", "--bg-fill", abs).CombinedOutput(); err != nil {
			return fmt.Errorf("feh: %w: %s", err, out)
		}
		return nil
	}

	return ErrUnsupported
}
