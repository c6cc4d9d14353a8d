//go:build darwin

package wallpaper

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// NewPlatformPainter drives System Events through osascript.
func NewPlatformPainter() Painter {
	return PainterFunc(paintDarwin)
}

func paintDarwin(ctx context.Context, imagePath string) error {
	abs, err := filepath.Abs(imagePath)
	if err != nil {
		return err
	}
	escaped := strings.ReplaceAll(abs, `"`, `\"`)
	script := fmt.Sprintf(`tell application "System Events" to tell every desktop to set picture to "%s"`, escaped)
	if out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput(); err != nil {
		return fmt.Errorf("osascript: %w: %s", err, out)
	}
	return nil
}
