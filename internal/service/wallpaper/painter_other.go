//go:build !linux && !darwin && !windows

package wallpaper

import "context"

func NewPlatformPainter() Painter {
	return PainterFunc(func(context.Context, string) error { return ErrUnsupported })
}
