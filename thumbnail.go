package posekit

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// ThumbSize is the square edge length of gallery thumbnails in pixels.
const ThumbSize = 160

// FrameSource supplies the current rendered frame. The renderer renders
// once before reading so the capture reflects the latest scene state.
type FrameSource interface {
	Frame() (image.Image, error)
}

// FrameSourceFunc adapts a function to FrameSource.
type FrameSourceFunc func() (image.Image, error)

func (f FrameSourceFunc) Frame() (image.Image, error) { return f() }

// Thumbnailer produces a displayable thumbnail string for the current
// frame.
type Thumbnailer interface {
	Capture() (string, error)
}

// PNGThumbnailer scales the current frame down to a fixed square, encodes
// it as PNG and returns a base64 data URL.
type PNGThumbnailer struct {
	Source FrameSource
	Size   int
}

func NewPNGThumbnailer(source FrameSource) *PNGThumbnailer {
	return &PNGThumbnailer{Source: source, Size: ThumbSize}
}

func (t *PNGThumbnailer) Capture() (string, error) {
	if t.Source == nil {
		return "", fmt.Errorf("thumbnail: no frame source")
	}
	frame, err := t.Source.Frame()
	if err != nil {
		return "", fmt.Errorf("thumbnail: frame: %w", err)
	}
	if frame == nil {
		return "", fmt.Errorf("thumbnail: empty frame")
	}

	size := t.Size
	if size <= 0 {
		size = ThumbSize
	}

	// Center-crop to square before scaling so the figure is not squashed.
	b := frame.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	crop := image.Rect(0, 0, side, side).Add(image.Pt(
		b.Min.X+(b.Dx()-side)/2,
		b.Min.Y+(b.Dy()-side)/2,
	))

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), frame, crop, draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return "", fmt.Errorf("thumbnail: encode: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
