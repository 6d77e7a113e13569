package display

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
)

// CaptureBuffer is one captured frame in logical orientation. It is owned by
// whoever captured it for the duration of a switch session and is released
// with the session; nothing retains it afterwards.
type CaptureBuffer struct {
	img *image.RGBA

	// Degraded marks a placeholder produced when the real capture failed.
	Degraded bool
}

func NewCaptureBuffer(img *image.RGBA) *CaptureBuffer {
	return &CaptureBuffer{img: img}
}

// Placeholder builds a flat dark frame used when capture fails. Switching
// must never be blocked by a missing screenshot.
func Placeholder(w, h int) *CaptureBuffer {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 0x20, G: 0x20, B: 0x24, A: 0xff}), image.Point{}, draw.Src)
	return &CaptureBuffer{img: img, Degraded: true}
}

func (b *CaptureBuffer) Size() Size {
	r := b.img.Bounds()
	return Size{W: r.Dx(), H: r.Dy()}
}

// Image exposes the frame read-only. Compositing draws onto copies, never
// onto this image.
func (b *CaptureBuffer) Image() image.Image { return b.img }

// Clone returns a mutable copy for compositing.
func (b *CaptureBuffer) Clone() *image.RGBA {
	dst := image.NewRGBA(b.img.Bounds())
	copy(dst.Pix, b.img.Pix)
	return dst
}

// SavePNG writes the frame to path, creating parent directories as needed.
func (b *CaptureBuffer) SavePNG(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("display: mkdir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("display: create %s: %w", path, err)
	}

	err = png.Encode(f, b.img)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("display: encode %s: %w", path, err)
	}
	return nil
}

// Element is one UI item composited over a captured frame. Coordinates are
// logical.
type Element interface {
	Draw(dst draw.Image)
}

// Scrim dims a region under translucent black, the backdrop the switcher
// draws its cards on.
type Scrim struct {
	Rect  image.Rectangle
	Alpha uint8
}

func (s Scrim) Draw(dst draw.Image) {
	draw.Draw(dst, s.Rect, image.NewUniform(color.RGBA{A: s.Alpha}), image.Point{}, draw.Over)
}

// Blit places an image (a card thumbnail, a hint strip) at a point.
type Blit struct {
	Src image.Image
	At  image.Point
}

func (b Blit) Draw(dst draw.Image) {
	r := b.Src.Bounds().Sub(b.Src.Bounds().Min).Add(b.At)
	draw.Draw(dst, r, b.Src, b.Src.Bounds().Min, draw.Over)
}

// Border outlines a rectangle, used to mark the selected card.
type Border struct {
	Rect  image.Rectangle
	Width int
	Color color.RGBA
}

func (b Border) Draw(dst draw.Image) {
	u := image.NewUniform(b.Color)
	r := b.Rect
	w := b.Width
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w), u, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y), u, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y), u, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(r.Max.X-w, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Over)
}
