package display

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholder(t *testing.T) {
	b := Placeholder(320, 240)

	assert.True(t, b.Degraded)
	assert.Equal(t, Size{W: 320, H: 240}, b.Size())
}

func TestCloneDoesNotAliasBuffer(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(1, 1, color.RGBA{R: 0xff, A: 0xff})
	b := NewCaptureBuffer(img)

	clone := b.Clone()
	clone.SetRGBA(1, 1, color.RGBA{G: 0xff, A: 0xff})

	// the captured frame is untouched by drawing on the clone
	got := b.Image().(*image.RGBA).RGBAAt(1, 1)
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, got)
}

func TestSavePNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shots", "frame.png")

	b := Placeholder(32, 32)
	require.NoError(t, b.SavePNG(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestScrimAndBorderDrawWithinBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))

	Scrim{Rect: image.Rect(0, 0, 16, 16), Alpha: 0x80}.Draw(img)
	Border{Rect: image.Rect(2, 2, 14, 14), Width: 2, Color: color.RGBA{B: 0xff, A: 0xff}}.Draw(img)
	Blit{Src: image.NewRGBA(image.Rect(0, 0, 4, 4)), At: image.Pt(6, 6)}.Draw(img)

	// border pixel is blue-ish, center of scrim darkened but not blue
	assert.NotZero(t, img.RGBAAt(2, 2).B)
}
