// In-memory display driver for tests.
package mock

import (
	"errors"
	"image"
	"image/draw"

	"allium/display"
)

const driverName = "mock"

type Driver struct{}

func (d *Driver) Open(opts display.Options) (display.Display, error) {
	w, h := opts.Width, opts.Height
	if w == 0 || h == 0 {
		w, h = 640, 480
	}
	return &Display{
		frame: image.NewRGBA(image.Rect(0, 0, w, h)),
	}, nil
}

// Display keeps the "visible" frame in memory. FailCapture makes Capture
// error so degraded-capture paths can be exercised.
type Display struct {
	frame  *image.RGBA
	layers []*image.RGBA

	FailCapture bool
	Composites  int
}

func (m *Display) Size() display.Size {
	r := m.frame.Bounds()
	return display.Size{W: r.Dx(), H: r.Dy()}
}

// SetFrame replaces the visible frame, standing in for a running game
// drawing to the screen.
func (m *Display) SetFrame(img image.Image) {
	draw.Draw(m.frame, m.frame.Bounds(), img, img.Bounds().Min, draw.Src)
}

// Frame exposes the visible frame for assertions.
func (m *Display) Frame() *image.RGBA { return m.frame }

func (m *Display) Capture() (*display.CaptureBuffer, error) {
	if m.FailCapture {
		return nil, errors.New("mock: capture failed")
	}

	img := image.NewRGBA(m.frame.Bounds())
	copy(img.Pix, m.frame.Pix)
	return display.NewCaptureBuffer(img), nil
}

func (m *Display) PushLayer() error {
	saved := image.NewRGBA(m.frame.Bounds())
	copy(saved.Pix, m.frame.Pix)
	m.layers = append(m.layers, saved)
	return nil
}

func (m *Display) PopLayer() bool {
	if len(m.layers) == 0 {
		return false
	}

	saved := m.layers[len(m.layers)-1]
	m.layers = m.layers[:len(m.layers)-1]
	copy(m.frame.Pix, saved.Pix)
	return true
}

func (m *Display) Composite(buf *display.CaptureBuffer, elements ...display.Element) error {
	scratch := buf.Clone()
	for _, e := range elements {
		e.Draw(scratch)
	}
	copy(m.frame.Pix, scratch.Pix)
	m.Composites++
	return nil
}

func (m *Display) Close() error {
	m.layers = nil
	return nil
}

func init() {
	display.Register(driverName, &Driver{})
}
