// SDL2 display driver, for running the switcher against a desktop window
// during development instead of a real framebuffer device.
package sdl

import (
	"fmt"
	"image"

	"allium/display"

	"github.com/veandco/go-sdl2/sdl"
)

const driverName = "sdl"

type Driver struct{}

func (d *Driver) Open(opts display.Options) (display.Display, error) {
	w, h := opts.Width, opts.Height
	if w == 0 || h == 0 {
		w, h = 640, 480
	}

	title := opts.Device
	if title == "" {
		title = "allium"
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdl: init: %w", err)
	}

	window, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(w), int32(h), sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdl: create window: %w", err)
	}

	surface, err := window.GetSurface()
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdl: window surface: %w", err)
	}

	return &Display{
		window:  window,
		surface: surface,
		w:       w,
		h:       h,
	}, nil
}

// Display renders through the window surface. The surface format is assumed
// ARGB8888, which is what SDL allocates for shown windows on the desktop
// targets we care about; pixel access therefore sees B,G,R,A byte order.
type Display struct {
	window  *sdl.Window
	surface *sdl.Surface
	w, h    int

	layers [][]byte
}

func (d *Display) Size() display.Size {
	return display.Size{W: d.w, H: d.h}
}

func (d *Display) Capture() (*display.CaptureBuffer, error) {
	pixels := d.surface.Pixels()
	pitch := int(d.surface.Pitch)

	img := image.NewRGBA(image.Rect(0, 0, d.w, d.h))
	for y := 0; y < d.h; y++ {
		for x := 0; x < d.w; x++ {
			i := y*pitch + x*4
			o := img.PixOffset(x, y)
			img.Pix[o+0] = pixels[i+2]
			img.Pix[o+1] = pixels[i+1]
			img.Pix[o+2] = pixels[i+0]
			img.Pix[o+3] = 0xff
		}
	}

	return display.NewCaptureBuffer(img), nil
}

func (d *Display) PushLayer() error {
	pixels := d.surface.Pixels()
	saved := make([]byte, len(pixels))
	copy(saved, pixels)
	d.layers = append(d.layers, saved)
	return nil
}

func (d *Display) PopLayer() bool {
	if len(d.layers) == 0 {
		return false
	}

	saved := d.layers[len(d.layers)-1]
	d.layers = d.layers[:len(d.layers)-1]
	copy(d.surface.Pixels(), saved)
	_ = d.window.UpdateSurface()
	return true
}

func (d *Display) Composite(buf *display.CaptureBuffer, elements ...display.Element) error {
	scratch := buf.Clone()
	for _, e := range elements {
		e.Draw(scratch)
	}

	pixels := d.surface.Pixels()
	pitch := int(d.surface.Pitch)
	for y := 0; y < d.h; y++ {
		for x := 0; x < d.w; x++ {
			o := scratch.PixOffset(x, y)
			i := y*pitch + x*4
			pixels[i+0] = scratch.Pix[o+2]
			pixels[i+1] = scratch.Pix[o+1]
			pixels[i+2] = scratch.Pix[o+0]
			pixels[i+3] = 0xff
		}
	}

	return d.window.UpdateSurface()
}

func (d *Display) Close() error {
	d.layers = nil
	err := d.window.Destroy()
	sdl.Quit()
	return err
}

func init() {
	display.Register(driverName, &Driver{})
}
