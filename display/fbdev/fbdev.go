//go:build linux

// Linux framebuffer display driver. This is the surface used on the device
// itself, where the emulator and the switcher share a single /dev/fb0 and the
// panel may be mounted upside down (the Miyoo Mini is).
package fbdev

import (
	"fmt"
	"image"
	"os"
	"unsafe"

	"allium/display"

	"github.com/op/go-logging"
	"golang.org/x/sys/unix"
)

var log = logging.MustGetLogger("fbdev")

const driverName = "fbdev"

const fbiogetVScreenInfo = 0x4600

type fbBitfield struct {
	Offset   uint32
	Length   uint32
	MSBRight uint32
}

type fbVarScreenInfo struct {
	XRes         uint32
	YRes         uint32
	XResVirtual  uint32
	YResVirtual  uint32
	XOffset      uint32
	YOffset      uint32
	BitsPerPixel uint32
	Grayscale    uint32
	Red          fbBitfield
	Green        fbBitfield
	Blue         fbBitfield
	Transp       fbBitfield
	NonStd       uint32
	Activate     uint32
	Height       uint32
	Width        uint32
	AccelFlags   uint32
	PixClock     uint32
	LeftMargin   uint32
	RightMargin  uint32
	UpperMargin  uint32
	LowerMargin  uint32
	HSyncLen     uint32
	VSyncLen     uint32
	Sync         uint32
	VMode        uint32
	Rotate       uint32
	Colorspace   uint32
	Reserved     [4]uint32
}

type Driver struct{}

func (d *Driver) Open(opts display.Options) (display.Display, error) {
	device := opts.Device
	if device == "" {
		device = "/dev/fb0"
	}

	f, err := os.OpenFile(device, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("fbdev: open %s: %w", device, err)
	}

	var vinfo fbVarScreenInfo
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), fbiogetVScreenInfo, uintptr(unsafe.Pointer(&vinfo)))
	if errno != 0 {
		_ = f.Close()
		return nil, fmt.Errorf("fbdev: FBIOGET_VSCREENINFO %s: %w", device, errno)
	}

	if vinfo.BitsPerPixel != 32 {
		_ = f.Close()
		return nil, fmt.Errorf("fbdev: unsupported depth %d bpp (want 32)", vinfo.BitsPerPixel)
	}

	w := int(vinfo.XRes)
	h := int(vinfo.YRes)
	stride := int(vinfo.XResVirtual) * 4
	length := stride * int(vinfo.YOffset+vinfo.YRes)

	mem, err := unix.Mmap(int(f.Fd()), 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("fbdev: mmap %s: %w", device, err)
	}

	log.Debugf("opened %s: %dx%d @ %dbpp, stride %d, rotated=%v",
		device, w, h, vinfo.BitsPerPixel, stride, opts.Rotated180)

	return &Display{
		f:       f,
		mem:     mem,
		w:       w,
		h:       h,
		stride:  stride,
		xoff:    int(vinfo.XOffset),
		yoff:    int(vinfo.YOffset),
		rotated: opts.Rotated180,
	}, nil
}

// Display maps the framebuffer once and works on the mapping directly. The
// panel stores pixels as little-endian XRGB (B,G,R,X in memory); captures
// are converted to logical-orientation RGBA and writes convert back.
type Display struct {
	f      *os.File
	mem    []byte
	w, h   int
	stride int
	xoff   int
	yoff   int

	rotated bool
	layers  [][]byte
}

func (d *Display) Size() display.Size {
	return display.Size{W: d.w, H: d.h}
}

func (d *Display) Capture() (*display.CaptureBuffer, error) {
	img := image.NewRGBA(image.Rect(0, 0, d.w, d.h))

	for y := 0; y < d.h; y++ {
		for x := 0; x < d.w; x++ {
			i := (d.yoff+y)*d.stride + (d.xoff+x)*4
			lx, ly := d.toLogical(x, y)
			o := img.PixOffset(lx, ly)
			img.Pix[o+0] = d.mem[i+2]
			img.Pix[o+1] = d.mem[i+1]
			img.Pix[o+2] = d.mem[i+0]
			img.Pix[o+3] = 0xff
		}
	}

	return display.NewCaptureBuffer(img), nil
}

func (d *Display) PushLayer() error {
	saved := make([]byte, len(d.mem))
	copy(saved, d.mem)
	d.layers = append(d.layers, saved)
	return nil
}

func (d *Display) PopLayer() bool {
	if len(d.layers) == 0 {
		return false
	}

	saved := d.layers[len(d.layers)-1]
	d.layers = d.layers[:len(d.layers)-1]
	copy(d.mem, saved)
	return true
}

func (d *Display) Composite(buf *display.CaptureBuffer, elements ...display.Element) error {
	scratch := buf.Clone()
	for _, e := range elements {
		e.Draw(scratch)
	}

	for y := 0; y < d.h; y++ {
		for x := 0; x < d.w; x++ {
			lx, ly := d.toLogical(x, y)
			o := scratch.PixOffset(lx, ly)
			i := (d.yoff+y)*d.stride + (d.xoff+x)*4
			d.mem[i+0] = scratch.Pix[o+2]
			d.mem[i+1] = scratch.Pix[o+1]
			d.mem[i+2] = scratch.Pix[o+0]
			d.mem[i+3] = 0xff
		}
	}

	return nil
}

// toLogical maps a physical pixel to logical coordinates, undoing the 180°
// panel rotation when present. The mapping is its own inverse.
func (d *Display) toLogical(x, y int) (int, int) {
	if !d.rotated {
		return x, y
	}
	return d.w - x - 1, d.h - y - 1
}

func (d *Display) Close() error {
	d.layers = nil
	err := unix.Munmap(d.mem)
	if cerr := d.f.Close(); err == nil {
		err = cerr
	}
	return err
}

func init() {
	display.Register(driverName, &Driver{})
}
