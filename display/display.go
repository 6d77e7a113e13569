// Package display abstracts the device screen for the game switcher: it can
// snapshot the visible frame, preserve and restore the composition with a
// layer stack, and composite translucent UI over a captured frame.
//
// Concrete surfaces register themselves as drivers, in the manner of
// database/sql: the fbdev driver runs on the device, the sdl driver on a
// desktop, and the mock driver in tests.
package display

import (
	"fmt"
	"sort"
	"sync"
)

// Size is a logical pixel extent. Callers never see the physical orientation
// or scale of the underlying device; translating logical to physical
// coordinates is the driver's concern alone.
type Size struct {
	W, H int
}

// Display is one open surface.
type Display interface {
	// Size reports the logical dimensions of the surface.
	Size() Size

	// Capture reads the currently visible frame into a new CaptureBuffer.
	// Only meaningful once the game process has stopped producing frames;
	// before that the result is best-effort.
	Capture() (*CaptureBuffer, error)

	// PushLayer preserves the visible composition so a later PopLayer
	// restores it byte for byte.
	PushLayer() error

	// PopLayer restores the most recently pushed composition. Popping an
	// empty stack returns false ("nothing to restore") rather than failing.
	PopLayer() bool

	// Composite draws elements over buf and presents the result. buf itself
	// is never mutated, so the caller can redraw without re-capturing.
	Composite(buf *CaptureBuffer, elements ...Element) error

	Close() error
}

// Options selects and configures a surface.
type Options struct {
	// Device is driver-specific: the framebuffer device node for fbdev, the
	// window title for sdl, ignored by mock.
	Device string

	// Logical dimensions. Drivers that can query the device (fbdev) treat
	// these as a fallback.
	Width, Height int

	// Rotated180 flags devices whose panel is mounted upside down.
	Rotated180 bool
}

type Driver interface {
	Open(opts Options) (Display, error)
}

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// Register makes a display driver available by the provided name. It panics
// on a nil driver or a duplicate name.
func Register(name string, driver Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if driver == nil {
		panic("display: Register driver is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("display: Register called twice for driver " + name)
	}
	drivers[name] = driver
}

// Drivers returns a sorted list of the names of the registered drivers.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	list := make([]string, 0, len(drivers))
	for name := range drivers {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

func Open(driverName string, opts Options) (Display, error) {
	driversMu.RLock()
	driveri, ok := drivers[driverName]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("display: unknown driver %q (forgotten import?)", driverName)
	}

	return driveri.Open(opts)
}
