//go:build !linux

// The framebuffer driver only exists on Linux; elsewhere this package
// compiles to nothing and the driver is simply not registered.
package fbdev
