package history

import (
	"crypto/sha1"
	"encoding/hex"
	"path/filepath"
)

// ScreenshotPath derives the screenshot file name for a content path. The
// name is a digest of the path so repeated plays of the same title overwrite
// one file instead of accumulating, and titles with identical base names in
// different directories never collide.
func ScreenshotPath(dir, contentPath string) string {
	sum := sha1.Sum([]byte(contentPath))
	return filepath.Join(dir, hex.EncodeToString(sum[:])+".png")
}
