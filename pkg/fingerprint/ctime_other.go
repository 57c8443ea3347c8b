//go:build !linux

package fingerprint

import (
	"os"
	"time"
)

// createdAt falls back to the modification time on platforms without a
// portable creation time in stat.
func createdAt(stat os.FileInfo) time.Time {
	return stat.ModTime()
}
