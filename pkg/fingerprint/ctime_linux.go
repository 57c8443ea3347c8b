//go:build linux

package fingerprint

import (
	"os"
	"syscall"
	"time"
)

// createdAt returns the inode change time, the closest thing Linux exposes to
// a creation time through stat.
func createdAt(stat os.FileInfo) time.Time {
	if st, ok := stat.Sys().(*syscall.Stat_t); ok {
		return time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec))
	}
	return stat.ModTime()
}
