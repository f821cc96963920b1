//go:build !linux

package fsops

import (
	"os"
	"time"
)

// ownership is unavailable without a unix stat structure.
func ownership(info os.FileInfo) (uid, gid int) {
	return -1, -1
}

// extraTimes degrades to the modification time on platforms where the
// portable stat result carries no change/access timestamps.
func extraTimes(info os.FileInfo) (created, accessed time.Time) {
	return info.ModTime(), info.ModTime()
}
