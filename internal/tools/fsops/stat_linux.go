//go:build linux

package fsops

import (
	"os"
	"syscall"
	"time"
)

// ownership returns the numeric owner and group of a file.
func ownership(info os.FileInfo) (uid, gid int) {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return int(st.Uid), int(st.Gid)
	}
	return -1, -1
}

// extraTimes returns the change and access timestamps. Linux exposes no true
// creation time through stat, so the inode change time stands in for it,
// matching what most tooling reports.
func extraTimes(info os.FileInfo) (created, accessed time.Time) {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		created = time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
		accessed = time.Unix(st.Atim.Sec, st.Atim.Nsec)
		return created, accessed
	}
	return info.ModTime(), info.ModTime()
}
