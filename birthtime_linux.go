package main

import (
	"time"

	"golang.org/x/sys/unix"
)

// fileCreatedTime asks statx for the birth time. Filesystems that do not
// record one (and kernels without statx) fall back to the given time.
func fileCreatedTime(path string, fallback time.Time) time.Time {
	var st unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_DONT_SYNC, unix.STATX_BTIME, &st); err != nil {
		return fallback
	}
	if st.Mask&unix.STATX_BTIME == 0 || (st.Btime.Sec == 0 && st.Btime.Nsec == 0) {
		return fallback
	}
	return time.Unix(st.Btime.Sec, int64(st.Btime.Nsec))
}
