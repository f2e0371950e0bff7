package main

import (
	"time"

	"golang.org/x/sys/unix"
)

func fileCreatedTime(path string, fallback time.Time) time.Time {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return fallback
	}
	if bt := time.Unix(st.Birthtimespec.Unix()); !bt.IsZero() && bt.Unix() > 0 {
		return bt
	}
	return fallback
}
