package main

import (
	"os"
	"syscall"
	"time"
)

// fileCreatedTime reads the NTFS creation time from the file attributes.
func fileCreatedTime(path string, fallback time.Time) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return fallback
	}
	attrs, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok || attrs.CreationTime.Nanoseconds() == 0 {
		return fallback
	}
	return time.Unix(0, attrs.CreationTime.Nanoseconds())
}
