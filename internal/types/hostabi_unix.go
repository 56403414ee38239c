//go:build unix

package types

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// currentHostABI reads real struct sizes off golang.org/x/sys/unix so
// PollFd/TimeSpec/Stat layouts match the build target instead of a
// hand-copied constant.
func currentHostABI() hostABI {
	return hostABI{
		pollFdSize:   int(unsafe.Sizeof(unix.PollFd{})),
		timespecSize: int(unsafe.Sizeof(unix.Timespec{})),
		statSize:     int(unsafe.Sizeof(unix.Stat_t{})),
	}
}
