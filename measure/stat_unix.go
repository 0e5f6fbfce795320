//go:build !windows

package measure

import (
	"os"
	"syscall"
	"time"
)

// statOwnership extracts the platform-specific owner/group/creation
// fields metadata() needs, adapted from the teacher's GOOS-split
// eventlog_other.go/eventlog_windows.go pattern.
func statOwnership(info os.FileInfo) (uid, gid uint32, created, accessed time.Time) {
	sys, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0, info.ModTime(), info.ModTime()
	}
	uid = sys.Uid
	gid = sys.Gid
	created = statCtime(sys)
	accessed = statAtime(sys)
	return uid, gid, created, accessed
}
