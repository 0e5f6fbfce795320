//go:build windows

package measure

import (
	"os"
	"time"
)

// statOwnership has no uid/gid analog on Windows; timestamps fall
// back to ModTime, matching the teacher's eventlog_windows.go stub
// pattern of providing a platform-appropriate no-op.
func statOwnership(info os.FileInfo) (uid, gid uint32, created, accessed time.Time) {
	return 0, 0, info.ModTime(), info.ModTime()
}
