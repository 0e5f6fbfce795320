//go:build !windows && !linux && !darwin

package measure

import (
	"syscall"
	"time"
)

func statCtime(sys *syscall.Stat_t) time.Time {
	return time.Unix(sys.Ctimespec.Sec, sys.Ctimespec.Nsec)
}

func statAtime(sys *syscall.Stat_t) time.Time {
	return time.Unix(sys.Atimespec.Sec, sys.Atimespec.Nsec)
}
