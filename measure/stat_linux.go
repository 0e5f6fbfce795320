//go:build linux

package measure

import (
	"syscall"
	"time"
)

func statCtime(sys *syscall.Stat_t) time.Time {
	return time.Unix(sys.Ctim.Sec, sys.Ctim.Nsec)
}

func statAtime(sys *syscall.Stat_t) time.Time {
	return time.Unix(sys.Atim.Sec, sys.Atim.Nsec)
}
