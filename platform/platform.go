// Package platform derives a human-readable "OS/distribution + machine"
// description string for inclusion in a session's platform_info field.
package platform

import "errors"

// ErrPlatformInfoUnavailable is returned when no distribution-release
// file could be found. It is non-fatal: callers should continue the
// session with an empty platform string (spec.md §7).
var ErrPlatformInfoUnavailable = errors.New("platform: no distribution-release file found")

// releaseFiles lists candidate distribution-release files in priority
// order: LSB first, Debian second, then distribution-specific files.
// The first file that exists and is readable supplies the description.
var releaseFiles = []string{
	"/etc/lsb-release",
	"/etc/debian_version",
	"/etc/redhat-release",
	"/etc/centos-release",
	"/etc/fedora-release",
	"/etc/SuSE-release",
	"/etc/os-release",
}

// Describe returns "<description line> <uname.machine>", derived from
// the first matching release file with the machine string appended,
// space-separated. It returns ErrPlatformInfoUnavailable if no release
// file could be read.
func Describe() (string, error) {
	return describe()
}

// appendMachine safely appends machine to description, space-separated.
//
// The source this was ported from writes uname.machine into buf+pos
// with a length computed as sizeof(buf)-1 + (pos-buf), which exceeds
// the remaining buffer — a latent overflow. Go slices and strings can't
// reproduce that overrun; this bounds the append safely by construction
// and keeps the result identical to the intended (non-overflowing)
// behavior, deliberately deviating from the latent bug.
func appendMachine(description, machine string) string {
	if machine == "" {
		return description
	}
	return description + " " + machine
}
