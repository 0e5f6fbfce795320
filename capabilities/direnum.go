package capabilities

import (
	"os"
	"path/filepath"
	"strings"
)

// DirEntry is one yielded entry from a DirEnumerator: the relative
// name within the enumerated directory, the absolute path, and the
// entry's Stat result.
type DirEntry struct {
	RelName string
	AbsPath string
	Info    os.FileInfo
}

// DirEnumerator yields (relative_name, absolute_path, stat) triples
// for one level of a directory, skipping entries whose relative name
// begins with a dot.
type DirEnumerator interface {
	Enumerate(dir string) ([]DirEntry, error)
}

// OSDirEnumerator reads a directory with os.ReadDir.
type OSDirEnumerator struct{}

func (OSDirEnumerator) Enumerate(dir string) ([]DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// A file that disappeared between ReadDir and Info is a
			// non-fatal condition for the caller to skip.
			continue
		}
		out = append(out, DirEntry{
			RelName: e.Name(),
			AbsPath: filepath.Join(dir, e.Name()),
			Info:    info,
		})
	}
	return out, nil
}
