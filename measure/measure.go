package measure

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ptscore/pts/capabilities"
)

// streamBufSize is the fixed streaming buffer used to hash files,
// per spec.md §4.2.
const streamBufSize = 4096

// Errors surfaced by measure() and metadata(); all are non-fatal for
// is_path_valid but fail the enclosing call atomically otherwise.
var (
	ErrPathSystem      = errors.New("measure: path system error")
	ErrFileRead        = errors.New("measure: file read error")
	ErrDirectoryEnum   = errors.New("measure: directory enumeration error")
)

// IsPathValid returns Ok, NotFound, or InvalidPath for path. Any other
// OS failure is wrapped as ErrPathSystem and is non-fatal: callers may
// skip the entry.
func IsPathValid(path string) (PathStatus, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return PathOK, nil
	case os.IsNotExist(err):
		return PathNotFound, nil
	case isInvalidPathErr(err):
		return PathInvalid, nil
	default:
		return PathOK, fmt.Errorf("%w: %v", ErrPathSystem, err)
	}
}

// isInvalidPathErr reports whether err indicates the address could
// not be evaluated at all (e.g. ENOTDIR on an intermediate
// component), rather than a generic system error.
func isInvalidPathErr(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err != nil && pathErr.Err.Error() == "not a directory"
	}
	return false
}

// Measure hashes path with the algorithm named by algo and returns a
// FileMeasurements keyed by requestID. If isDirectory, the directory
// is enumerated one level deep via enumerator and every regular,
// non-dot-prefixed file is hashed under its relative name; otherwise
// the single file is hashed under filepath.Base(path). The call fails
// atomically: on any I/O error nothing is returned.
func Measure(enumerator capabilities.DirEnumerator, requestID, path string, isDirectory bool, algo capabilities.HashAlgorithm) (*FileMeasurements, error) {
	if isDirectory {
		entries, err := enumerator.Enumerate(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDirectoryEnum, err)
		}
		measurements := make([]FileMeasurement, 0, len(entries))
		for _, e := range entries {
			if !e.Info.Mode().IsRegular() {
				continue
			}
			digest, err := hashFile(e.AbsPath, algo)
			if err != nil {
				return nil, err
			}
			measurements = append(measurements, FileMeasurement{LogicalName: e.RelName, Digest: digest})
		}
		return &FileMeasurements{RequestID: requestID, Measurements: measurements}, nil
	}

	digest, err := hashFile(path, algo)
	if err != nil {
		return nil, err
	}
	return &FileMeasurements{
		RequestID: requestID,
		Measurements: []FileMeasurement{
			{LogicalName: filepath.Base(path), Digest: digest},
		},
	}, nil
}

func hashFile(path string, algo capabilities.HashAlgorithm) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileRead, err)
	}
	defer f.Close()

	hasher, err := capabilities.NewHasher(algo)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, streamBufSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			hasher.Update(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFileRead, err)
		}
	}
	return hasher.Finalize(), nil
}

// Metadata enumerates path the same way Measure does and returns one
// FileMetadata per entry (or the single file), in enumerator yield
// order. Unlike Measure it keeps non-regular entries (directories,
// symlinks, ...), so its indexes line up with a Measure result only
// when every enumerated entry is a regular file.
func Metadata(enumerator capabilities.DirEnumerator, path string, isDirectory bool) ([]FileMetadata, error) {
	if !isDirectory {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPathSystem, err)
		}
		return []FileMetadata{metadataFromInfo(filepath.Base(path), info)}, nil
	}

	entries, err := enumerator.Enumerate(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryEnum, err)
	}
	out := make([]FileMetadata, 0, len(entries))
	for _, e := range entries {
		out = append(out, metadataFromInfo(e.RelName, e.Info))
	}
	return out, nil
}

func metadataFromInfo(logicalName string, info os.FileInfo) FileMetadata {
	uid, gid, created, accessed := statOwnership(info)
	return FileMetadata{
		LogicalName: logicalName,
		Type:        classify(info),
		Size:        info.Size(),
		Created:     created,
		Modified:    info.ModTime(),
		Accessed:    accessed,
		UID:         uid,
		GID:         gid,
	}
}
