package pcr

import "bytes"

// Warnf receives non-fatal warnings (e.g. a pcr_before mismatch on
// Add). It defaults to a no-op so pcr stays dependency-free and
// testable; cmd/ptsctl rewires it to the ambient google/logger sink.
var Warnf = func(format string, args ...interface{}) {}

// Set is the PCR selection bitmap plus the latest post-extension
// value for each selected register. It is a plain value type embedded
// in the session, not a separately allocated object (spec.md §9).
type Set struct {
	pcrLen   int
	values   [MaxIndex][]byte
	present  [MaxIndex]bool
	selected [MaxIndex]bool
	count    int
	maxIndex int
}

// NewSet returns an empty PCR set with nothing selected.
func NewSet() Set {
	return Set{maxIndex: -1}
}

// Count is the population count of the selection bitmap.
func (s *Set) Count() int { return s.count }

// MaxIndex is the highest selected index, or -1 if nothing is
// selected.
func (s *Set) MaxIndex() int { return s.maxIndex }

// PCRLen is the register width in bytes, fixed by the first Add call
// (0 until then).
func (s *Set) PCRLen() int { return s.pcrLen }

// Select sets the bit for pcrIndex. Idempotent.
func (s *Set) Select(pcrIndex int) error {
	if pcrIndex < 0 || pcrIndex >= MaxIndex {
		return ErrIndexOutOfRange
	}
	if !s.selected[pcrIndex] {
		s.selected[pcrIndex] = true
		s.count++
		if pcrIndex > s.maxIndex {
			s.maxIndex = pcrIndex
		}
	}
	return nil
}

// Selected reports whether pcrIndex's bit is set.
func (s *Set) Selected(pcrIndex int) bool {
	if pcrIndex < 0 || pcrIndex >= MaxIndex {
		return false
	}
	return s.selected[pcrIndex]
}

// Value returns the stored post-extension value for pcrIndex, if any.
func (s *Set) Value(pcrIndex int) ([]byte, bool) {
	if pcrIndex < 0 || pcrIndex >= MaxIndex || !s.present[pcrIndex] {
		return nil, false
	}
	return s.values[pcrIndex], true
}

// Add records a post-extension value for pcrIndex. On first call it
// fixes PCRLen from len(pcrAfter); subsequent calls with a different
// length fail with ErrLengthMismatch.
//
// If the register already holds a value, it is compared against
// pcrBefore. A mismatch is logged as a warning but is NOT fatal — the
// new value still replaces it. This mirrors an Open Question in the
// original design: it is unclear whether this is intentional or a
// latent bug, and the behavior is preserved as-is rather than
// "fixed" (see DESIGN.md).
func (s *Set) Add(pcrIndex int, pcrBefore, pcrAfter []byte) error {
	if pcrIndex < 0 || pcrIndex >= MaxIndex {
		return ErrIndexOutOfRange
	}
	if s.pcrLen == 0 {
		s.pcrLen = len(pcrAfter)
	} else if len(pcrAfter) != s.pcrLen {
		return ErrLengthMismatch
	}

	if s.present[pcrIndex] && !bytes.Equal(s.values[pcrIndex], pcrBefore) {
		Warnf("pcr: register %d pcr_before does not match stored value; overwriting anyway", pcrIndex)
	}

	stored := make([]byte, len(pcrAfter))
	copy(stored, pcrAfter)
	s.values[pcrIndex] = stored
	s.present[pcrIndex] = true

	if err := s.Select(pcrIndex); err != nil {
		return err
	}
	return nil
}

// Clear frees stored values and zeroes the selection bitmap.
func (s *Set) Clear() {
	*s = NewSet()
}

// SizeOfSelect is the byte width of the selection bitmap, per
// spec.md §6: max(PCR_MAX_NUM/8, 1 + pcr_max/8).
func (s *Set) SizeOfSelect() int {
	const minWidth = MaxIndex / 8 // 3
	if s.maxIndex < 0 {
		return minWidth
	}
	width := 1 + s.maxIndex/8
	if width < minWidth {
		return minWidth
	}
	return width
}

// SelectBytes renders the selection bitmap as little-endian-bit-order
// bytes: bit i lives in byte i/8 at position i mod 8.
func (s *Set) SelectBytes() []byte {
	out := make([]byte, s.SizeOfSelect())
	for i := 0; i < MaxIndex; i++ {
		if s.selected[i] {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}
