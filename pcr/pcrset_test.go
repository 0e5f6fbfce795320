package pcr_test

import (
	"bytes"
	"testing"

	"github.com/ptscore/pts/pcr"
)

func TestSelectBitmapRoundTrip(t *testing.T) {
	// S2: select(0), select(10), select(17).
	s := pcr.NewSet()
	for _, i := range []int{0, 10, 17} {
		if err := s.Select(i); err != nil {
			t.Fatalf("Select(%d): %v", i, err)
		}
	}
	if s.Count() != 3 {
		t.Fatalf("Count = %d, want 3", s.Count())
	}
	if s.MaxIndex() != 17 {
		t.Fatalf("MaxIndex = %d, want 17", s.MaxIndex())
	}
	if got := s.SizeOfSelect(); got != 3 {
		t.Fatalf("SizeOfSelect = %d, want 3", got)
	}
	want := []byte{0x01, 0x04, 0x02}
	if got := s.SelectBytes(); !bytes.Equal(got, want) {
		t.Fatalf("SelectBytes = %x, want %x", got, want)
	}
}

func TestSelectIndexBounds(t *testing.T) {
	s := pcr.NewSet()
	if err := s.Select(24); err != pcr.ErrIndexOutOfRange {
		t.Fatalf("Select(24) = %v, want ErrIndexOutOfRange", err)
	}
	if err := s.Select(23); err != nil {
		t.Fatalf("Select(23) = %v, want nil", err)
	}
	if err := s.Add(24, nil, make([]byte, 20)); err != pcr.ErrIndexOutOfRange {
		t.Fatalf("Add(24, ...) = %v, want ErrIndexOutOfRange", err)
	}
}

func TestComposite(t *testing.T) {
	// S3: pcr_len=20, values[0]=0x00.., values[10]=0x11.., values[17]=0x22..
	s := pcr.NewSet()
	zero := bytes.Repeat([]byte{0x00}, 20)
	ones := bytes.Repeat([]byte{0x11}, 20)
	twos := bytes.Repeat([]byte{0x22}, 20)
	if err := s.Add(0, zero, zero); err != nil {
		t.Fatalf("Add(0): %v", err)
	}
	if err := s.Add(10, ones, ones); err != nil {
		t.Fatalf("Add(10): %v", err)
	}
	if err := s.Add(17, twos, twos); err != nil {
		t.Fatalf("Add(17): %v", err)
	}

	composite := s.Compose()

	var want bytes.Buffer
	want.Write([]byte{0x00, 0x03})       // size_of_select = 3
	want.Write([]byte{0x01, 0x04, 0x02}) // select bitmap
	want.Write([]byte{0x00, 0x00, 0x00, 0x3C}) // value_size = 60
	want.Write(zero)
	want.Write(ones)
	want.Write(twos)

	if !bytes.Equal(composite, want.Bytes()) {
		t.Fatalf("Compose() =\n%x\nwant\n%x", composite, want.Bytes())
	}
}

func TestAddLengthMismatch(t *testing.T) {
	s := pcr.NewSet()
	if err := s.Add(0, nil, make([]byte, 20)); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	if err := s.Add(1, nil, make([]byte, 32)); err != pcr.ErrLengthMismatch {
		t.Fatalf("second Add = %v, want ErrLengthMismatch", err)
	}
}

func TestAddMismatchIsLoggedNotFatal(t *testing.T) {
	var warned bool
	orig := pcr.Warnf
	pcr.Warnf = func(format string, args ...interface{}) { warned = true }
	defer func() { pcr.Warnf = orig }()

	s := pcr.NewSet()
	before := bytes.Repeat([]byte{0xAA}, 20)
	after1 := bytes.Repeat([]byte{0xBB}, 20)
	after2 := bytes.Repeat([]byte{0xCC}, 20)

	if err := s.Add(5, before, after1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	// pcr_before (after1, the stored value) doesn't match what we
	// claim the "before" value was here -- the mismatch must be
	// logged, not rejected, and the new value must still win.
	if err := s.Add(5, before, after2); err != nil {
		t.Fatalf("Add (mismatched pcr_before): %v", err)
	}
	if !warned {
		t.Fatalf("expected a warning to be logged on pcr_before mismatch")
	}
	got, ok := s.Value(5)
	if !ok || !bytes.Equal(got, after2) {
		t.Fatalf("Value(5) = %x, %v; want %x, true (new value wins)", got, ok, after2)
	}
}

func TestClear(t *testing.T) {
	s := pcr.NewSet()
	_ = s.Select(3)
	_ = s.Add(4, nil, make([]byte, 20))
	s.Clear()
	if s.Count() != 0 || s.MaxIndex() != -1 || s.PCRLen() != 0 {
		t.Fatalf("Clear() left state: count=%d max=%d len=%d", s.Count(), s.MaxIndex(), s.PCRLen())
	}
	if _, ok := s.Value(4); ok {
		t.Fatalf("Value(4) present after Clear")
	}
}
