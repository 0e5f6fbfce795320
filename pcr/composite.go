package pcr

import "github.com/ptscore/pts/wire"

// Compose builds the PCR Composite structure from the current
// selection and stored values, per spec.md §6:
//
//	uint16  size_of_select
//	byte[size_of_select]  select
//	uint32  value_size            # count * pcr_len over the whole selection
//	byte[]  concatenated PCR values, ascending index order, restricted
//	        to selected indices with a stored value
func (s *Set) Compose() []byte {
	w := wire.NewWriter()
	selectBytes := s.SelectBytes()
	w.U16(uint16(len(selectBytes)))
	w.Raw(selectBytes)

	// value_size = count * pcr_len (spec.md §8 property 4), even though
	// selection-only registers (selected but never Add-ed) contribute
	// no bytes to the concatenation below.
	w.U32(uint32(s.count * s.pcrLen))

	for i := 0; i < MaxIndex; i++ {
		if s.selected[i] && s.present[i] {
			w.Raw(s.values[i])
		}
	}
	return w.Out()
}
