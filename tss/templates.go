package tss

// WellKnownSecret is TSS_WELL_KNOWN_SECRET: twenty zero bytes used to
// authorize the Storage Root Key, per spec.md §4.5 step 2.
var WellKnownSecret = make([]byte, 20)
