package regio

// Window is a 32-bit register space. Offsets are in bytes from the window
// base and are expected to be 4-byte aligned.
type Window interface {
	ReadUint32(off uint32) uint32
	WriteUint32(off, v uint32)
}

// Modify replaces the bits selected by mask with the matching bits of val.
func Modify(w Window, off, mask, val uint32) {
	r := w.ReadUint32(off)
	w.WriteUint32(off, (r&^mask)|(val&mask))
}

// SetClear clears the bits in clear, then sets the bits in set. A bit present
// in both ends up set.
func SetClear(w Window, off, set, clear uint32) {
	r := w.ReadUint32(off)
	r &^= clear
	r |= set
	w.WriteUint32(off, r)
}

// Err returns the sticky I/O error of w when it keeps one (see Bus), nil
// otherwise.
func Err(w Window) error {
	if e, ok := w.(interface{ Err() error }); ok {
		return e.Err()
	}
	return nil
}
