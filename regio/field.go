package regio

// Field is a contiguous bit range of a 32-bit register.
type Field struct {
	Shift uint8
	Width uint8
}

// Bit returns the single-bit field at position n.
func Bit(n uint8) Field {
	return Field{Shift: n, Width: 1}
}

// Mask returns the field mask in register position.
func (f Field) Mask() uint32 {
	if f.Width >= 32 {
		return ^uint32(0) << f.Shift
	}
	return ((uint32(1) << f.Width) - 1) << f.Shift
}

// Put returns v moved into register position. Bits of v beyond the field
// width are dropped.
func (f Field) Put(v uint32) uint32 {
	return (v << f.Shift) & f.Mask()
}

// Get extracts the field from a register value.
func (f Field) Get(reg uint32) uint32 {
	return (reg & f.Mask()) >> f.Shift
}

// Set returns reg with the field replaced by v.
func (f Field) Set(reg, v uint32) uint32 {
	return (reg &^ f.Mask()) | f.Put(v)
}

// Flag returns the field value for a boolean: 1 when b is true.
func (f Field) Flag(b bool) uint32 {
	if b {
		return f.Put(1)
	}
	return 0
}
