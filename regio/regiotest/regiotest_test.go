package regiotest

import "testing"

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Set(0x10, 0xaa)
	if got := r.ReadUint32(0x10); got != 0xaa {
		t.Errorf("ReadUint32(0x10) = 0x%x, want 0xaa", got)
	}
	r.WriteUint32(0x14, 1)
	r.WriteUint32(0x14, 2)
	r.WriteUint32(0x18, 3)

	if got := r.WritesTo(0x14); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("WritesTo(0x14) = %v, want [1 2]", got)
	}
	if got := len(r.Writes()); got != 3 {
		t.Errorf("len(Writes()) = %d, want 3", got)
	}
	if got := len(r.Ops()); got != 4 {
		t.Errorf("len(Ops()) = %d, want 4", got)
	}
	r.Reset()
	if got := len(r.Ops()); got != 0 {
		t.Errorf("len(Ops()) after Reset = %d, want 0", got)
	}
	if got := r.Get(0x18); got != 3 {
		t.Errorf("Get(0x18) = %d, want 3", got)
	}
}

func TestRecorderHooks(t *testing.T) {
	r := &Recorder{}
	r.OnWrite = func(off, v uint32) {
		if off == 0x00 {
			r.Set(0x04, v|0x80)
		}
	}
	r.OnRead = func(off, v uint32) uint32 {
		if off == 0x08 {
			return 0x1
		}
		return v
	}
	r.WriteUint32(0x00, 0x01)
	if got := r.ReadUint32(0x04); got != 0x81 {
		t.Errorf("ReadUint32(0x04) = 0x%x, want 0x81", got)
	}
	if got := r.ReadUint32(0x08); got != 1 {
		t.Errorf("ReadUint32(0x08) = %d, want 1", got)
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{Op{Write: true, Off: 0x1518, Val: 0x18000000}, "W[0x1518]=0x18000000"},
		{Op{Off: 0x10, Val: 1}, "R[0x0010]=0x00000001"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
