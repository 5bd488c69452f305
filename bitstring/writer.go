package bitstring

// Writer appends bits to a growing BitString. Writer is not safe for concurrent use.
type Writer struct {
	data []byte
	n    int
}

func NewWriter() *Writer {
	return &Writer{}
}

// WriteBool appends a single bit.
func (w *Writer) WriteBool(v bool) {
	if w.n%8 == 0 {
		w.data = append(w.data, 0)
	}
	if v {
		w.data[w.n/8] |= 0x80 >> uint(w.n%8)
	}
	w.n++
}

// WriteUint appends the low width bits of v, most significant first.
// Range checks are the caller's job: higher bits of v are dropped.
func (w *Writer) WriteUint(v uint64, width int) {
	for i := width - 1; i >= 0; i-- {
		w.WriteBool(v&(1<<uint(i)) != 0)
	}
}

// WriteBitString appends every bit of b.
func (w *Writer) WriteBitString(b BitString) {
	for i := 0; i < b.Len(); i++ {
		w.WriteBool(b.Bit(i))
	}
}

// Len returns the number of bits written so far.
func (w *Writer) Len() int {
	return w.n
}

// BitString returns a snapshot of the bits written so far.
func (w *Writer) BitString() BitString {
	data := make([]byte, len(w.data))
	copy(data, w.data)
	return BitString{data: data, n: w.n}
}
