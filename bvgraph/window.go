package bvgraph

// window is the ring buffer of the last windowsize+1 decoded successor
// lists a SequentialReader needs to resolve references (spec.md §9). Put
// stores a node's list and At reads it back. Take hands a slot's slice to
// the caller and clears the slot, but neither SequentialReader nor the
// encoders call it: every decoded node gets a freshly allocated slice, so
// the hot path allocates once per node.
type window struct {
	buf []([]uint64)
}

func newWindow(size uint64) *window {
	return &window{buf: make([][]uint64, size+1)}
}

func (w *window) slot(node uint64) int {
	return int(node % uint64(len(w.buf)))
}

// At returns the successor list the window currently holds for node,
// without transferring ownership. Used for reference resolution.
func (w *window) At(node uint64) []uint64 {
	return w.buf[w.slot(node)]
}

// Put stores succ as node's successor list, to be read back later by At
// (or reused via Take) once node falls out of the window.
func (w *window) Put(node uint64, succ []uint64) {
	w.buf[w.slot(node)] = succ
}

// Take returns the scratch slice currently occupying the slot that node
// will be decoded into (i.e. windowsize+1 nodes ago), resetting the slot
// to nil. The caller is expected to reuse this slice's backing array as
// scratch space for the node it is about to decode, then Put the result
// back into the same slot.
func (w *window) Take(node uint64) []uint64 {
	s := w.slot(node)
	old := w.buf[s]
	w.buf[s] = nil
	return old
}
