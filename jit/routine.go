//go:build linux

package jit

// Routine is a compiled program loaded into executable memory. It holds
// the only references to that memory, so a Routine must eventually have
// Release called on it or the mapping leaks for the life of the process.
type Routine struct {
	page   *page
	native func() float64
}

// Call runs the compiled program and returns its result. Safe to call
// any number of times; the routine has no mutable state between calls.
func (r *Routine) Call() float64 {
	return r.native()
}

// Release unmaps the routine's executable memory. Calling Call after
// Release is undefined — the backing pages are gone.
func (r *Routine) Release() error {
	return r.page.release()
}
