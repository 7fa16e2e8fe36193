//go:build linux

package jit

import (
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
)

// libm is resolved once, lazily, the first time a program using the Pow
// opcode is compiled — most expressions never use `^`, so there is no
// reason to touch libm at package init.
var (
	libmOnce sync.Once
	libmPow  uintptr
	libmErr  error
)

func resolvePow() (uintptr, error) {
	libmOnce.Do(func() {
		handle, err := purego.Dlopen("libm.so.6", purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			libmErr = fmt.Errorf("jit: dlopen libm: %w", err)
			return
		}

		addr, err := purego.Dlsym(handle, "pow")
		if err != nil {
			libmErr = fmt.Errorf("jit: dlsym pow: %w", err)
			return
		}

		libmPow = addr
	})

	return libmPow, libmErr
}

// bindEntry wraps the native code at entry as a callable Go value. This
// is the other half of the bridge purego provides: RegisterFunc already
// knows how to marshal a System V call across an arbitrary code address,
// which is exactly what's needed to invoke a routine this package wrote
// into executable memory itself, not just a shared-library function.
func bindEntry(entry uintptr) func() float64 {
	var fn func() float64
	purego.RegisterFunc(&fn, entry)
	return fn
}
