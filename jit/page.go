//go:build linux

// Package jit compiles a finished bytecode program (package compiler)
// directly into native amd64 machine code and runs it: the third tier of
// the pipeline, sitting alongside package evaluator and package vm as an
// alternative backend with identical observable semantics.
package jit

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// page is a single JIT allocation backed by one physical mapping exposed
// through two virtual mappings of the same memfd: rw (PROT_READ|WRITE)
// for emitting code and patching relocations, and rx (PROT_READ|EXEC)
// for running it. Neither mapping is ever both writable and executable
// at once — no single mapping is ever reprotected from one to the
// other — which is the dual-mapping discipline
// other_examples/launix-de-memcp__jit_writer.go's JITPage follows.
type page struct {
	rw []byte
	rx []byte
}

// newPage allocates size bytes of dual-mapped memory and returns it
// still empty; the caller writes code and the constant pool into rw,
// patches relocations into rw, and then only ever touches rx again.
func newPage(size int) (*page, error) {
	fd, err := unix.MemfdCreate("jit-calc", 0)
	if err != nil {
		return nil, fmt.Errorf("jit: memfd_create: %w", err)
	}
	defer unix.Close(fd)

	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		return nil, fmt.Errorf("jit: ftruncate: %w", err)
	}

	rw, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("jit: mmap rw: %w", err)
	}

	rx, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_EXEC, unix.MAP_SHARED)
	if err != nil {
		unix.Munmap(rw)
		return nil, fmt.Errorf("jit: mmap rx: %w", err)
	}

	return &page{rw: rw, rx: rx}, nil
}

// entry returns the address of byte offset off as seen through the
// executable mapping — the address embedded in relocations and handed to
// the native call bridge, since that's the mapping the CPU is actually
// fetching from while the routine runs.
func (p *page) entry(off int) uintptr {
	return uintptr(unsafe.Pointer(&p.rx[off]))
}

func (p *page) release() error {
	errRW := unix.Munmap(p.rw)
	errRX := unix.Munmap(p.rx)
	if errRW != nil {
		return errRW
	}
	return errRX
}
