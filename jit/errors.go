package jit

import "fmt"

func errUnknownReloc(name string) error {
	return fmt.Errorf("jit: no relocation sites recorded for %q", name)
}

func errBadRelocWidth(name string, width int) error {
	return fmt.Errorf("jit: relocation %q has unsupported width %d", name, width)
}
