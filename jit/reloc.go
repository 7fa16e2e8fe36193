package jit

import "encoding/binary"

// relocSite is one deferred patch: a byte offset into the emitted buffer,
// the width of the field to write (4 or 8 bytes, little-endian), and an
// addend added to the resolved base value before writing (used by Push
// sites sharing the "data" name: each site's final value is
// base + 8*index, per spec).
type relocSite struct {
	offset int
	width  int
	addend uint64
}

// relocTable is the per-compilation relocation table: a symbolic name to
// a list of patch sites. It is discarded after patching.
type relocTable struct {
	sites map[string][]relocSite
}

func newRelocTable() *relocTable {
	return &relocTable{sites: make(map[string][]relocSite)}
}

func (t *relocTable) add(name string, offset, width int, addend uint64) {
	t.sites[name] = append(t.sites[name], relocSite{offset: offset, width: width, addend: addend})
}

// resolve patches every site recorded under name with base+addend,
// writing directly into buf. Relocating an unknown name is a fatal
// compilation error — not reachable for the fixed opcode set the backend
// emits, but checked anyway per spec.
func (t *relocTable) resolve(buf []byte, name string, base uint64) error {
	sites, ok := t.sites[name]
	if !ok {
		return errUnknownReloc(name)
	}

	for _, s := range sites {
		v := base + s.addend
		switch s.width {
		case 4:
			binary.LittleEndian.PutUint32(buf[s.offset:], uint32(v))
		case 8:
			binary.LittleEndian.PutUint64(buf[s.offset:], v)
		default:
			return errBadRelocWidth(name, s.width)
		}
	}

	delete(t.sites, name)
	return nil
}

// names reports the relocation names still pending resolution — used to
// assert every site was visited exactly once before the page is made
// executable.
func (t *relocTable) names() []string {
	names := make([]string, 0, len(t.sites))
	for name := range t.sites {
		names = append(names, name)
	}
	return names
}
