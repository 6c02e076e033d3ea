// Package mapper implements and registers cartridge mappers referenced
// by an ines.ROM's mapper number. Only mapper 0 (NROM) — fixed PRG/CHR
// banking, no bank switching — is in scope for this spec; the registry
// pattern is kept from the teacher so a future mapper only needs to call
// Register, not touch bus/cpu/ppu wiring.
package mapper

import (
	"fmt"

	"github.com/bwalden/nescore/ines"
)

// Mapper is the cartridge's view into CPU PRG space ($8000-$FFFF) and
// PPU CHR space ($0000-$1FFF).
type Mapper interface {
	Name() string
	PrgRead(addr uint16) uint8
	PrgWrite(addr uint16, val uint8)
	ChrRead(addr uint16) uint8
	ChrWrite(addr uint16, val uint8)
	Mirroring() uint8
}

// Constructor builds a Mapper from a parsed ROM.
type Constructor func(*ines.ROM) Mapper

var registry = map[uint8]Constructor{}

// Register adds a mapper constructor under the given iNES mapper
// number. Called from each mapper implementation's init().
func Register(id uint8, ctor Constructor) {
	if _, ok := registry[id]; ok {
		panic(fmt.Sprintf("mapper: id %d already registered", id))
	}
	registry[id] = ctor
}

// Get builds the Mapper for rom's mapper number.
func Get(rom *ines.ROM) (Mapper, error) {
	ctor, ok := registry[rom.Mapper]
	if !ok {
		return nil, fmt.Errorf("mapper: unsupported mapper number %d", rom.Mapper)
	}
	return ctor(rom), nil
}
