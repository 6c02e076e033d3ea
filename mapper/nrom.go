package mapper

import "github.com/bwalden/nescore/ines"

func init() {
	Register(0, newNROM)
}

// NROM is mapper 0: 16 or 32 KiB of fixed PRG ROM and 8 KiB of fixed CHR
// ROM, no bank switching. A 16 KiB PRG image is mirrored into both
// $8000-$BFFF and $C000-$FFFF.
type NROM struct {
	prg    []byte
	chr    []byte
	mirror uint8
}

func newNROM(rom *ines.ROM) Mapper {
	return &NROM{prg: rom.PRG, chr: rom.CHR, mirror: rom.Mirror}
}

func (m *NROM) Name() string { return "NROM" }

func (m *NROM) Mirroring() uint8 { return m.mirror }

// prgOffset maps a CPU address in $8000-$FFFF down into m.prg, mirroring
// a 16 KiB image across both halves of the window.
func (m *NROM) prgOffset(addr uint16) int {
	off := int(addr - 0x8000)
	if len(m.prg) == 0x4000 {
		off %= 0x4000
	}
	return off
}

func (m *NROM) PrgRead(addr uint16) uint8 {
	return m.prg[m.prgOffset(addr)]
}

func (m *NROM) PrgWrite(addr uint16, val uint8) {
	// NROM has no PRG-RAM or bank-select registers in this spec; writes
	// to ROM are undefined behavior and tolerated as no-ops.
}

func (m *NROM) ChrRead(addr uint16) uint8 {
	return m.chr[addr]
}

func (m *NROM) ChrWrite(addr uint16, val uint8) {
	// Out-of-range writes are undefined behavior, tolerated as no-ops.
	if int(addr) < len(m.chr) {
		m.chr[addr] = val
	}
}
