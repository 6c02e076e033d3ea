package mapper

import (
	"testing"

	"github.com/bwalden/nescore/ines"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rom16k() *ines.ROM {
	prg := make([]byte, 0x4000)
	prg[0x3FFC] = 0x00
	prg[0x3FFD] = 0x80
	return &ines.ROM{PRGBanks: 1, CHRBanks: 1, Mapper: 0, Mirror: ines.MirrorHorizontal, PRG: prg, CHR: make([]byte, 0x2000)}
}

func TestNROMMirrors16KPRG(t *testing.T) {
	m := newNROM(rom16k())
	assert.Equal(t, m.PrgRead(0x8000), m.PrgRead(0xC000))
	assert.Equal(t, uint8(0x00), m.PrgRead(0xFFFC))
	assert.Equal(t, uint8(0x80), m.PrgRead(0xFFFD))
	assert.Equal(t, m.PrgRead(0xBFFF), m.PrgRead(0xFFFF))
}

func TestNROM32KNotMirrored(t *testing.T) {
	prg := make([]byte, 0x8000)
	prg[0] = 0xAA
	prg[0x4000] = 0xBB
	m := newNROM(&ines.ROM{PRGBanks: 2, PRG: prg, CHR: make([]byte, 0x2000)})
	assert.Equal(t, uint8(0xAA), m.PrgRead(0x8000))
	assert.Equal(t, uint8(0xBB), m.PrgRead(0xC000))
}

func TestGetUnknownMapper(t *testing.T) {
	_, err := Get(&ines.ROM{Mapper: 99})
	require.Error(t, err)
}

func TestGetMapperZero(t *testing.T) {
	m, err := Get(rom16k())
	require.NoError(t, err)
	assert.Equal(t, "NROM", m.Name())
}
