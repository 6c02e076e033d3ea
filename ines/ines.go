// Package ines implements the de facto iNES cartridge container format.
// https://www.nesdev.org/wiki/INES
//
// This package accepts the subset of the format spec.md requires: mapper
// 0 (NROM), no trainer, no PlayChoice data, and no NES 2.0 extension.
// Anything outside that subset is a *neserr.LoadError, not a panic.
package ines

import (
	"fmt"
	"io"
	"os"

	"github.com/bwalden/nescore/neserr"
)

const (
	headerSize   = 16
	prgBlockSize = 16384 // 16 KiB units (header byte 4)
	chrBlockSize = 8192  // 8 KiB units (header byte 5)

	magic = "NES\x1a"
)

// flags6 bits.
const (
	flagMirroring  = 1 << 0
	flagBatteryRAM = 1 << 1
	flagTrainer    = 1 << 2
	flagFourScreen = 1 << 3
)

// Mirroring modes, read off flags6.
const (
	MirrorHorizontal = iota
	MirrorVertical
	MirrorFourScreen
)

// ROM is a parsed, validated cartridge image: header fields plus the raw
// PRG and CHR banks, ready to be handed to a mapper.Mapper.
type ROM struct {
	PRGBanks uint8 // 16 KiB units
	CHRBanks uint8 // 8 KiB units
	Mapper   uint8
	Mirror   uint8
	PRG      []byte
	CHR      []byte
}

// Load reads and validates the iNES image at path.
func Load(path string) (*ROM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &neserr.LoadError{Path: path, Msg: "couldn't open cartridge file", Err: err}
	}
	defer f.Close()

	rom, err := parse(f)
	if err != nil {
		if le, ok := err.(*neserr.LoadError); ok {
			le.Path = path
			return nil, le
		}
		return nil, &neserr.LoadError{Path: path, Msg: "invalid cartridge image", Err: err}
	}
	return rom, nil
}

func parse(r io.Reader) (*ROM, error) {
	hdr := make([]byte, headerSize)
	if n, err := io.ReadFull(r, hdr); err != nil || n != headerSize {
		return nil, &neserr.LoadError{Msg: "premature EOF reading header", Err: err}
	}

	if string(hdr[0:4]) != magic {
		return nil, &neserr.LoadError{Msg: fmt.Sprintf("bad magic %q, want %q", hdr[0:4], magic)}
	}

	prgBanks, chrBanks := hdr[4], hdr[5]
	if prgBanks != 1 && prgBanks != 2 {
		return nil, &neserr.LoadError{Msg: fmt.Sprintf("unsupported PRG size %d (16 KiB units); only 1 or 2 accepted", prgBanks)}
	}
	if chrBanks != 1 {
		return nil, &neserr.LoadError{Msg: fmt.Sprintf("unsupported CHR size %d (8 KiB units); only 1 accepted", chrBanks)}
	}

	flags6 := hdr[6]
	if flags6 != 0 && flags6 != 1 {
		return nil, &neserr.LoadError{Msg: fmt.Sprintf("unsupported flags byte $%02X; only mapper 0, either mirroring, no trainer/battery/four-screen accepted", flags6)}
	}
	for i := 7; i < headerSize; i++ {
		if hdr[i] != 0 {
			return nil, &neserr.LoadError{Msg: fmt.Sprintf("header byte %d must be zero, got $%02X", i, hdr[i])}
		}
	}

	prg := make([]byte, int(prgBanks)*prgBlockSize)
	if n, err := io.ReadFull(r, prg); err != nil || n != len(prg) {
		return nil, &neserr.LoadError{Msg: fmt.Sprintf("premature EOF reading PRG ROM (read %d, wanted %d)", n, len(prg)), Err: err}
	}

	chr := make([]byte, int(chrBanks)*chrBlockSize)
	if n, err := io.ReadFull(r, chr); err != nil || n != len(chr) {
		return nil, &neserr.LoadError{Msg: fmt.Sprintf("premature EOF reading CHR ROM (read %d, wanted %d)", n, len(chr)), Err: err}
	}

	return &ROM{
		PRGBanks: prgBanks,
		CHRBanks: chrBanks,
		Mapper:   0,
		Mirror:   mirroringMode(flags6),
		PRG:      prg,
		CHR:      chr,
	}, nil
}

func mirroringMode(flags6 byte) uint8 {
	if flags6&flagFourScreen != 0 {
		return MirrorFourScreen
	}
	if flags6&flagMirroring != 0 {
		return MirrorVertical
	}
	return MirrorHorizontal
}
