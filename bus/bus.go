// Package bus wires the CPU, PPU, cartridge mapper, and controller
// together behind the flat 64 KiB CPU address space, and drives the
// frame/scanline scheduler described in spec.md §5.
// https://www.nesdev.org/wiki/CPU_memory_map
package bus

import (
	"github.com/golang/glog"

	"github.com/bwalden/nescore/cpu"
	"github.com/bwalden/nescore/mapper"
	"github.com/bwalden/nescore/ppu"
)

const (
	ramSize        = 0x0800 // 2 KiB internal RAM
	ramMirrorEnd   = 0x1FFF
	ppuMirrorEnd   = 0x3FFF
	controllerPort = 0x4016
	apuIOEnd       = 0x4017
	cartridgeStart = 0x8000

	// dmaCycles is the nominal OAM DMA stall in CPU cycles (513 on an
	// even CPU cycle, 514 on an odd one; we don't track CPU cycle
	// parity at this level, so 513 is used uniformly).
	dmaCycles = 513

	cpuCyclesPerScanline = 114
	scanlinePacingMicros = 64
	dotsPerCPUCycle      = 3
)

// Clock abstracts wall-clock pacing so bus.Console can be driven both by
// a headless driver (the tests use a fake clock) and by ebiten's own
// fixed-step Update() callback, which already paces at ~60 Hz.
type Clock interface {
	NowMicros() int64
	SleepMicros(d int64)
}

// Console owns every piece of NES state reachable from the CPU address
// space: RAM, the PPU, the cartridge mapper, and the controller. There
// is no package-level mutable state anywhere in nescore; everything
// lives on a Console value.
type Console struct {
	CPU *cpu.CPU
	PPU *ppu.PPU

	mapper     mapper.Mapper
	ram        [ramSize]uint8
	controller Controller

	dmaCyclesRemaining int
}

// New builds a Console around the cartridge mapper m, wiring a fresh PPU
// and CPU to it.
func New(m mapper.Mapper) *Console {
	c := &Console{mapper: m}
	c.PPU = ppu.New(c, m.Mirroring())
	c.CPU = cpu.New(c)
	return c
}

// Read implements cpu.Bus.
func (c *Console) Read(addr uint16) uint8 {
	switch {
	case addr <= ramMirrorEnd:
		return c.ram[addr&(ramSize-1)]
	case addr <= ppuMirrorEnd:
		return c.PPU.ReadReg(0x2000 + addr&0x0007)
	case addr == controllerPort:
		return c.controller.Read()
	case addr <= apuIOEnd:
		return 0 // APU registers are a spec.md Non-goal
	case addr < cartridgeStart:
		return 0 // no PRG-RAM in this mapper set
	default:
		return c.mapper.PrgRead(addr)
	}
}

// Write implements cpu.Bus.
func (c *Console) Write(addr uint16, val uint8) {
	switch {
	case addr <= ramMirrorEnd:
		c.ram[addr&(ramSize-1)] = val
	case addr <= ppuMirrorEnd:
		c.PPU.WriteReg(0x2000+addr&0x0007, val)
	case addr == ppu.OAMDMA:
		c.doOAMDMA(val)
	case addr == controllerPort:
		c.controller.Write(val)
	case addr <= apuIOEnd:
		// APU registers are a spec.md Non-goal; writes are dropped.
	case addr < cartridgeStart:
		glog.V(2).Infof("bus: write to unmapped address $%04X ignored", addr)
	default:
		c.mapper.PrgWrite(addr, val)
	}
}

func (c *Console) doOAMDMA(page uint8) {
	base := uint16(page) << 8
	var buf [256]uint8
	for i := 0; i < 256; i++ {
		buf[i] = c.Read(base + uint16(i))
	}
	c.PPU.WriteOAMDMA(buf)
	c.dmaCyclesRemaining += dmaCycles
}

// ChrRead implements ppu.Bus.
func (c *Console) ChrRead(addr uint16) uint8 { return c.mapper.ChrRead(addr) }

// ChrWrite implements ppu.Bus.
func (c *Console) ChrWrite(addr uint16, val uint8) { c.mapper.ChrWrite(addr, val) }

// TriggerNMI implements ppu.Bus.
func (c *Console) TriggerNMI() {
	glog.V(1).Infof("bus: vblank NMI at scanline %d", c.PPU.Scanline())
	c.CPU.Interrupt(cpu.VectorNMI)
}

// SetButtons injects controller 1 button state directly, bypassing host
// key polling; used by headless drivers and tests.
func (c *Console) SetButtons(buttons uint8) { c.controller.SetButtons(buttons) }

// RunFrame drives the CPU and PPU in their hardware 1:3 cycle ratio
// until the PPU completes one frame, pacing each scanline to roughly
// scanlinePacingMicros of wall-clock time via clk. Returns any fatal
// *neserr.DecodeError surfaced by the CPU.
func (c *Console) RunFrame(clk Clock) error {
	c.PPU.FrameDone = false
	lastScanline := c.PPU.Scanline()
	scanlineStart := clk.NowMicros()

	for !c.PPU.FrameDone {
		cycles := uint8(1)
		if c.dmaCyclesRemaining > 0 {
			c.dmaCyclesRemaining--
		} else {
			n, err := c.CPU.Step()
			if err != nil {
				return err
			}
			cycles = n
		}
		for i := 0; i < int(cycles)*dotsPerCPUCycle; i++ {
			c.PPU.Tick()
		}

		if sc := c.PPU.Scanline(); sc != lastScanline {
			elapsed := clk.NowMicros() - scanlineStart
			if wait := scanlinePacingMicros - elapsed; wait > 0 {
				clk.SleepMicros(wait)
			}
			scanlineStart = clk.NowMicros()
			lastScanline = sc
		}
	}
	return nil
}
