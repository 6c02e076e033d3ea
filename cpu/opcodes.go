package cpu

import "math/bits"

type opcode struct {
	name   string
	fn     func(*CPU, uint8)
	mode   uint8
	bytes  uint8
	cycles uint8
}

// opcodes is the full 256-entry dispatch table. Slots left zero-valued
// (fn == nil) are the illegal/undocumented opcodes spec.md places out of
// scope; CPU.Step reports those as a *neserr.DecodeError.
var opcodes [256]opcode

func op(b uint8, name string, fn func(*CPU, uint8), mode uint8, bytes, cycles uint8) {
	opcodes[b] = opcode{name: name, fn: fn, mode: mode, bytes: bytes, cycles: cycles}
}

func init() {
	op(0x69, "ADC", (*CPU).ADC, Immediate, 2, 2)
	op(0x65, "ADC", (*CPU).ADC, ZeroPage, 2, 3)
	op(0x75, "ADC", (*CPU).ADC, ZeroPageX, 2, 4)
	op(0x6D, "ADC", (*CPU).ADC, Absolute, 3, 4)
	op(0x7D, "ADC", (*CPU).ADC, AbsoluteX, 3, 4)
	op(0x79, "ADC", (*CPU).ADC, AbsoluteY, 3, 4)
	op(0x61, "ADC", (*CPU).ADC, IndirectX, 2, 6)
	op(0x71, "ADC", (*CPU).ADC, IndirectY, 2, 5)

	op(0x29, "AND", (*CPU).AND, Immediate, 2, 2)
	op(0x25, "AND", (*CPU).AND, ZeroPage, 2, 3)
	op(0x35, "AND", (*CPU).AND, ZeroPageX, 2, 4)
	op(0x2D, "AND", (*CPU).AND, Absolute, 3, 4)
	op(0x3D, "AND", (*CPU).AND, AbsoluteX, 3, 4)
	op(0x39, "AND", (*CPU).AND, AbsoluteY, 3, 4)
	op(0x21, "AND", (*CPU).AND, IndirectX, 2, 6)
	op(0x31, "AND", (*CPU).AND, IndirectY, 2, 5)

	op(0x0A, "ASL", (*CPU).ASL, Accumulator, 1, 2)
	op(0x06, "ASL", (*CPU).ASL, ZeroPage, 2, 5)
	op(0x16, "ASL", (*CPU).ASL, ZeroPageX, 2, 6)
	op(0x0E, "ASL", (*CPU).ASL, Absolute, 3, 6)
	op(0x1E, "ASL", (*CPU).ASL, AbsoluteX, 3, 7)

	op(0x90, "BCC", (*CPU).BCC, Relative, 2, 2)
	op(0xB0, "BCS", (*CPU).BCS, Relative, 2, 2)
	op(0xF0, "BEQ", (*CPU).BEQ, Relative, 2, 2)
	op(0x30, "BMI", (*CPU).BMI, Relative, 2, 2)
	op(0xD0, "BNE", (*CPU).BNE, Relative, 2, 2)
	op(0x10, "BPL", (*CPU).BPL, Relative, 2, 2)
	op(0x50, "BVC", (*CPU).BVC, Relative, 2, 2)
	op(0x70, "BVS", (*CPU).BVS, Relative, 2, 2)

	op(0x24, "BIT", (*CPU).BIT, ZeroPage, 2, 3)
	op(0x2C, "BIT", (*CPU).BIT, Absolute, 3, 4)

	op(0x00, "BRK", (*CPU).BRK, Implicit, 2, 7)

	op(0x18, "CLC", (*CPU).CLC, Implicit, 1, 2)
	op(0xD8, "CLD", (*CPU).CLD, Implicit, 1, 2)
	op(0x58, "CLI", (*CPU).CLI, Implicit, 1, 2)
	op(0xB8, "CLV", (*CPU).CLV, Implicit, 1, 2)

	op(0xC9, "CMP", (*CPU).CMP, Immediate, 2, 2)
	op(0xC5, "CMP", (*CPU).CMP, ZeroPage, 2, 3)
	op(0xD5, "CMP", (*CPU).CMP, ZeroPageX, 2, 4)
	op(0xCD, "CMP", (*CPU).CMP, Absolute, 3, 4)
	op(0xDD, "CMP", (*CPU).CMP, AbsoluteX, 3, 4)
	op(0xD9, "CMP", (*CPU).CMP, AbsoluteY, 3, 4)
	op(0xC1, "CMP", (*CPU).CMP, IndirectX, 2, 6)
	op(0xD1, "CMP", (*CPU).CMP, IndirectY, 2, 5)

	op(0xE0, "CPX", (*CPU).CPX, Immediate, 2, 2)
	op(0xE4, "CPX", (*CPU).CPX, ZeroPage, 2, 3)
	op(0xEC, "CPX", (*CPU).CPX, Absolute, 3, 4)

	op(0xC0, "CPY", (*CPU).CPY, Immediate, 2, 2)
	op(0xC4, "CPY", (*CPU).CPY, ZeroPage, 2, 3)
	op(0xCC, "CPY", (*CPU).CPY, Absolute, 3, 4)

	op(0xC6, "DEC", (*CPU).DEC, ZeroPage, 2, 5)
	op(0xD6, "DEC", (*CPU).DEC, ZeroPageX, 2, 6)
	op(0xCE, "DEC", (*CPU).DEC, Absolute, 3, 6)
	op(0xDE, "DEC", (*CPU).DEC, AbsoluteX, 3, 7)
	op(0xCA, "DEX", (*CPU).DEX, Implicit, 1, 2)
	op(0x88, "DEY", (*CPU).DEY, Implicit, 1, 2)

	op(0x49, "EOR", (*CPU).EOR, Immediate, 2, 2)
	op(0x45, "EOR", (*CPU).EOR, ZeroPage, 2, 3)
	op(0x55, "EOR", (*CPU).EOR, ZeroPageX, 2, 4)
	op(0x4D, "EOR", (*CPU).EOR, Absolute, 3, 4)
	op(0x5D, "EOR", (*CPU).EOR, AbsoluteX, 3, 4)
	op(0x59, "EOR", (*CPU).EOR, AbsoluteY, 3, 4)
	op(0x41, "EOR", (*CPU).EOR, IndirectX, 2, 6)
	op(0x51, "EOR", (*CPU).EOR, IndirectY, 2, 5)

	op(0xE6, "INC", (*CPU).INC, ZeroPage, 2, 5)
	op(0xF6, "INC", (*CPU).INC, ZeroPageX, 2, 6)
	op(0xEE, "INC", (*CPU).INC, Absolute, 3, 6)
	op(0xFE, "INC", (*CPU).INC, AbsoluteX, 3, 7)
	op(0xE8, "INX", (*CPU).INX, Implicit, 1, 2)
	op(0xC8, "INY", (*CPU).INY, Implicit, 1, 2)

	op(0x4C, "JMP", (*CPU).JMP, Absolute, 3, 3)
	op(0x6C, "JMP", (*CPU).JMP, Indirect, 3, 5)
	op(0x20, "JSR", (*CPU).JSR, Absolute, 3, 6)

	op(0xA9, "LDA", (*CPU).LDA, Immediate, 2, 2)
	op(0xA5, "LDA", (*CPU).LDA, ZeroPage, 2, 3)
	op(0xB5, "LDA", (*CPU).LDA, ZeroPageX, 2, 4)
	op(0xAD, "LDA", (*CPU).LDA, Absolute, 3, 4)
	op(0xBD, "LDA", (*CPU).LDA, AbsoluteX, 3, 4)
	op(0xB9, "LDA", (*CPU).LDA, AbsoluteY, 3, 4)
	op(0xA1, "LDA", (*CPU).LDA, IndirectX, 2, 6)
	op(0xB1, "LDA", (*CPU).LDA, IndirectY, 2, 5)

	op(0xA2, "LDX", (*CPU).LDX, Immediate, 2, 2)
	op(0xA6, "LDX", (*CPU).LDX, ZeroPage, 2, 3)
	op(0xB6, "LDX", (*CPU).LDX, ZeroPageY, 2, 4)
	op(0xAE, "LDX", (*CPU).LDX, Absolute, 3, 4)
	op(0xBE, "LDX", (*CPU).LDX, AbsoluteY, 3, 4)

	op(0xA0, "LDY", (*CPU).LDY, Immediate, 2, 2)
	op(0xA4, "LDY", (*CPU).LDY, ZeroPage, 2, 3)
	op(0xB4, "LDY", (*CPU).LDY, ZeroPageX, 2, 4)
	op(0xAC, "LDY", (*CPU).LDY, Absolute, 3, 4)
	op(0xBC, "LDY", (*CPU).LDY, AbsoluteX, 3, 4)

	op(0x4A, "LSR", (*CPU).LSR, Accumulator, 1, 2)
	op(0x46, "LSR", (*CPU).LSR, ZeroPage, 2, 5)
	op(0x56, "LSR", (*CPU).LSR, ZeroPageX, 2, 6)
	op(0x4E, "LSR", (*CPU).LSR, Absolute, 3, 6)
	op(0x5E, "LSR", (*CPU).LSR, AbsoluteX, 3, 7)

	op(0xEA, "NOP", (*CPU).NOP, Implicit, 1, 2)

	op(0x09, "ORA", (*CPU).ORA, Immediate, 2, 2)
	op(0x05, "ORA", (*CPU).ORA, ZeroPage, 2, 3)
	op(0x15, "ORA", (*CPU).ORA, ZeroPageX, 2, 4)
	op(0x0D, "ORA", (*CPU).ORA, Absolute, 3, 4)
	op(0x1D, "ORA", (*CPU).ORA, AbsoluteX, 3, 4)
	op(0x19, "ORA", (*CPU).ORA, AbsoluteY, 3, 4)
	op(0x01, "ORA", (*CPU).ORA, IndirectX, 2, 6)
	op(0x11, "ORA", (*CPU).ORA, IndirectY, 2, 5)

	op(0x48, "PHA", (*CPU).PHA, Implicit, 1, 3)
	op(0x08, "PHP", (*CPU).PHP, Implicit, 1, 3)
	op(0x68, "PLA", (*CPU).PLA, Implicit, 1, 4)
	op(0x28, "PLP", (*CPU).PLP, Implicit, 1, 4)

	op(0x2A, "ROL", (*CPU).ROL, Accumulator, 1, 2)
	op(0x26, "ROL", (*CPU).ROL, ZeroPage, 2, 5)
	op(0x36, "ROL", (*CPU).ROL, ZeroPageX, 2, 6)
	op(0x2E, "ROL", (*CPU).ROL, Absolute, 3, 6)
	op(0x3E, "ROL", (*CPU).ROL, AbsoluteX, 3, 7)

	op(0x6A, "ROR", (*CPU).ROR, Accumulator, 1, 2)
	op(0x66, "ROR", (*CPU).ROR, ZeroPage, 2, 5)
	op(0x76, "ROR", (*CPU).ROR, ZeroPageX, 2, 6)
	op(0x6E, "ROR", (*CPU).ROR, Absolute, 3, 6)
	op(0x7E, "ROR", (*CPU).ROR, AbsoluteX, 3, 7)

	op(0x40, "RTI", (*CPU).RTI, Implicit, 1, 6)
	op(0x60, "RTS", (*CPU).RTS, Implicit, 1, 6)

	op(0xE9, "SBC", (*CPU).SBC, Immediate, 2, 2)
	op(0xE5, "SBC", (*CPU).SBC, ZeroPage, 2, 3)
	op(0xF5, "SBC", (*CPU).SBC, ZeroPageX, 2, 4)
	op(0xED, "SBC", (*CPU).SBC, Absolute, 3, 4)
	op(0xFD, "SBC", (*CPU).SBC, AbsoluteX, 3, 4)
	op(0xF9, "SBC", (*CPU).SBC, AbsoluteY, 3, 4)
	op(0xE1, "SBC", (*CPU).SBC, IndirectX, 2, 6)
	op(0xF1, "SBC", (*CPU).SBC, IndirectY, 2, 5)

	op(0x38, "SEC", (*CPU).SEC, Implicit, 1, 2)
	op(0xF8, "SED", (*CPU).SED, Implicit, 1, 2)
	op(0x78, "SEI", (*CPU).SEI, Implicit, 1, 2)

	op(0x85, "STA", (*CPU).STA, ZeroPage, 2, 3)
	op(0x95, "STA", (*CPU).STA, ZeroPageX, 2, 4)
	op(0x8D, "STA", (*CPU).STA, Absolute, 3, 4)
	op(0x9D, "STA", (*CPU).STA, AbsoluteX, 3, 5)
	op(0x99, "STA", (*CPU).STA, AbsoluteY, 3, 5)
	op(0x81, "STA", (*CPU).STA, IndirectX, 2, 6)
	op(0x91, "STA", (*CPU).STA, IndirectY, 2, 6)

	op(0x86, "STX", (*CPU).STX, ZeroPage, 2, 3)
	op(0x96, "STX", (*CPU).STX, ZeroPageY, 2, 4)
	op(0x8E, "STX", (*CPU).STX, Absolute, 3, 4)

	op(0x84, "STY", (*CPU).STY, ZeroPage, 2, 3)
	op(0x94, "STY", (*CPU).STY, ZeroPageX, 2, 4)
	op(0x8C, "STY", (*CPU).STY, Absolute, 3, 4)

	op(0xAA, "TAX", (*CPU).TAX, Implicit, 1, 2)
	op(0xA8, "TAY", (*CPU).TAY, Implicit, 1, 2)
	op(0xBA, "TSX", (*CPU).TSX, Implicit, 1, 2)
	op(0x8A, "TXA", (*CPU).TXA, Implicit, 1, 2)
	op(0x9A, "TXS", (*CPU).TXS, Implicit, 1, 2)
	op(0x98, "TYA", (*CPU).TYA, Implicit, 1, 2)
}

// addWithCarry implements ADC's add-with-carry-in, setting C/V/N/Z. SBC
// reuses it against the bitwise complement of the operand (spec.md §4.1,
// §8 "SBC equals ADC of complement").
func (c *CPU) addWithCarry(m uint8) {
	carryIn := uint16(c.P & FlagCarry)
	sum := uint16(c.A) + uint16(m) + carryIn
	res := uint8(sum)

	if sum > 0xFF {
		c.P |= FlagCarry
	} else {
		c.P &^= FlagCarry
	}
	if (^(c.A ^ m)) & (c.A ^ res) & 0x80 != 0 {
		c.P |= FlagOverflow
	} else {
		c.P &^= FlagOverflow
	}

	c.A = res
	c.setZN(c.A)
}

func (c *CPU) compare(reg, m uint8) {
	if reg >= m {
		c.P |= FlagCarry
	} else {
		c.P &^= FlagCarry
	}
	c.setZN(reg - m)
}

func (c *CPU) branchIf(taken bool) {
	addr := c.getOperandAddr(Relative)
	if taken {
		c.lastActualCycles += pageCrossPenalty(addr, c.PC+1) + 1
		c.PC = addr
	} else {
		c.PC += 1
	}
}

func (c *CPU) ADC(mode uint8) { c.addWithCarry(c.read(c.getOperandAddr(mode))) }
func (c *CPU) SBC(mode uint8) { c.addWithCarry(^c.read(c.getOperandAddr(mode))) }

func (c *CPU) AND(mode uint8) {
	c.A &= c.read(c.getOperandAddr(mode))
	c.setZN(c.A)
}

func (c *CPU) ORA(mode uint8) {
	c.A |= c.read(c.getOperandAddr(mode))
	c.setZN(c.A)
}

func (c *CPU) EOR(mode uint8) {
	c.A ^= c.read(c.getOperandAddr(mode))
	c.setZN(c.A)
}

func (c *CPU) ASL(mode uint8) {
	old, new := c.shiftOperand(mode, func(v uint8) uint8 { return v << 1 })
	c.setShiftFlags(old&0x80 != 0, new)
}

func (c *CPU) LSR(mode uint8) {
	old, new := c.shiftOperand(mode, func(v uint8) uint8 { return v >> 1 })
	c.setShiftFlags(old&0x01 != 0, new)
}

func (c *CPU) ROL(mode uint8) {
	carryIn := c.P & FlagCarry
	old, new := c.shiftOperand(mode, func(v uint8) uint8 { return bits.RotateLeft8(v, 1)&0xFE | carryIn })
	c.setShiftFlags(old&0x80 != 0, new)
}

func (c *CPU) ROR(mode uint8) {
	carryIn := c.P & FlagCarry
	old, new := c.shiftOperand(mode, func(v uint8) uint8 { return bits.RotateLeft8(v, -1)&0x7F | (carryIn << 7) })
	c.setShiftFlags(old&0x01 != 0, new)
}

// shiftOperand reads the operand (accumulator or memory), applies f, and
// writes the result back to wherever it came from. Returns (old, new).
func (c *CPU) shiftOperand(mode uint8, f func(uint8) uint8) (uint8, uint8) {
	if mode == Accumulator {
		old := c.A
		c.A = f(old)
		return old, c.A
	}
	addr := c.getOperandAddr(mode)
	old := c.read(addr)
	new := f(old)
	c.write(addr, new)
	return old, new
}

func (c *CPU) setShiftFlags(carryOut bool, result uint8) {
	if carryOut {
		c.P |= FlagCarry
	} else {
		c.P &^= FlagCarry
	}
	c.setZN(result)
}

func (c *CPU) BIT(mode uint8) {
	m := c.read(c.getOperandAddr(mode))
	if m&c.A == 0 {
		c.P |= FlagZero
	} else {
		c.P &^= FlagZero
	}
	c.P = (c.P &^ (FlagNegative | FlagOverflow)) | (m & (FlagNegative | FlagOverflow))
}

func (c *CPU) CMP(mode uint8) { c.compare(c.A, c.read(c.getOperandAddr(mode))) }
func (c *CPU) CPX(mode uint8) { c.compare(c.X, c.read(c.getOperandAddr(mode))) }
func (c *CPU) CPY(mode uint8) { c.compare(c.Y, c.read(c.getOperandAddr(mode))) }

func (c *CPU) DEC(mode uint8) {
	addr := c.getOperandAddr(mode)
	v := c.read(addr) - 1
	c.write(addr, v)
	c.setZN(v)
}

func (c *CPU) INC(mode uint8) {
	addr := c.getOperandAddr(mode)
	v := c.read(addr) + 1
	c.write(addr, v)
	c.setZN(v)
}

func (c *CPU) DEX(mode uint8) { c.X--; c.setZN(c.X) }
func (c *CPU) DEY(mode uint8) { c.Y--; c.setZN(c.Y) }
func (c *CPU) INX(mode uint8) { c.X++; c.setZN(c.X) }
func (c *CPU) INY(mode uint8) { c.Y++; c.setZN(c.Y) }

func (c *CPU) BCC(mode uint8) { c.branchIf(c.P&FlagCarry == 0) }
func (c *CPU) BCS(mode uint8) { c.branchIf(c.P&FlagCarry != 0) }
func (c *CPU) BEQ(mode uint8) { c.branchIf(c.P&FlagZero != 0) }
func (c *CPU) BNE(mode uint8) { c.branchIf(c.P&FlagZero == 0) }
func (c *CPU) BMI(mode uint8) { c.branchIf(c.P&FlagNegative != 0) }
func (c *CPU) BPL(mode uint8) { c.branchIf(c.P&FlagNegative == 0) }
func (c *CPU) BVC(mode uint8) { c.branchIf(c.P&FlagOverflow == 0) }
func (c *CPU) BVS(mode uint8) { c.branchIf(c.P&FlagOverflow != 0) }

// BRK defaults to the original source's no-op (advance past the padding
// byte, nothing else); set CPU.HardwareBRK for the real vectored
// behavior. See SPEC_FULL.md §10 and DESIGN.md.
func (c *CPU) BRK(mode uint8) {
	if !c.HardwareBRK {
		c.PC++
		return
	}
	c.pushAddr(c.PC + 1)
	c.push(c.P | FlagBreak | FlagUnused)
	c.P |= FlagInterrupt
	c.PC = c.read16(VectorBRK)
}

func (c *CPU) CLC(mode uint8) { c.P &^= FlagCarry }
func (c *CPU) CLD(mode uint8) { c.P &^= FlagDecimal }
func (c *CPU) CLI(mode uint8) { c.P &^= FlagInterrupt }
func (c *CPU) CLV(mode uint8) { c.P &^= FlagOverflow }
func (c *CPU) SEC(mode uint8) { c.P |= FlagCarry }
func (c *CPU) SED(mode uint8) { c.P |= FlagDecimal }
func (c *CPU) SEI(mode uint8) { c.P |= FlagInterrupt }

func (c *CPU) JMP(mode uint8) { c.PC = c.getOperandAddr(mode) }

func (c *CPU) JSR(mode uint8) {
	target := c.getOperandAddr(mode)
	c.pushAddr(c.PC + 1)
	c.PC = target
}

func (c *CPU) RTS(mode uint8) { c.PC = c.pullAddr() + 1 }

func (c *CPU) RTI(mode uint8) {
	c.P = c.pull()
	c.PC = c.pullAddr()
}

func (c *CPU) LDA(mode uint8) { c.A = c.read(c.getOperandAddr(mode)); c.setZN(c.A) }
func (c *CPU) LDX(mode uint8) { c.X = c.read(c.getOperandAddr(mode)); c.setZN(c.X) }
func (c *CPU) LDY(mode uint8) { c.Y = c.read(c.getOperandAddr(mode)); c.setZN(c.Y) }

func (c *CPU) STA(mode uint8) { c.write(c.getOperandAddr(mode), c.A) }
func (c *CPU) STX(mode uint8) { c.write(c.getOperandAddr(mode), c.X) }
func (c *CPU) STY(mode uint8) { c.write(c.getOperandAddr(mode), c.Y) }

func (c *CPU) TAX(mode uint8) { c.X = c.A; c.setZN(c.X) }
func (c *CPU) TAY(mode uint8) { c.Y = c.A; c.setZN(c.Y) }
func (c *CPU) TXA(mode uint8) { c.A = c.X; c.setZN(c.A) }
func (c *CPU) TYA(mode uint8) { c.A = c.Y; c.setZN(c.A) }
func (c *CPU) TSX(mode uint8) { c.X = c.S; c.setZN(c.X) }
func (c *CPU) TXS(mode uint8) { c.S = c.X }

func (c *CPU) PHA(mode uint8) { c.push(c.A) }
func (c *CPU) PHP(mode uint8) { c.push(c.P | FlagBreak | FlagUnused) }
func (c *CPU) PLA(mode uint8) { c.A = c.pull(); c.setZN(c.A) }

// PLP copies the pulled byte directly into P with no masking — matching
// the teacher and the original source (spec.md §9 Open Question (c)).
// Stricter emulators force bit 5 on and ignore bit 4; we don't, and the
// B/unused bits are therefore only meaningful via stack inspection.
func (c *CPU) PLP(mode uint8) { c.P = c.pull() }

func (c *CPU) NOP(mode uint8) {}
