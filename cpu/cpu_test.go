package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testBus struct {
	mem [0x10000]uint8
}

func (b *testBus) Read(addr uint16) uint8     { return b.mem[addr] }
func (b *testBus) Write(addr uint16, v uint8) { b.mem[addr] = v }

func newTestCPU(resetPC uint16) (*CPU, *testBus) {
	bus := &testBus{}
	bus.mem[VectorReset] = uint8(resetPC)
	bus.mem[VectorReset+1] = uint8(resetPC >> 8)
	return New(bus), bus
}

func TestNewLoadsResetVector(t *testing.T) {
	c, _ := newTestCPU(0xC000)
	assert.Equal(t, uint16(0xC000), c.PC)
	assert.Equal(t, uint8(0), c.S)
	assert.Equal(t, uint8(0), c.P)
}

func TestStepUnknownOpcodeReturnsDecodeError(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	saved := opcodes[0xFF]
	defer func() { opcodes[0xFF] = saved }()
	opcodes[0xFF] = opcode{}
	bus.mem[0x8000] = 0xFF

	_, err := c.Step()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "8000")
}

func TestLDAImmediateSetsZeroAndNegativeFlags(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	bus.mem[0x8000] = 0xA9
	bus.mem[0x8001] = 0x00
	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(2), cycles)
	assert.Equal(t, uint8(0), c.A)
	assert.NotZero(t, c.P&FlagZero)

	c, bus = newTestCPU(0x8000)
	bus.mem[0x8000] = 0xA9
	bus.mem[0x8001] = 0x80
	_, err = c.Step()
	require.NoError(t, err)
	assert.NotZero(t, c.P&FlagNegative)
}

func TestJSRThenRTSRoundTrips(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	bus.mem[0x8000] = 0x20 // JSR $9000
	bus.mem[0x8001] = 0x00
	bus.mem[0x8002] = 0x90
	bus.mem[0x9000] = 0x60 // RTS

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x9000), c.PC)
	assert.Equal(t, uint8(0xFE), c.S) // pushed 2 bytes, wrapping from S=0

	_, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x8003), c.PC)
	assert.Equal(t, uint8(0), c.S)
}

func TestBranchTakenCrossesPageAddsCycles(t *testing.T) {
	c, bus := newTestCPU(0x80FD)
	bus.mem[0x80FD] = 0xF0 // BEQ +2 -> target 0x8101, crosses page from 0x80FF
	bus.mem[0x80FE] = 0x02
	c.P |= FlagZero

	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(2), cycles) // Step returns nominal, not actual
	assert.Equal(t, uint16(0x8101), c.PC)
	assert.Equal(t, uint8(4), c.LastActualCycles()) // 2 nominal + 1 taken + 1 page-cross
}

func TestBranchNotTakenFallsThrough(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	bus.mem[0x8000] = 0xF0 // BEQ +5
	bus.mem[0x8001] = 0x05
	c.P &^= FlagZero

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x8002), c.PC)
}

func TestIndirectXLoadsFromZeroPagePointer(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	c.X = 0x04
	bus.mem[0x8000] = 0xA1 // LDA ($20,X)
	bus.mem[0x8001] = 0x20
	bus.mem[0x24] = 0x00 // pointer at $20+X=$24
	bus.mem[0x25] = 0x90
	bus.mem[0x9000] = 0x42

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x42), c.A)
}

func TestIndirectYPageCrossAddsPenalty(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	c.Y = 0xFF
	bus.mem[0x8000] = 0xB1 // LDA ($20),Y
	bus.mem[0x8001] = 0x20
	bus.mem[0x20] = 0x01
	bus.mem[0x21] = 0x80 // base = $8001, +Y(0xFF) = $8100, crosses page
	bus.mem[0x8100] = 0x7E

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7E), c.A)
	assert.Equal(t, uint8(6), c.LastActualCycles()) // 5 nominal + 1 page-cross
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	bus.mem[0x8000] = 0x6C // JMP ($30FF)
	bus.mem[0x8001] = 0xFF
	bus.mem[0x8002] = 0x30
	bus.mem[0x30FF] = 0x00
	bus.mem[0x3000] = 0x40 // hardware bug: high byte wraps within the page
	bus.mem[0x3100] = 0x99 // never read

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x4000), c.PC)
}

func TestADCSetsCarryAndOverflow(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	c.A = 0x7F
	bus.mem[0x8000] = 0x69 // ADC #$01
	bus.mem[0x8001] = 0x01

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x80), c.A)
	assert.NotZero(t, c.P&FlagOverflow)
	assert.NotZero(t, c.P&FlagNegative)
	assert.Zero(t, c.P&FlagCarry)
}

func TestSBCIsAddWithComplementAndBorrow(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	c.A = 0x05
	c.P |= FlagCarry // carry set means "no borrow"
	bus.mem[0x8000] = 0xE9 // SBC #$01
	bus.mem[0x8001] = 0x01

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x04), c.A)
	assert.NotZero(t, c.P&FlagCarry) // no further borrow needed
}

func TestCMPSetsCarryWhenAccumulatorGreaterOrEqual(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	c.A = 0x10
	bus.mem[0x8000] = 0xC9 // CMP #$10
	bus.mem[0x8001] = 0x10

	_, err := c.Step()
	require.NoError(t, err)
	assert.NotZero(t, c.P&FlagCarry)
	assert.NotZero(t, c.P&FlagZero)
}

func TestBITUsesMemoryAndAccumulatorForZeroFlag(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	c.A = 0x0F
	bus.mem[0x8000] = 0x24 // BIT $10
	bus.mem[0x8001] = 0x10
	bus.mem[0x0010] = 0xC0 // N and V bits set in memory, no overlap with A

	_, err := c.Step()
	require.NoError(t, err)
	assert.NotZero(t, c.P&FlagZero)
	assert.NotZero(t, c.P&FlagNegative)
	assert.NotZero(t, c.P&FlagOverflow)
}

func TestPHPThenPLPRoundTripsWithoutMasking(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	c.P = FlagCarry | FlagZero
	bus.mem[0x8000] = 0x08 // PHP
	bus.mem[0x8001] = 0x28 // PLP
	c.P &^= FlagBreak

	_, err := c.Step()
	require.NoError(t, err)
	pushed := bus.mem[stackPage|uint16(c.S+1)] // c.S+1 (uint8 wrap) is the slot PHP just wrote
	assert.NotZero(t, pushed&FlagBreak)
	assert.NotZero(t, pushed&FlagUnused)

	_, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, pushed, c.P)
}

func TestStackIsLIFO(t *testing.T) {
	c, _ := newTestCPU(0x8000)
	c.push(0x11)
	c.push(0x22)
	c.push(0x33)
	assert.Equal(t, uint8(0x33), c.pull())
	assert.Equal(t, uint8(0x22), c.pull())
	assert.Equal(t, uint8(0x11), c.pull())
	assert.Equal(t, uint8(0), c.S)
}

func TestBRKDefaultsToNoOp(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	bus.mem[0x8000] = 0x00
	bus.mem[0x8001] = 0xEA
	startS := c.S

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x8002), c.PC)
	assert.Equal(t, startS, c.S)
}

func TestBRKHardwareVectorsWhenEnabled(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	c.HardwareBRK = true
	bus.mem[0x8000] = 0x00
	bus.mem[VectorBRK] = 0x00
	bus.mem[VectorBRK+1] = 0x40

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x4000), c.PC)
	assert.Equal(t, uint8(0xFD), c.S) // pushed PC (2 bytes) + P (1 byte), wrapping from S=0
}

func TestInterruptPushesStateAndVectors(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	c.PC = 0x1234
	c.P = FlagCarry
	bus.mem[VectorNMI] = 0x00
	bus.mem[VectorNMI+1] = 0x50

	c.Interrupt(VectorNMI)
	assert.Equal(t, uint16(0x5000), c.PC)
	assert.NotZero(t, c.P&FlagInterrupt)

	pulledP := c.pull()
	assert.Zero(t, pulledP&FlagBreak)
	retPC := c.pullAddr()
	assert.Equal(t, uint16(0x1234), retPC)
}
