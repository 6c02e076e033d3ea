package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncrementCoarseXWrapsAndTogglesNametable(t *testing.T) {
	var l loopy
	l.setCoarseX(31)
	l.incrementCoarseX()
	assert.Equal(t, uint16(0), l.coarseX())
	assert.Equal(t, uint16(1), l.nametableX())

	l.incrementCoarseX()
	assert.Equal(t, uint16(1), l.coarseX())
	assert.Equal(t, uint16(1), l.nametableX()) // unaffected below 31
}

func TestIncrementCoarseYAdvancesFineYFirst(t *testing.T) {
	var l loopy
	l.setCoarseY(5)
	for i := 0; i < 7; i++ {
		l.incrementCoarseY()
	}
	assert.Equal(t, uint16(7), l.fineY())
	assert.Equal(t, uint16(5), l.coarseY()) // coarseY untouched until fineY overflows

	l.incrementCoarseY()
	assert.Equal(t, uint16(0), l.fineY())
	assert.Equal(t, uint16(6), l.coarseY())
}

func TestIncrementCoarseYWrapsAtRow29AndTogglesNametable(t *testing.T) {
	var l loopy
	l.setFineY(7)
	l.setCoarseY(29)
	l.incrementCoarseY()
	assert.Equal(t, uint16(0), l.coarseY())
	assert.Equal(t, uint16(1), l.nametableY())
}

func TestIncrementCoarseYWrapsAtRow31WithoutTogglingNametable(t *testing.T) {
	var l loopy
	l.setFineY(7)
	l.setCoarseY(31) // attribute-table junk rows some games scroll into
	l.incrementCoarseY()
	assert.Equal(t, uint16(0), l.coarseY())
	assert.Equal(t, uint16(0), l.nametableY())
}

func TestSetFineYCanRaiseBitsFromZero(t *testing.T) {
	var l loopy
	l.setFineY(5)
	assert.Equal(t, uint16(5), l.fineY())
	l.setFineY(2)
	assert.Equal(t, uint16(2), l.fineY())
}
