//go:build linux

package keytap

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

// The uinput request numbers are defined here rather than imported, so
// pin them to the kernel's ioctl encoding: _IOW('U', nr, int) for the
// UI_SET_* family and _IO('U', 1) for device creation.
func TestUinputRequestNumbers(t *testing.T) {
	const (
		iocWrite = 1
		typeU    = 'U'
	)
	iow := func(nr uint) uint {
		size := uint(unsafe.Sizeof(int32(0)))
		return iocWrite<<30 | size<<16 | typeU<<8 | nr
	}
	io := func(nr uint) uint {
		return typeU<<8 | nr
	}

	assert.Equal(t, iow(100), uint(uiSetEvBit))
	assert.Equal(t, iow(101), uint(uiSetKeyBit))
	assert.Equal(t, iow(102), uint(uiSetRelBit))
	assert.Equal(t, io(1), uint(uiDevCreate))
}

func TestUinputUserDevLayout(t *testing.T) {
	// struct uinput_user_dev is 80 name bytes, four u16, one u32 and
	// four 64-slot int32 arrays; the kernel rejects short writes.
	assert.Equal(t, uintptr(80+4*2+4+4*absCnt*4), unsafe.Sizeof(uinputUserDev{}))
}
