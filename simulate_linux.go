//go:build linux

package keytap

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

const absCnt = 64

// uinput ioctl request numbers (linux/uinput.h); x/sys/unix does not
// carry them. The UI_SET_* requests are _IOW('U', nr, int), UI_DEV_CREATE
// is _IO('U', 1).
const (
	uiSetEvBit  = 0x40045564
	uiSetKeyBit = 0x40045565
	uiSetRelBit = 0x40045566
	uiDevCreate = 0x5501
)

// uinputUserDev mirrors struct uinput_user_dev from linux/uinput.h.
type uinputUserDev struct {
	Name         [80]byte
	Bustype      uint16
	Vendor       uint16
	Product      uint16
	Version      uint16
	FFEffectsMax uint32
	AbsMax       [absCnt]int32
	AbsMin       [absCnt]int32
	AbsFuzz      [absCnt]int32
	AbsFlat      [absCnt]int32
}

// injector is the process-wide virtual input device backing Simulate.
// It is created lazily on first use and registers every key and button
// code the key tables know about, so any later Simulate call can be
// served without reconfiguring the device.
type injector struct {
	mu   sync.Mutex
	f    *os.File
	x, y float64
}

var (
	inj     injector
	injOnce sync.Once
	injErr  error
)

func ioctl(fd uintptr, req uint, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(req), arg)
	if errno != 0 {
		return errno
	}
	return nil
}

func openInjector() (*os.File, error) {
	f, err := os.OpenFile("/dev/uinput", os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("opening /dev/uinput: %w", err)
	}
	fd := f.Fd()

	fail := func(err error) (*os.File, error) {
		f.Close()
		return nil, err
	}

	for _, ev := range []int{evKey, evRel} {
		if err := ioctl(fd, uiSetEvBit, uintptr(ev)); err != nil {
			return fail(fmt.Errorf("UI_SET_EVBIT %d: %w", ev, err))
		}
	}
	for _, code := range keyToCode {
		if err := ioctl(fd, uiSetKeyBit, uintptr(code)); err != nil {
			return fail(fmt.Errorf("UI_SET_KEYBIT %d: %w", code, err))
		}
	}
	for _, code := range []uint16{btnLeft, btnRight, btnMiddle} {
		if err := ioctl(fd, uiSetKeyBit, uintptr(code)); err != nil {
			return fail(fmt.Errorf("UI_SET_KEYBIT %d: %w", code, err))
		}
	}
	for _, code := range []uint16{relX, relY, relWheel, relHWheel} {
		if err := ioctl(fd, uiSetRelBit, uintptr(code)); err != nil {
			return fail(fmt.Errorf("UI_SET_RELBIT %d: %w", code, err))
		}
	}

	var dev uinputUserDev
	copy(dev.Name[:], "keytap virtual input")
	dev.Bustype = 0x03 // BUS_USB
	dev.Vendor = 1
	dev.Product = 1
	dev.Version = 1

	buf := (*[unsafe.Sizeof(dev)]byte)(unsafe.Pointer(&dev))[:]
	if _, err := f.Write(buf); err != nil {
		return fail(fmt.Errorf("writing device description: %w", err))
	}
	if err := ioctl(fd, uiDevCreate, 0); err != nil {
		return fail(fmt.Errorf("UI_DEV_CREATE: %w", err))
	}
	return f, nil
}

func (in *injector) ensure() error {
	injOnce.Do(func() {
		in.f, injErr = openInjector()
	})
	return injErr
}

func (in *injector) write(typ, code uint16, value int32) error {
	var buf [rawEventSize]byte
	binary.LittleEndian.PutUint16(buf[16:18], typ)
	binary.LittleEndian.PutUint16(buf[18:20], code)
	binary.LittleEndian.PutUint32(buf[20:24], uint32(value))
	_, err := in.f.Write(buf[:])
	return err
}

// emit writes one event followed by a SYN_REPORT so the kernel flushes
// it to readers immediately.
func (in *injector) emit(typ, code uint16, value int32) error {
	if err := in.write(typ, code, value); err != nil {
		return err
	}
	return in.write(evSyn, 0, 0)
}

func (in *injector) key(code uint16, press bool) error {
	value := int32(0)
	if press {
		value = 1
	}
	return in.emit(evKey, code, value)
}

// moveTo translates an absolute target into relative motion against the
// injector's own notion of the pointer position. The kernel has no
// absolute-positioning path for plain relative pointer devices, so the
// tracked position can drift if something else moves the pointer.
func (in *injector) moveTo(x, y float64) error {
	dx := int32(x - in.x)
	dy := int32(y - in.y)
	if dx != 0 {
		if err := in.write(evRel, relX, dx); err != nil {
			return err
		}
	}
	if dy != 0 {
		if err := in.write(evRel, relY, dy); err != nil {
			return err
		}
	}
	if err := in.write(evSyn, 0, 0); err != nil {
		return err
	}
	in.x, in.y = x, y
	return nil
}

func simulate(e EventType) error {
	fail := func(err error) error {
		return &SimulateError{Event: e, Cause: err}
	}
	if err := inj.ensure(); err != nil {
		return fail(err)
	}

	inj.mu.Lock()
	defer inj.mu.Unlock()

	switch e.Kind {
	case KindKeyPress, KindKeyRelease:
		code, ok := codeFromKey(e.Key)
		if !ok {
			return fail(fmt.Errorf("key %s has no event code", e.Key))
		}
		if err := inj.key(code, e.Kind == KindKeyPress); err != nil {
			return fail(err)
		}
		return nil
	case KindButtonPress, KindButtonRelease:
		if err := inj.key(codeFromButton(e.Button), e.Kind == KindButtonPress); err != nil {
			return fail(err)
		}
		return nil
	case KindMouseMove:
		if err := inj.moveTo(e.X, e.Y); err != nil {
			return fail(err)
		}
		return nil
	case KindWheel:
		if e.DeltaY != 0 {
			if err := inj.emit(evRel, relWheel, int32(e.DeltaY)); err != nil {
				return fail(err)
			}
		}
		if e.DeltaX != 0 {
			if err := inj.emit(evRel, relHWheel, int32(e.DeltaX)); err != nil {
				return fail(err)
			}
		}
		return nil
	}
	return fail(fmt.Errorf("unsupported event kind %d", e.Kind))
}
