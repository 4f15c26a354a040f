//go:build windows

package keytap

import (
	"fmt"
	"unsafe"
)

const (
	inputMouse    = 0
	inputKeyboard = 1

	keyEventFKeyUp = 0x0002

	mouseEventFMove       = 0x0001
	mouseEventFAbsolute   = 0x8000
	mouseEventFLeftDown   = 0x0002
	mouseEventFLeftUp     = 0x0004
	mouseEventFRightDown  = 0x0008
	mouseEventFRightUp    = 0x0010
	mouseEventFMiddleDown = 0x0020
	mouseEventFMiddleUp   = 0x0040
	mouseEventFXDown      = 0x0080
	mouseEventFXUp        = 0x0100
	mouseEventFWheel      = 0x0800
	mouseEventFHWheel     = 0x1000

	smCxScreen = 0
	smCyScreen = 1

	absoluteRange = 65536
)

var (
	procSendInput        = user32.NewProc("SendInput")
	procGetSystemMetrics = user32.NewProc("GetSystemMetrics")
)

// keyboardInput mirrors the INPUT struct with its KEYBDINPUT arm. The
// union is padded to the size of MOUSEINPUT.
type keyboardInput struct {
	Type      uint32
	_         uint32 // alignment
	Vk        uint16
	Scan      uint16
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
	_         [8]byte // pad to sizeof(MOUSEINPUT) arm
}

type mouseInput struct {
	Type      uint32
	_         uint32 // alignment
	Dx        int32
	Dy        int32
	MouseData uint32
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

func sendKeyboard(vk uint16, up bool) error {
	in := keyboardInput{Type: inputKeyboard, Vk: vk}
	if up {
		in.Flags = keyEventFKeyUp
	}
	return sendInput(unsafe.Pointer(&in), unsafe.Sizeof(mouseInput{}))
}

func sendMouse(dx, dy int32, data uint32, flags uint32) error {
	in := mouseInput{Type: inputMouse, Dx: dx, Dy: dy, MouseData: data, Flags: flags}
	return sendInput(unsafe.Pointer(&in), unsafe.Sizeof(mouseInput{}))
}

func sendInput(in unsafe.Pointer, size uintptr) error {
	sent, _, err := procSendInput.Call(1, uintptr(in), size)
	if sent != 1 {
		return fmt.Errorf("SendInput: %w", err)
	}
	return nil
}

func systemMetric(index uintptr) int32 {
	v, _, _ := procGetSystemMetrics.Call(index)
	return int32(v)
}

// simulate injects one event via SendInput.
func simulate(e EventType) error {
	switch e.Kind {
	case KindKeyPress, KindKeyRelease:
		vk, ok := vkFromKey(e.Key)
		if !ok {
			return &SimulateError{Event: e, Cause: fmt.Errorf("no virtual-key binding for %s", e.Key)}
		}
		if err := sendKeyboard(vk, e.Kind == KindKeyRelease); err != nil {
			return &SimulateError{Event: e, Cause: err}
		}
		return nil

	case KindButtonPress, KindButtonRelease:
		up := e.Kind == KindButtonRelease
		var flags uint32
		var data uint32
		switch e.Button {
		case ButtonLeft:
			flags = mouseEventFLeftDown
			if up {
				flags = mouseEventFLeftUp
			}
		case ButtonRight:
			flags = mouseEventFRightDown
			if up {
				flags = mouseEventFRightUp
			}
		case ButtonMiddle:
			flags = mouseEventFMiddleDown
			if up {
				flags = mouseEventFMiddleUp
			}
		default:
			// X buttons carry their index in MouseData.
			flags = mouseEventFXDown
			if up {
				flags = mouseEventFXUp
			}
			data = e.Button.Raw()
		}
		if err := sendMouse(0, 0, data, flags); err != nil {
			return &SimulateError{Event: e, Cause: err}
		}
		return nil

	case KindMouseMove:
		w := systemMetric(smCxScreen)
		h := systemMetric(smCyScreen)
		if w == 0 || h == 0 {
			return &SimulateError{Event: e, Cause: fmt.Errorf("no screen metrics")}
		}
		dx := int32(e.X * absoluteRange / float64(w))
		dy := int32(e.Y * absoluteRange / float64(h))
		if err := sendMouse(dx, dy, 0, mouseEventFMove|mouseEventFAbsolute); err != nil {
			return &SimulateError{Event: e, Cause: err}
		}
		return nil

	case KindWheel:
		if e.DeltaY != 0 {
			if err := sendMouse(0, 0, uint32(e.DeltaY*wheelDelta), mouseEventFWheel); err != nil {
				return &SimulateError{Event: e, Cause: err}
			}
		}
		if e.DeltaX != 0 {
			if err := sendMouse(0, 0, uint32(e.DeltaX*wheelDelta), mouseEventFHWheel); err != nil {
				return &SimulateError{Event: e, Cause: err}
			}
		}
		return nil
	}
	return &SimulateError{Event: e, Cause: fmt.Errorf("unsupported event kind %s", e.Kind)}
}
