//go:build windows

package keytap

import (
	"fmt"
	"runtime"
	"syscall"
	"time"
	"unsafe"
)

// Low-level keyboard and mouse hooks drive both Listen and Grab. The
// hook procedures run on the thread that installed them, which must pump
// messages for the entire observation lifetime.

const (
	whKeyboardLL = 13
	whMouseLL    = 14

	wmKeyDown    = 0x0100
	wmKeyUp      = 0x0101
	wmSysKeyDown = 0x0104
	wmSysKeyUp   = 0x0105

	wmMouseMove   = 0x0200
	wmLButtonDown = 0x0201
	wmLButtonUp   = 0x0202
	wmRButtonDown = 0x0204
	wmRButtonUp   = 0x0205
	wmMButtonDown = 0x0207
	wmMButtonUp   = 0x0208
	wmMouseWheel  = 0x020A
	wmXButtonDown = 0x020B
	wmXButtonUp   = 0x020C
	wmMouseHWheel = 0x020E

	wheelDelta = 120
)

var (
	user32   = syscall.NewLazyDLL("user32.dll")
	kernel32 = syscall.NewLazyDLL("kernel32.dll")

	procSetWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessage          = user32.NewProc("GetMessageW")
	procTranslateMessage    = user32.NewProc("TranslateMessage")
	procDispatchMessage     = user32.NewProc("DispatchMessageW")
	procGetModuleHandle     = kernel32.NewProc("GetModuleHandleW")
)

type point struct {
	X, Y int32
}

type msg struct {
	Hwnd    syscall.Handle
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

type kbdLLHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type msLLHookStruct struct {
	Pt          point
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

// hookState is the per-loop observation state. The hook callbacks are
// process-global, so only one loop runs at a time (enforced by the
// façade's listener flag).
type hookState struct {
	observe  func(Event)
	veto     func(Event) *Event
	keyboard *Keyboard
}

var hooks hookState

func (h *hookState) deliver(e Event) uintptr {
	if h.veto != nil {
		if h.veto(e) == nil {
			return 1 // swallow: skip CallNextHookEx
		}
		return 0
	}
	h.observe(e)
	return 0
}

func (h *hookState) keyEvent(wParam uintptr, kb *kbdLLHookStruct) uintptr {
	var et EventType
	switch wParam {
	case wmKeyDown, wmSysKeyDown:
		et = KeyPress(keyFromVK(kb.VkCode))
	case wmKeyUp, wmSysKeyUp:
		et = KeyRelease(keyFromVK(kb.VkCode))
	default:
		return 0
	}

	e := Event{Time: time.Now(), EventType: et}
	if h.keyboard != nil {
		if name, ok := h.keyboard.Add(et); ok {
			e.Name = &name
		}
	}
	return h.deliver(e)
}

func (h *hookState) mouseEvent(wParam uintptr, ms *msLLHookStruct) uintptr {
	var et EventType
	switch wParam {
	case wmMouseMove:
		et = MouseMove(float64(ms.Pt.X), float64(ms.Pt.Y))
	case wmLButtonDown:
		et = ButtonPress(ButtonLeft)
	case wmLButtonUp:
		et = ButtonRelease(ButtonLeft)
	case wmRButtonDown:
		et = ButtonPress(ButtonRight)
	case wmRButtonUp:
		et = ButtonRelease(ButtonRight)
	case wmMButtonDown:
		et = ButtonPress(ButtonMiddle)
	case wmMButtonUp:
		et = ButtonRelease(ButtonMiddle)
	case wmXButtonDown:
		et = ButtonPress(UnknownButton(ms.MouseData >> 16))
	case wmXButtonUp:
		et = ButtonRelease(UnknownButton(ms.MouseData >> 16))
	case wmMouseWheel:
		et = Wheel(0, int64(int16(ms.MouseData>>16))/wheelDelta)
	case wmMouseHWheel:
		et = Wheel(int64(int16(ms.MouseData>>16))/wheelDelta, 0)
	default:
		return 0
	}
	return h.deliver(Event{Time: time.Now(), EventType: et})
}

var (
	keyboardHookProc = syscall.NewCallback(func(nCode int32, wParam, lParam uintptr) uintptr {
		if nCode >= 0 {
			kb := (*kbdLLHookStruct)(unsafe.Pointer(lParam))
			if hooks.keyEvent(wParam, kb) != 0 {
				return 1
			}
		}
		ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
		return ret
	})

	mouseHookProc = syscall.NewCallback(func(nCode int32, wParam, lParam uintptr) uintptr {
		if nCode >= 0 {
			ms := (*msLLHookStruct)(unsafe.Pointer(lParam))
			if hooks.mouseEvent(wParam, ms) != 0 {
				return 1
			}
		}
		ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
		return ret
	})
)

// runHookLoop installs both hooks and pumps messages until GetMessage
// fails. It never returns nil on the success path; the loop is the
// process's observation lifetime.
func runHookLoop(state hookState) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	// The engine is optional: without a recognized layout events are
	// delivered without resolved names.
	if kb, err := NewKeyboard(); err == nil {
		state.keyboard = kb
	}
	hooks = state
	defer func() { hooks = hookState{} }()

	hmod, _, _ := procGetModuleHandle.Call(0)

	kbHook, _, err := procSetWindowsHookEx.Call(whKeyboardLL, keyboardHookProc, hmod, 0)
	if kbHook == 0 {
		return fmt.Errorf("SetWindowsHookEx(WH_KEYBOARD_LL): %w", err)
	}
	defer procUnhookWindowsHookEx.Call(kbHook)

	msHook, _, err := procSetWindowsHookEx.Call(whMouseLL, mouseHookProc, hmod, 0)
	if msHook == 0 {
		return fmt.Errorf("SetWindowsHookEx(WH_MOUSE_LL): %w", err)
	}
	defer procUnhookWindowsHookEx.Call(msHook)

	var m msg
	for {
		r, _, err := procGetMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(r) {
		case -1:
			return fmt.Errorf("GetMessage: %w", err)
		case 0:
			return fmt.Errorf("message loop ended")
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessage.Call(uintptr(unsafe.Pointer(&m)))
	}
}

func listen(callback func(Event)) error {
	if err := runHookLoop(hookState{observe: callback}); err != nil {
		return &ListenError{Cause: err}
	}
	return nil
}

func grab(callback func(Event) *Event) error {
	if err := runHookLoop(hookState{veto: callback}); err != nil {
		return &GrabError{Cause: err}
	}
	return nil
}
