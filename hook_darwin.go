//go:build darwin && cgo

package keytap

/*
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation -framework ApplicationServices

#include <CoreGraphics/CoreGraphics.h>
#include <ApplicationServices/ApplicationServices.h>

extern CGEventRef goTapCallback(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *refcon);

static CFMachPortRef createTap(bool grabbing) {
	CGEventMask mask = CGEventMaskBit(kCGEventKeyDown)
		| CGEventMaskBit(kCGEventKeyUp)
		| CGEventMaskBit(kCGEventFlagsChanged)
		| CGEventMaskBit(kCGEventLeftMouseDown)
		| CGEventMaskBit(kCGEventLeftMouseUp)
		| CGEventMaskBit(kCGEventRightMouseDown)
		| CGEventMaskBit(kCGEventRightMouseUp)
		| CGEventMaskBit(kCGEventOtherMouseDown)
		| CGEventMaskBit(kCGEventOtherMouseUp)
		| CGEventMaskBit(kCGEventMouseMoved)
		| CGEventMaskBit(kCGEventLeftMouseDragged)
		| CGEventMaskBit(kCGEventRightMouseDragged)
		| CGEventMaskBit(kCGEventScrollWheel);
	return CGEventTapCreate(kCGSessionEventTap, kCGHeadInsertEventTap,
		grabbing ? kCGEventTapOptionDefault : kCGEventTapOptionListenOnly,
		mask, (CGEventTapCallBack)goTapCallback, NULL);
}

static void releaseTap(CFMachPortRef tap) {
	CFRelease(tap);
}

static void runTap(CFMachPortRef tap) {
	CFRunLoopSourceRef source = CFMachPortCreateRunLoopSource(kCFAllocatorDefault, tap, 0);
	CFRunLoopAddSource(CFRunLoopGetCurrent(), source, kCFRunLoopCommonModes);
	CGEventTapEnable(tap, true);
	CFRunLoopRun();
	CFRelease(source);
}
*/
import "C"
import (
	"errors"
	"runtime"
	"time"

	"keytap/keys"
)

// tapState holds the callbacks of the one active tap. Event taps are
// process-global and serialized by the run loop, so plain fields are
// safe here under the Listen/Grab single-caller gate.
type tapState struct {
	observe  func(Event)
	veto     func(Event) *Event
	keyboard *Keyboard
	held     map[keys.Key]bool
}

var tap tapState

// deliver reports whether the native event should be swallowed.
func (t *tapState) deliver(e Event) bool {
	if t.veto != nil {
		return t.veto(e) == nil
	}
	t.observe(e)
	return false
}

func (t *tapState) keyEvent(et EventType) bool {
	ev := Event{Time: time.Now(), EventType: et}
	if t.keyboard != nil {
		if name, ok := t.keyboard.Add(et); ok && et.Kind == KindKeyPress {
			ev.Name = &name
		}
	}
	return t.deliver(ev)
}

// flagsChanged arrives for modifier keys instead of key down/up; the
// held set decides which direction the transition went.
func (t *tapState) modifierEvent(k keys.Key) bool {
	if t.held[k] {
		delete(t.held, k)
		return t.keyEvent(KeyRelease(k))
	}
	t.held[k] = true
	return t.keyEvent(KeyPress(k))
}

func (t *tapState) handle(typ C.CGEventType, event C.CGEventRef) bool {
	loc := C.CGEventGetLocation(event)
	now := time.Now()
	mouse := func(et EventType) bool {
		return t.deliver(Event{Time: now, EventType: et})
	}

	switch typ {
	case C.kCGEventKeyDown:
		vk := uint16(C.CGEventGetIntegerValueField(event, C.kCGKeyboardEventKeycode))
		return t.keyEvent(KeyPress(keyFromVK(vk)))
	case C.kCGEventKeyUp:
		vk := uint16(C.CGEventGetIntegerValueField(event, C.kCGKeyboardEventKeycode))
		return t.keyEvent(KeyRelease(keyFromVK(vk)))
	case C.kCGEventFlagsChanged:
		vk := uint16(C.CGEventGetIntegerValueField(event, C.kCGKeyboardEventKeycode))
		return t.modifierEvent(keyFromVK(vk))
	case C.kCGEventLeftMouseDown:
		return mouse(ButtonPress(ButtonLeft))
	case C.kCGEventLeftMouseUp:
		return mouse(ButtonRelease(ButtonLeft))
	case C.kCGEventRightMouseDown:
		return mouse(ButtonPress(ButtonRight))
	case C.kCGEventRightMouseUp:
		return mouse(ButtonRelease(ButtonRight))
	case C.kCGEventOtherMouseDown, C.kCGEventOtherMouseUp:
		n := uint32(C.CGEventGetIntegerValueField(event, C.kCGMouseEventButtonNumber))
		b := ButtonMiddle
		if n != 2 {
			b = UnknownButton(n + 1)
		}
		if typ == C.kCGEventOtherMouseDown {
			return mouse(ButtonPress(b))
		}
		return mouse(ButtonRelease(b))
	case C.kCGEventMouseMoved, C.kCGEventLeftMouseDragged, C.kCGEventRightMouseDragged:
		return mouse(MouseMove(float64(loc.x), float64(loc.y)))
	case C.kCGEventScrollWheel:
		dy := int64(C.CGEventGetIntegerValueField(event, C.kCGScrollWheelEventDeltaAxis1))
		dx := int64(C.CGEventGetIntegerValueField(event, C.kCGScrollWheelEventDeltaAxis2))
		return mouse(Wheel(dx, dy))
	}
	return false
}

// runTapLoop installs a session event tap and parks the calling
// goroutine in the Core Foundation run loop. The tap callback fires on
// this thread, so delivery order matches arrival order.
func runTapLoop(state tapState) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	state.held = make(map[keys.Key]bool)
	if kb, err := NewKeyboard(); err == nil {
		state.keyboard = kb
	}
	tap = state
	defer func() { tap = tapState{} }()

	port := C.createTap(C.bool(state.veto != nil))
	if port == nil {
		return errors.New("event tap creation failed (missing accessibility permission?)")
	}
	defer C.releaseTap(port)

	C.runTap(port)
	return errors.New("event tap run loop exited")
}

func listen(callback func(Event)) error {
	if err := runTapLoop(tapState{observe: callback}); err != nil {
		return &ListenError{Cause: err}
	}
	return nil
}

func grab(callback func(Event) *Event) error {
	if err := runTapLoop(tapState{veto: callback}); err != nil {
		return &GrabError{Cause: err}
	}
	return nil
}
