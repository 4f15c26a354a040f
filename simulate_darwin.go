//go:build darwin && cgo

package keytap

/*
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation -framework ApplicationServices

#include <CoreGraphics/CoreGraphics.h>
#include <ApplicationServices/ApplicationServices.h>

static bool postKey(CGKeyCode keyCode, bool pressed) {
	CGEventRef event = CGEventCreateKeyboardEvent(NULL, keyCode, pressed);
	if (event == NULL) {
		return false;
	}
	CGEventPost(kCGSessionEventTap, event);
	CFRelease(event);
	return true;
}

static CGPoint currentCursor(void) {
	CGEventRef event = CGEventCreate(NULL);
	CGPoint p = CGEventGetLocation(event);
	CFRelease(event);
	return p;
}

static bool postButton(int button, bool pressed) {
	CGMouseButton cgButton;
	CGEventType eventType;

	switch (button) {
	case 1:
		cgButton = kCGMouseButtonLeft;
		eventType = pressed ? kCGEventLeftMouseDown : kCGEventLeftMouseUp;
		break;
	case 2:
		cgButton = kCGMouseButtonRight;
		eventType = pressed ? kCGEventRightMouseDown : kCGEventRightMouseUp;
		break;
	case 3:
		cgButton = kCGMouseButtonCenter;
		eventType = pressed ? kCGEventOtherMouseDown : kCGEventOtherMouseUp;
		break;
	default:
		cgButton = (CGMouseButton)(button - 1);
		eventType = pressed ? kCGEventOtherMouseDown : kCGEventOtherMouseUp;
		break;
	}

	CGEventRef event = CGEventCreateMouseEvent(NULL, eventType, currentCursor(), cgButton);
	if (event == NULL) {
		return false;
	}
	CGEventPost(kCGSessionEventTap, event);
	CFRelease(event);
	return true;
}

static bool postMove(double x, double y) {
	CGEventRef event = CGEventCreateMouseEvent(NULL, kCGEventMouseMoved,
		CGPointMake(x, y), kCGMouseButtonLeft);
	if (event == NULL) {
		return false;
	}
	CGEventPost(kCGSessionEventTap, event);
	CFRelease(event);
	return true;
}

static bool postWheel(int dx, int dy) {
	CGEventRef event = CGEventCreateScrollWheelEvent(NULL,
		kCGScrollEventUnitLine, 2, dy, dx);
	if (event == NULL) {
		return false;
	}
	CGEventPost(kCGSessionEventTap, event);
	CFRelease(event);
	return true;
}
*/
import "C"
import "fmt"

func cgButtonNumber(b Button) C.int {
	switch b {
	case ButtonLeft:
		return 1
	case ButtonRight:
		return 2
	case ButtonMiddle:
		return 3
	}
	return C.int(b.Raw())
}

func simulate(e EventType) error {
	fail := func(err error) error {
		return &SimulateError{Event: e, Cause: err}
	}

	switch e.Kind {
	case KindKeyPress, KindKeyRelease:
		vk, ok := vkFromKey(e.Key)
		if !ok {
			return fail(fmt.Errorf("key %s has no virtual key code", e.Key))
		}
		if !bool(C.postKey(C.CGKeyCode(vk), C.bool(e.Kind == KindKeyPress))) {
			return fail(fmt.Errorf("event creation failed"))
		}
		return nil
	case KindButtonPress, KindButtonRelease:
		if !bool(C.postButton(cgButtonNumber(e.Button), C.bool(e.Kind == KindButtonPress))) {
			return fail(fmt.Errorf("event creation failed"))
		}
		return nil
	case KindMouseMove:
		if !bool(C.postMove(C.double(e.X), C.double(e.Y))) {
			return fail(fmt.Errorf("event creation failed"))
		}
		return nil
	case KindWheel:
		if !bool(C.postWheel(C.int(e.DeltaX), C.int(e.DeltaY))) {
			return fail(fmt.Errorf("event creation failed"))
		}
		return nil
	}
	return fail(fmt.Errorf("unsupported event kind %d", e.Kind))
}
