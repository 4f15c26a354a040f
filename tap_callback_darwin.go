//go:build darwin && cgo

package keytap

/*
#include <CoreGraphics/CoreGraphics.h>
#include <ApplicationServices/ApplicationServices.h>
*/
import "C"
import "unsafe"

//export goTapCallback
func goTapCallback(proxy C.CGEventTapProxy, typ C.CGEventType, event C.CGEventRef, refcon unsafe.Pointer) C.CGEventRef {
	if tap.handle(typ, event) {
		return nil
	}
	return event
}
