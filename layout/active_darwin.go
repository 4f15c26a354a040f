//go:build darwin && cgo

package layout

/*
#cgo LDFLAGS: -framework Carbon

#include <Carbon/Carbon.h>
#include <string.h>

// Copies the input source ID of the current keyboard layout into buf.
static int currentInputSourceID(char *buf, int len) {
    TISInputSourceRef source = TISCopyCurrentKeyboardLayoutInputSource();
    if (source == NULL) {
        return 0;
    }
    CFStringRef id = (CFStringRef)TISGetInputSourceProperty(source, kTISPropertyInputSourceID);
    if (id == NULL) {
        CFRelease(source);
        return 0;
    }
    Boolean ok = CFStringGetCString(id, buf, len, kCFStringEncodingUTF8);
    CFRelease(source);
    return ok ? 1 : 0;
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// inputSourceNames maps macOS text input source IDs to registry names.
var inputSourceNames = map[string]string{
	"com.apple.keylayout.US":                 "us",
	"com.apple.keylayout.ABC":                "us",
	"com.apple.keylayout.USInternational-PC": "us-intl",
}

// detect resolves the current keyboard input source.
func detect() (*Layout, error) {
	buf := make([]C.char, 256)
	if C.currentInputSourceID(&buf[0], C.int(len(buf))) == 0 {
		return nil, fmt.Errorf("no keyboard input source")
	}
	id := C.GoString((*C.char)(unsafe.Pointer(&buf[0])))
	name, ok := inputSourceNames[id]
	if !ok {
		return nil, fmt.Errorf("unsupported keyboard layout %q", id)
	}
	l, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("layout %q not registered", name)
	}
	return l, nil
}
