//go:build linux

package keytap

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Linux input event type and code constants (linux/input-event-codes.h).
const (
	evSyn = 0x00
	evKey = 0x01
	evRel = 0x02

	relX      = 0x00
	relY      = 0x01
	relHWheel = 0x06
	relWheel  = 0x08
)

// rawEvent mirrors the 24-byte struct input_event layout on 64-bit Linux.
type rawEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

const rawEventSize = 24

func decodeRawEvent(buf []byte) rawEvent {
	return rawEvent{
		Sec:   int64(binary.LittleEndian.Uint64(buf[0:8])),
		Usec:  int64(binary.LittleEndian.Uint64(buf[8:16])),
		Type:  binary.LittleEndian.Uint16(buf[16:18]),
		Code:  binary.LittleEndian.Uint16(buf[18:20]),
		Value: int32(binary.LittleEndian.Uint32(buf[20:24])),
	}
}

// findInputDevices parses /proc/bus/input/devices for event handlers
// backed by devices with key or relative-motion capabilities, which
// covers keyboards and mice without touching timers, lid switches and
// the like.
func findInputDevices() ([]string, error) {
	f, err := os.Open("/proc/bus/input/devices")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var devices []string
	var handler string
	var wanted bool

	flush := func() {
		if wanted && handler != "" {
			devices = append(devices, handler)
		}
		handler = ""
		wanted = false
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "H: Handlers="):
			for _, part := range strings.Fields(line) {
				if strings.HasPrefix(part, "event") {
					handler = "/dev/input/" + part
				}
			}
		case strings.HasPrefix(line, "B: KEY="):
			if strings.Trim(strings.TrimPrefix(line, "B: KEY="), " 0") != "" {
				wanted = true
			}
		case strings.HasPrefix(line, "B: REL="):
			wanted = true
		case line == "":
			flush()
		}
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return devices, nil
}

// deviceEvent pairs a decoded event with the device it arrived on, so
// the delivery loop can keep per-device motion accumulation separate
// from key state.
type deviceEvent struct {
	raw rawEvent
	dev string
}

// runEventLoop opens every readable input device, fans their events into
// one channel and delivers translated Events to deliver in arrival
// order. It returns when all device readers have stopped.
func runEventLoop(deliver func(Event)) error {
	devices, err := findInputDevices()
	if err != nil {
		return fmt.Errorf("discovering input devices: %w", err)
	}
	if len(devices) == 0 {
		return fmt.Errorf("no input devices found under /dev/input")
	}

	events := make(chan deviceEvent, 64)
	var wg sync.WaitGroup
	opened := 0

	for _, dev := range devices {
		f, err := os.OpenFile(dev, os.O_RDONLY, 0)
		if err != nil {
			continue
		}
		opened++
		wg.Add(1)
		go func(f *os.File, dev string) {
			defer wg.Done()
			defer f.Close()
			buf := make([]byte, rawEventSize)
			for {
				n, err := f.Read(buf)
				if err != nil {
					return
				}
				if n < rawEventSize {
					continue
				}
				events <- deviceEvent{raw: decodeRawEvent(buf), dev: dev}
			}
		}(f, dev)
	}
	if opened == 0 {
		return fmt.Errorf("cannot open any of %d input devices (typically requires membership in the input group or root)", len(devices))
	}

	go func() {
		wg.Wait()
		close(events)
	}()

	// Name resolution is best effort; without a recognized layout key
	// events are still delivered, just without text.
	keyboard, _ := NewKeyboard()

	var x, y float64
	pending := map[string]*struct{ dx, dy int32 }{}

	emit := func(et EventType) {
		ev := Event{Time: time.Now(), EventType: et}
		if keyboard != nil && et.Kind == KindKeyPress {
			if name, ok := keyboard.Add(et); ok {
				ev.Name = &name
			}
		} else if keyboard != nil && et.Kind == KindKeyRelease {
			keyboard.Add(et)
		}
		deliver(ev)
	}

	for de := range events {
		raw := de.raw
		switch raw.Type {
		case evKey:
			if raw.Code >= btnLeft && raw.Code <= 0x117 {
				b := buttonFromCode(raw.Code)
				switch raw.Value {
				case 0:
					emit(ButtonRelease(b))
				case 1:
					emit(ButtonPress(b))
				}
				continue
			}
			k := keyFromCode(raw.Code)
			switch raw.Value {
			case 0:
				emit(KeyRelease(k))
			case 1, 2: // 2 is autorepeat, reported as a press
				emit(KeyPress(k))
			}
		case evRel:
			acc := pending[de.dev]
			if acc == nil {
				acc = &struct{ dx, dy int32 }{}
				pending[de.dev] = acc
			}
			switch raw.Code {
			case relX:
				acc.dx += raw.Value
			case relY:
				acc.dy += raw.Value
			case relWheel:
				emit(Wheel(0, int64(raw.Value)))
			case relHWheel:
				emit(Wheel(int64(raw.Value), 0))
			}
		case evSyn:
			if acc := pending[de.dev]; acc != nil && (acc.dx != 0 || acc.dy != 0) {
				x += float64(acc.dx)
				y += float64(acc.dy)
				if x < 0 {
					x = 0
				}
				if y < 0 {
					y = 0
				}
				acc.dx, acc.dy = 0, 0
				emit(MouseMove(x, y))
			}
		}
	}
	return fmt.Errorf("all input device readers stopped")
}

func listen(callback func(Event)) error {
	if err := runEventLoop(callback); err != nil {
		return &ListenError{Cause: err}
	}
	return nil
}
