// Package tray puts the daemon in the system tray: an icon, a menu of
// clickable entries, and handles for updating them while running.
package tray

import "github.com/getlantern/systray"

// MenuItem is a handle to one menu entry. Title and check state set
// before the tray runs are stored and applied when the menu is built,
// so callers can configure items up front.
type MenuItem struct {
	title   string
	checked bool
	onClick func()
	sys     *systray.MenuItem
}

// SetTitle updates the entry's text.
func (i *MenuItem) SetTitle(title string) {
	i.title = title
	if i.sys != nil {
		i.sys.SetTitle(title)
	}
}

// SetChecked toggles the entry's checkmark.
func (i *MenuItem) SetChecked(checked bool) {
	i.checked = checked
	if i.sys == nil {
		return
	}
	if checked {
		i.sys.Check()
	} else {
		i.sys.Uncheck()
	}
}

// Tray is the icon plus its declared menu. Entries are added before
// Run; systray materializes them once it owns the main thread.
type Tray struct {
	tooltip string
	entries []*MenuItem // nil marks a separator
	quit    chan struct{}
}

// New declares a tray with the given tooltip.
func New(tooltip string) *Tray {
	return &Tray{tooltip: tooltip, quit: make(chan struct{})}
}

// AddMenuItem appends a clickable entry and returns its handle. A nil
// onClick makes the entry informational only.
func (t *Tray) AddMenuItem(title string, onClick func()) *MenuItem {
	item := &MenuItem{title: title, onClick: onClick}
	t.entries = append(t.entries, item)
	return item
}

// AddSeparator appends a menu separator.
func (t *Tray) AddSeparator() {
	t.entries = append(t.entries, nil)
}

// Run hands the calling goroutine to systray, which requires the main
// thread. It returns after Stop or when the tray exits.
func (t *Tray) Run() {
	systray.Run(t.build, func() { close(t.quit) })
}

// Stop tears the tray down and unblocks Run.
func (t *Tray) Stop() {
	systray.Quit()
}

func (t *Tray) build() {
	systray.SetTitle("keytap")
	systray.SetTooltip(t.tooltip)
	systray.SetIcon(trayIcon())

	for _, item := range t.entries {
		if item == nil {
			systray.AddSeparator()
			continue
		}
		item.sys = systray.AddMenuItem(item.title, "")
		if item.checked {
			item.sys.Check()
		}
		if item.onClick == nil {
			continue
		}
		go func(item *MenuItem) {
			for {
				select {
				case <-item.sys.ClickedCh:
					item.onClick()
				case <-t.quit:
					return
				}
			}
		}(item)
	}
}

// trayIcon renders the icon in memory: a 16x16 32-bit ICO with a white
// square outline on a transparent field.
func trayIcon() []byte {
	const (
		side      = 16
		pixelOff  = 22 + 40 // ICONDIR + entry, then BITMAPINFOHEADER
		pixels    = side * side * 4
		maskBytes = side * 4 // 1bpp AND mask, rows padded to 32 bits
	)

	buf := make([]byte, pixelOff+pixels+maskBytes)
	putU32 := func(off int, v uint32) {
		buf[off] = byte(v)
		buf[off+1] = byte(v >> 8)
		buf[off+2] = byte(v >> 16)
		buf[off+3] = byte(v >> 24)
	}

	// ICONDIR: one icon.
	buf[2] = 1
	buf[4] = 1
	// ICONDIRENTRY.
	buf[6], buf[7] = side, side
	buf[10] = 1  // planes
	buf[12] = 32 // bits per pixel
	putU32(14, uint32(40+pixels+maskBytes))
	putU32(18, 22)
	// BITMAPINFOHEADER: height doubled for the AND mask.
	putU32(22, 40)
	putU32(26, side)
	putU32(30, side*2)
	buf[34] = 1
	buf[36] = 32
	putU32(42, pixels)

	// BGRA rows, bottom-up. Outline box from (3,3) to (12,12).
	for y := 3; y <= 12; y++ {
		for x := 3; x <= 12; x++ {
			if x != 3 && x != 12 && y != 3 && y != 12 {
				continue
			}
			off := pixelOff + ((side-1-y)*side+x)*4
			buf[off], buf[off+1], buf[off+2], buf[off+3] = 0xFF, 0xFF, 0xFF, 0xFF
		}
	}
	return buf
}
