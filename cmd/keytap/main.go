// Command keytap is the command-line front end: observe events, inspect
// layout translation, inject synthetic input and discover daemons on the
// LAN.
package main

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"keytap"
	"keytap/internal/logging"
	"keytap/internal/network"
	"keytap/internal/protocol"
	"keytap/keys"
	"keytap/layout"
)

type cli struct {
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"info"`

	Listen    listenCmd    `cmd:"" help:"Print observed input events until interrupted."`
	Translate translateCmd `cmd:"" help:"Print the text key presses produce under the active layout."`
	Simulate  simulateCmd  `cmd:"" help:"Inject one synthetic input event."`
	Type      typeCmd      `cmd:"" help:"Type a string via synthesized key presses."`
	Bridge    bridgeCmd    `cmd:"" help:"Receive events from a remote daemon and inject them locally."`
	Discover  discoverCmd  `cmd:"" help:"Scan the LAN for running keytap daemons."`
	Version   versionCmd   `cmd:"" help:"Print the version."`
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("keytap"),
		kong.Description("Keyboard and mouse event observation, synthesis and translation."),
		kong.UsageOnError(),
	)

	logger, err := logging.New(c.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	ctx.Bind(logger)
	ctx.FatalIfErrorf(ctx.Run())
}

type listenCmd struct {
	JSON bool `help:"Emit events as JSON, one object per line."`
}

func (l *listenCmd) Run(log *zap.SugaredLogger) error {
	log.Info("listening for input events, interrupt to stop")
	enc := json.NewEncoder(os.Stdout)
	return keytap.Listen(func(ev keytap.Event) {
		if l.JSON {
			enc.Encode(protocol.FromEvent(ev))
			return
		}
		if ev.Name != nil {
			fmt.Printf("%s\tname=%q\n", ev.EventType, *ev.Name)
			return
		}
		fmt.Println(ev.EventType)
	})
}

type translateCmd struct{}

func (t *translateCmd) Run(log *zap.SugaredLogger) error {
	l, err := layout.Active()
	if err != nil {
		return err
	}
	log.Infof("translating key presses under layout %s", l.Name())
	return keytap.Listen(func(ev keytap.Event) {
		if ev.Kind == keytap.KindKeyPress && ev.Name != nil {
			fmt.Printf("%q\n", *ev.Name)
		}
	})
}

type simulateCmd struct {
	Kind string   `arg:"" help:"Event kind: key-press, key-release, button-press, button-release, mouse-move, wheel."`
	Args []string `arg:"" optional:"" help:"Kind-specific arguments (key name, button name, coordinates or deltas)."`
}

func (s *simulateCmd) Run(log *zap.SugaredLogger) error {
	et, err := parseEventType(s.Kind, s.Args)
	if err != nil {
		return err
	}
	if err := keytap.Simulate(et); err != nil {
		return err
	}
	log.Infof("injected %s", et)
	return nil
}

func parseEventType(kind string, args []string) (keytap.EventType, error) {
	var zero keytap.EventType
	switch kind {
	case "key-press", "key-release":
		if len(args) != 1 {
			return zero, fmt.Errorf("%s takes exactly one key name", kind)
		}
		k, err := parseKeyArg(args[0])
		if err != nil {
			return zero, err
		}
		if kind == "key-press" {
			return keytap.KeyPress(k), nil
		}
		return keytap.KeyRelease(k), nil

	case "button-press", "button-release":
		if len(args) != 1 {
			return zero, fmt.Errorf("%s takes exactly one button name", kind)
		}
		b, err := parseButtonArg(args[0])
		if err != nil {
			return zero, err
		}
		if kind == "button-press" {
			return keytap.ButtonPress(b), nil
		}
		return keytap.ButtonRelease(b), nil

	case "mouse-move":
		if len(args) != 2 {
			return zero, fmt.Errorf("mouse-move takes x and y")
		}
		x, err1 := strconv.ParseFloat(args[0], 64)
		y, err2 := strconv.ParseFloat(args[1], 64)
		if err1 != nil || err2 != nil {
			return zero, fmt.Errorf("mouse-move coordinates must be numbers")
		}
		return keytap.MouseMove(x, y), nil

	case "wheel":
		if len(args) != 2 {
			return zero, fmt.Errorf("wheel takes delta-x and delta-y")
		}
		dx, err1 := strconv.ParseInt(args[0], 10, 64)
		dy, err2 := strconv.ParseInt(args[1], 10, 64)
		if err1 != nil || err2 != nil {
			return zero, fmt.Errorf("wheel deltas must be integers")
		}
		return keytap.Wheel(dx, dy), nil
	}
	return zero, fmt.Errorf("unknown event kind %q", kind)
}

func parseKeyArg(s string) (keys.Key, error) {
	for _, k := range keys.Named() {
		if strings.EqualFold(k.String(), s) {
			return k, nil
		}
	}
	if raw, err := strconv.ParseUint(s, 0, 32); err == nil {
		return keys.Unknown(uint32(raw)), nil
	}
	return 0, fmt.Errorf("unknown key %q", s)
}

func parseButtonArg(s string) (keytap.Button, error) {
	switch strings.ToLower(s) {
	case "left":
		return keytap.ButtonLeft, nil
	case "right":
		return keytap.ButtonRight, nil
	case "middle":
		return keytap.ButtonMiddle, nil
	}
	if raw, err := strconv.ParseUint(s, 0, 32); err == nil {
		return keytap.UnknownButton(uint32(raw)), nil
	}
	return 0, fmt.Errorf("unknown button %q", s)
}

type typeCmd struct {
	Text  string        `arg:"" help:"Text to type."`
	Delay time.Duration `help:"Settling delay between injected events." default:"2ms"`
}

func (t *typeCmd) Run(log *zap.SugaredLogger) error {
	return keytap.TypeText(t.Text, t.Delay)
}

type bridgeCmd struct {
	Addr    string        `arg:"" help:"Remote daemon address (host:port)."`
	Token   string        `help:"Authentication token for the remote daemon."`
	Delay   time.Duration `help:"Settling delay between injected events." default:"2ms"`
	UDPPort int           `help:"Remote UDP event port; 0 disables the UDP fast path." default:"18321"`
}

func (b *bridgeCmd) Run(log *zap.SugaredLogger) error {
	inject := func(et keytap.EventType) {
		if err := keytap.Simulate(et); err != nil {
			log.Warnf("inject failed: %v", err)
			return
		}
		if b.Delay > 0 {
			time.Sleep(b.Delay)
		}
	}

	// The UDP fast path carries the event stream when the remote daemon
	// is reachable over it; the websocket stays up for everything else.
	udpActive := false
	if b.UDPPort > 0 {
		host, _, err := net.SplitHostPort(b.Addr)
		if err != nil {
			host = b.Addr
		}
		udpAddr := net.JoinHostPort(host, strconv.Itoa(b.UDPPort))
		recv := network.NewUDPReceiver(udpAddr, log)
		recv.OnEvent = func(et keytap.EventType, _ int64) { inject(et) }
		if recv.Probe() {
			if err := recv.Start(); err != nil {
				log.Warnf("udp receiver failed to start: %v", err)
			} else {
				udpActive = true
			}
		}
	}

	client := network.NewWSClient(b.Addr, b.Token, log)
	if !udpActive {
		client.OnEvent = func(ev keytap.Event) { inject(ev.EventType) }
	}
	client.Start()
	log.Infof("bridging events from %s (udp=%v), interrupt to stop", b.Addr, udpActive)
	select {}
}

type discoverCmd struct {
	Port int `help:"Daemon API port to probe." default:"18320"`
}

func (d *discoverCmd) Run(log *zap.SugaredLogger) error {
	log.Infof("scanning LAN for daemons on port %d", d.Port)
	daemons, err := network.ScanLAN(d.Port)
	if err != nil {
		return err
	}
	if len(daemons) == 0 {
		fmt.Println("no daemons found")
		return nil
	}
	for _, daemon := range daemons {
		fmt.Printf("%s:%d\tlayout=%s\tclients=%d\n", daemon.IP, daemon.Port, daemon.Layout, daemon.Clients)
	}
	return nil
}

type versionCmd struct{}

func (v *versionCmd) Run(log *zap.SugaredLogger) error {
	fmt.Println(keytap.Version)
	return nil
}
