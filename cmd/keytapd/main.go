// Command keytapd runs the keytap daemon: it observes local input,
// streams it to WebSocket and UDP clients, injects events received from
// a bridged remote daemon, and sits in the system tray.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"keytap"
	"keytap/internal/autostart"
	"keytap/internal/config"
	"keytap/internal/hotkey"
	"keytap/internal/logging"
	"keytap/internal/network"
	"keytap/internal/protocol"
	"keytap/internal/server"
	"keytap/internal/tray"
	"keytap/layout"
)

type cli struct {
	Config   string `help:"Path to the config file (default: XDG config dir)." type:"path"`
	LogLevel string `help:"Override the configured log level."`
	NoTray   bool   `help:"Run without the system tray icon."`
}

type daemon struct {
	cfg        *config.Config
	log        *zap.SugaredLogger
	srv        *server.Server
	udp        *network.UDPSender
	bridge     *network.WSClient
	hotkeys    *hotkey.Manager
	forwarding atomic.Bool
	kinds      map[keytap.EventKind]bool // nil means all
}

func main() {
	var c cli
	kong.Parse(&c,
		kong.Name("keytapd"),
		kong.Description("keytap input event daemon."),
		kong.UsageOnError(),
	)

	if err := run(c); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c cli) error {
	var mgr *config.Manager
	var err error
	if c.Config != "" {
		mgr = config.NewManagerAt(c.Config)
	} else {
		mgr, err = config.NewManager()
		if err != nil {
			return fmt.Errorf("resolving config path: %w", err)
		}
	}
	if err := mgr.Load(); err != nil {
		return fmt.Errorf("loading config %s: %w", mgr.Path(), err)
	}
	cfg := mgr.Get()

	level := cfg.General.LogLevel
	if c.LogLevel != "" {
		level = c.LogLevel
	}
	log, err := logging.New(level)
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Infof("keytapd %s starting, config %s", keytap.Version, mgr.Path())

	if cfg.Capture.Layout != "" {
		if err := layout.SetActive(cfg.Capture.Layout); err != nil {
			return fmt.Errorf("applying layout override: %w", err)
		}
		log.Infof("layout pinned to %s", cfg.Capture.Layout)
	}

	d := &daemon{
		cfg:     cfg,
		log:     log,
		hotkeys: hotkey.NewManager(log),
	}
	d.forwarding.Store(true)
	d.kinds = kindFilter(cfg.Capture.Kinds, log)

	if cfg.General.EscapeHotkey != "" {
		d.hotkeys.Register(cfg.General.EscapeHotkey, func() {
			was := d.forwarding.Swap(false)
			if was {
				log.Warn("escape hotkey pressed, event forwarding stopped")
			}
		})
	}

	if cfg.Server.Enabled {
		d.srv = server.NewServer(mgr, log, keytap.Simulate)
		go func() {
			if err := d.srv.Start(cfg.Server.Addr); err != nil {
				log.Errorf("api server exited: %v", err)
			}
		}()

		if cfg.Server.UDPPort > 0 {
			d.udp = network.NewUDPSender(cfg.Server.UDPPort, log)
			if err := d.udp.Start(); err != nil {
				log.Errorf("udp sender failed to start: %v", err)
				d.udp = nil
			}
		}

		if ips, err := network.GetLocalIPs(); err == nil && len(ips) > 0 {
			log.Infof("reachable on %v", ips)
		}
	}

	if cfg.Bridge.Enabled && cfg.Bridge.RemoteAddr != "" {
		delay := time.Duration(cfg.Bridge.InjectDelayMS) * time.Millisecond
		d.bridge = network.NewWSClient(cfg.Bridge.RemoteAddr, cfg.Bridge.Token, log)
		d.bridge.OnEvent = func(ev keytap.Event) {
			if err := keytap.Simulate(ev.EventType); err != nil {
				log.Warnf("bridge inject failed: %v", err)
			}
			if delay > 0 {
				time.Sleep(delay)
			}
		}
		d.bridge.Start()
	}

	go func() {
		if err := keytap.Listen(d.onEvent); err != nil {
			log.Errorf("listener exited: %v", err)
		}
	}()

	if cfg.General.ShowTray && !c.NoTray {
		runTray(d)
		return nil
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")
	return nil
}

// onEvent runs on the observer thread for every input event; it must
// stay fast.
func (d *daemon) onEvent(ev keytap.Event) {
	d.hotkeys.Track(ev)

	if !d.forwarding.Load() {
		return
	}
	if d.kinds != nil && !d.kinds[ev.Kind] {
		return
	}

	if d.srv != nil {
		d.srv.BroadcastEvent(ev)
	}
	if d.udp != nil {
		d.udp.SendEvent(ev.EventType, ev.Time.UnixMilli())
	}
	if d.bridge != nil {
		d.bridge.SendEvent(ev)
	}
}

func kindFilter(names []string, log *zap.SugaredLogger) map[keytap.EventKind]bool {
	if len(names) == 0 {
		return nil
	}
	kinds := make(map[keytap.EventKind]bool, len(names))
	for _, n := range names {
		k, ok := protocol.ParseKind(n)
		if !ok {
			log.Warnf("config: ignoring unknown capture kind %q", n)
			continue
		}
		kinds[k] = true
	}
	if len(kinds) == 0 {
		return nil
	}
	return kinds
}

func runTray(d *daemon) {
	t := tray.New("keytap input daemon")

	forwardItem := t.AddMenuItem("Forwarding: on", nil)
	t.AddMenuItem("Toggle forwarding", func() {
		now := !d.forwarding.Load()
		d.forwarding.Store(now)
		if now {
			forwardItem.SetTitle("Forwarding: on")
			d.log.Info("forwarding resumed from tray")
		} else {
			forwardItem.SetTitle("Forwarding: off")
			d.log.Info("forwarding stopped from tray")
		}
	})
	t.AddSeparator()
	var loginItem *tray.MenuItem
	loginItem = t.AddMenuItem("Start on login", func() {
		var err error
		if autostart.IsEnabled() {
			err = autostart.Disable()
		} else {
			err = autostart.Enable()
		}
		if err != nil {
			d.log.Warnf("autostart: %v", err)
		}
		loginItem.SetChecked(autostart.IsEnabled())
	})
	loginItem.SetChecked(autostart.IsEnabled())

	t.AddSeparator()
	t.AddMenuItem("Quit", func() {
		d.log.Info("quit from tray")
		t.Stop()
	})

	// systray must own the main thread
	t.Run()
}
