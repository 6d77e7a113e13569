// switcherd is the game-switch daemon: it owns the history and session
// stores, talks to the running emulator, and runs one switch session per UI
// request.
package main

import (
	"os"
	"path/filepath"

	"allium/config"
	"allium/display"
	"allium/history"
	"allium/retroarch"
	"allium/session"
	"allium/spawn"
	"allium/switcher"
	"allium/util"
	"allium/wsui"

	"github.com/op/go-logging"
)

// include these display drivers:
import (
	_ "allium/display/fbdev"
	_ "allium/display/mock"
	_ "allium/display/sdl"
)

var log = logging.MustGetLogger("switcherd")

func main() {
	defer func() {
		if err := recover(); err != nil {
			util.LogPanic(err)
			os.Exit(1)
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	setupLogging(cfg)

	log.Infof("switcherd starting (base dir %s)", cfg.BaseDir)
	log.Debugf("display drivers available: %v", display.Drivers())

	hist, err := history.NewStore(cfg.HistoryFile, cfg.HistoryCapacity)
	if err != nil {
		log.Fatalf("history: %v", err)
	}

	sess := session.NewStore(cfg.SessionFile)

	addr, err := retroarch.ResolveAddr(cfg.RetroArchAddr)
	if err != nil {
		log.Fatalf("retroarch addr %q: %v", cfg.RetroArchAddr, err)
	}
	client, err := retroarch.NewClient(addr)
	if err != nil {
		log.Fatalf("retroarch client: %v", err)
	}
	defer client.Disconnect()

	disp, err := display.Open(cfg.DisplayDriver, display.Options{
		Device:     cfg.DisplayDevice,
		Width:      cfg.DisplayWidth,
		Height:     cfg.DisplayHeight,
		Rotated180: cfg.Rotated180,
	})
	if err != nil {
		log.Fatalf("display %q: %v", cfg.DisplayDriver, err)
	}
	defer disp.Close()

	ui := wsui.NewServer(cfg.UIListenAddr)

	sw := switcher.New(switcher.Config{
		CommandTimeout:   cfg.CommandTimeout,
		SaveTimeout:      cfg.SaveTimeout,
		QuitPollInterval: cfg.QuitPollInterval,
		QuitPollAttempts: cfg.QuitPollAttempts,
		CandidateLimit:   cfg.CandidateLimit,
		ScreenshotsDir:   cfg.ScreenshotsDir,
	}, client, hist, sess, disp, &spawn.Detached{}, ui)
	sw.SetNotifier(ui)

	go func() {
		for range ui.Enter() {
			outcome := sw.Run()
			if outcome.Err != nil {
				log.Errorf("switch session: %v", outcome.Err)
				ui.NotifyView("switcher", switcher.ViewModel{
					State: outcome.Final.String(),
					Error: outcome.Err.Error(),
				})
			}
		}
	}()

	log.Infof("UI bridge listening on %s", cfg.UIListenAddr)
	if err := ui.Serve(); err != nil {
		log.Fatalf("ui server: %v", err)
	}
}

func setupLogging(cfg *config.Config) {
	level, err := logging.LogLevel(cfg.LogLevel)
	if err != nil {
		level = logging.INFO
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err == nil {
		if f, ferr := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); ferr == nil {
			util.SetupLogging(util.NewPanicSafeLogger(f), level)
			return
		}
	}

	util.SetupLogging(os.Stderr, level)
}
