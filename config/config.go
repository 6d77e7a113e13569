// Package config loads daemon configuration from file and environment.
// Defaults match the device layout (SD-card base dir, localhost emulator);
// every value can be overridden from allium.toml or an ALLIUM_* variable.
package config

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName = "allium"
	configType = "toml"

	// DefaultBaseDir is where the device keeps all switcher state.
	DefaultBaseDir = "/mnt/SDCARD/.allium"
)

type Config struct {
	LogLevel string
	LogFile  string

	BaseDir        string
	SessionFile    string
	HistoryFile    string
	ScreenshotsDir string

	RetroArchAddr    string
	CommandTimeout   time.Duration
	SaveTimeout      time.Duration
	QuitPollInterval time.Duration
	QuitPollAttempts int

	HistoryCapacity int
	CandidateLimit  int

	DisplayDriver string
	DisplayDevice string
	DisplayWidth  int
	DisplayHeight int
	Rotated180    bool

	UIListenAddr string
}

// Load reads allium.toml from the base dir or the working directory. A
// missing file is fine; the defaults describe a stock device.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(DefaultBaseDir)
	v.AddConfigPath(".")

	v.SetEnvPrefix("ALLIUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("base_dir", DefaultBaseDir)
	v.SetDefault("retroarch.addr", "127.0.0.1:55355")
	v.SetDefault("retroarch.command_timeout", "300ms")
	v.SetDefault("retroarch.save_timeout", "1s")
	v.SetDefault("retroarch.quit_poll_interval", "100ms")
	v.SetDefault("retroarch.quit_poll_attempts", 10)
	v.SetDefault("history.capacity", 10)
	v.SetDefault("history.candidate_limit", 9)
	v.SetDefault("display.driver", "fbdev")
	v.SetDefault("display.device", "")
	v.SetDefault("display.width", 640)
	v.SetDefault("display.height", 480)
	v.SetDefault("display.rotated_180", true)
	v.SetDefault("ui.listen_addr", "127.0.0.1:8192")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	base := v.GetString("base_dir")

	cfg := &Config{
		LogLevel: v.GetString("log.level"),
		LogFile:  v.GetString("log.file"),

		BaseDir:        base,
		SessionFile:    filepath.Join(base, "state", "session.toml"),
		HistoryFile:    filepath.Join(base, "state", "history.json"),
		ScreenshotsDir: filepath.Join(base, "screenshots"),

		RetroArchAddr:    v.GetString("retroarch.addr"),
		CommandTimeout:   v.GetDuration("retroarch.command_timeout"),
		SaveTimeout:      v.GetDuration("retroarch.save_timeout"),
		QuitPollInterval: v.GetDuration("retroarch.quit_poll_interval"),
		QuitPollAttempts: v.GetInt("retroarch.quit_poll_attempts"),

		HistoryCapacity: v.GetInt("history.capacity"),
		CandidateLimit:  v.GetInt("history.candidate_limit"),

		DisplayDriver: v.GetString("display.driver"),
		DisplayDevice: v.GetString("display.device"),
		DisplayWidth:  v.GetInt("display.width"),
		DisplayHeight: v.GetInt("display.height"),
		Rotated180:    v.GetBool("display.rotated_180"),

		UIListenAddr: v.GetString("ui.listen_addr"),
	}

	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(base, "switcherd.log")
	}

	return cfg, nil
}
