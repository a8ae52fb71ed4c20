// Config loading for the demo CLI.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/comalice/statestack"
	"github.com/comalice/statestack/realtime"
)

const (
	envPrefix = "STATESTACK"

	cfgKeyTickRate   = "tick_rate"
	cfgKeyMaxTicks   = "max_ticks"
	cfgKeyMachineID  = "machine.id"
	cfgKeySwitchMode = "machine.switch_mode"
	cfgKeyLogLevel   = "log_level"
	cfgKeyLogFormat  = "log_format"
)

// flagKeys maps run flags onto config keys.
var flagKeys = map[string]string{
	"tick-rate":   cfgKeyTickRate,
	"ticks":       cfgKeyMaxTicks,
	"id":          cfgKeyMachineID,
	"switch-mode": cfgKeySwitchMode,
	"log-level":   cfgKeyLogLevel,
	"log-format":  cfgKeyLogFormat,
}

type demoConfig struct {
	Runner    realtime.Config
	LogLevel  slog.Level
	LogFormat string
}

// loadConfig resolves settings with precedence flag > STATESTACK_* env >
// config file (yaml or toml) > defaults. An empty path skips the file.
func loadConfig(cmd *cobra.Command, path string) (demoConfig, error) {
	v := viper.New()
	v.SetDefault(cfgKeyTickRate, realtime.DefaultTickRate)
	v.SetDefault(cfgKeyMaxTicks, 0)
	v.SetDefault(cfgKeySwitchMode, statestack.SwitchTop.String())
	v.SetDefault(cfgKeyLogLevel, "info")
	v.SetDefault(cfgKeyLogFormat, "text")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return demoConfig{}, fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return demoConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	mode, err := statestack.ParseSwitchMode(v.GetString(cfgKeySwitchMode))
	if err != nil {
		return demoConfig{}, err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString(cfgKeyLogLevel))); err != nil {
		return demoConfig{}, fmt.Errorf("log level: %w", err)
	}

	format := strings.ToLower(v.GetString(cfgKeyLogFormat))
	if format != "text" && format != "json" {
		return demoConfig{}, fmt.Errorf("log format %q: want text or json", format)
	}

	cfg := demoConfig{
		Runner: realtime.Config{
			TickRate: v.GetDuration(cfgKeyTickRate),
			MaxTicks: v.GetUint64(cfgKeyMaxTicks),
			Machine: statestack.Config{
				ID:         v.GetString(cfgKeyMachineID),
				SwitchMode: mode,
			},
		}.WithDefaults(),
		LogLevel:  level,
		LogFormat: format,
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg demoConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
