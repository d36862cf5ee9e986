package main

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Service struct {
		BaseURL          string `toml:"base_url"`
		ChatInterval     string `toml:"chat_interval"`
		ListenerInterval string `toml:"listener_interval"`
		MarqueeTick      string `toml:"marquee_tick"`
	} `toml:"service"`

	Audio struct {
		Enabled *bool `toml:"enabled"`
		Volume  *int  `toml:"volume"`
	} `toml:"audio"`

	Chat struct {
		CommandPrefix string `toml:"command_prefix"`
	} `toml:"chat"`
}

// Settings is the fully-resolved runtime configuration: defaults,
// overridden by the config file, overridden by flags.
type Settings struct {
	BaseURL          string
	ChatInterval     time.Duration
	ListenerInterval time.Duration
	MarqueeTick      time.Duration
	RenderTick       time.Duration
	AudioEnabled     bool
	Volume           int
	CommandPrefix    string
}

func DefaultSettings() Settings {
	return Settings{
		BaseURL:          "http://jetsetradio.live",
		ChatInterval:     500 * time.Millisecond,
		ListenerInterval: time.Second,
		MarqueeTick:      100 * time.Millisecond,
		RenderTick:       100 * time.Millisecond,
		AudioEnabled:     true,
		Volume:           5,
		CommandPrefix:    "/",
	}
}

func LoadConfig(path string) (*Config, error) {
	var config Config

	if path == "" {
		return &config, nil
	}

	_, err := toml.DecodeFile(path, &config)
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// Apply folds the values present in a config file into the settings.
// Empty or zero fields keep their current value.
func (s *Settings) Apply(config *Config) error {
	if config.Service.BaseURL != "" {
		s.BaseURL = config.Service.BaseURL
	}
	for _, f := range []struct {
		raw  string
		dst  *time.Duration
		name string
	}{
		{config.Service.ChatInterval, &s.ChatInterval, "chat_interval"},
		{config.Service.ListenerInterval, &s.ListenerInterval, "listener_interval"},
		{config.Service.MarqueeTick, &s.MarqueeTick, "marquee_tick"},
	} {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("config: bad %s %q: %v", f.name, f.raw, err)
		}
		if d <= 0 {
			return fmt.Errorf("config: %s must be positive", f.name)
		}
		*f.dst = d
	}
	if config.Audio.Enabled != nil {
		s.AudioEnabled = *config.Audio.Enabled
	}
	if config.Audio.Volume != nil {
		v := *config.Audio.Volume
		if v < 0 || v > 9 {
			return fmt.Errorf("config: volume must be between 0 and 9")
		}
		s.Volume = v
	}
	if config.Chat.CommandPrefix != "" {
		if len(config.Chat.CommandPrefix) != 1 {
			return fmt.Errorf("config: command_prefix must be a single character")
		}
		s.CommandPrefix = config.Chat.CommandPrefix
	}
	return nil
}
