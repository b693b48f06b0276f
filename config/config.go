package config

import (
	"encoding/json"
	"os"
)

var Config *AppConfig

type AppConfig struct {
	AppName     string `json:"app_name" mapstructure:"app_name"`
	LogConfig   `json:",inline" mapstructure:",inline"`
	TimerConfig `json:",inline" mapstructure:",inline"`
	IsDebug     bool `json:"is_debug" mapstructure:"is_debug"`
}

type LogConfig struct {
	LogPath   string `json:"log_path" mapstructure:"log_path"`
	LogName   string `json:"log_name" mapstructure:"log_name"`
	LogLevel  int    `json:"log_level" mapstructure:"log_level"`
	LogStdOut bool   `json:"log_std_out" mapstructure:"log_std_out"`
}

type TimerConfig struct {
	TickSpanMs     int64 `json:"tick_span_ms" mapstructure:"tick_span_ms"`         //tick循环间隔 毫秒
	PollIntervalMs int64 `json:"poll_interval_ms" mapstructure:"poll_interval_ms"` //触发扫描的节流间隔 毫秒
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		AppName: "timekit",
		LogConfig: LogConfig{
			LogLevel:  4, // debug
			LogStdOut: true,
		},
		TimerConfig: TimerConfig{
			TickSpanMs:     10,
			PollIntervalMs: 10,
		},
	}
}

func LoadConfig(configFile string, loadConfigFromEnv func(*AppConfig) error) error {
	Config = defaultConfig()
	if len(configFile) != 0 {
		if err := loadConfigFromFile(configFile); err != nil {
			return err
		}
	}
	if loadConfigFromEnv != nil {
		return loadConfigFromEnv(Config)
	}
	return nil
}

func loadConfigFromFile(configFile string) error {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, Config)
}

func (conf *AppConfig) JsonFormat() string {
	if conf == nil {
		return "{}"
	}
	data, err := json.MarshalIndent(conf, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
