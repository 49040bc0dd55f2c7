package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// 默认配置值。
const (
	DefaultPort        = "8080"
	DefaultDataFile    = "data/todos.json"
	DefaultMetricsAddr = ":9090"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig  `toml:"server" yaml:"server"`
	Data    DataConfig    `toml:"data" yaml:"data"`
	Log     LogConfig     `toml:"log" yaml:"log"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics"`
	Tracing TracingConfig `toml:"tracing" yaml:"tracing"`
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// DataConfig 描述 todo 数据文件位置。
type DataConfig struct {
	File string `toml:"file" yaml:"file"`
}

// LogConfig 描述日志级别与输出格式。
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// MetricsConfig 描述管理端口（/metrics 与 /healthz），Addr 为空时关闭。
type MetricsConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// TracingConfig 控制是否将 span 输出到标准输出。
type TracingConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
}

// Default 返回未读取任何来源时的配置。
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Addr: ":" + DefaultPort},
		Data:    DataConfig{File: DefaultDataFile},
		Log:     LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Metrics: MetricsConfig{Addr: DefaultMetricsAddr},
	}
}

// Load 依次应用默认值、CONFIG_FILE 指定的配置文件和环境变量，后者优先。
func Load() (*Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile 根据扩展名选择 TOML 或 YAML 解析器。
func loadFile(cfg *Config, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return fmt.Errorf("parse config file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config file %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q (want .toml, .yaml or .yml)", filepath.Ext(path))
	}
	return nil
}

func applyEnv(cfg *Config) error {
	server, err := loadServerConfig(cfg.Server)
	if err != nil {
		return err
	}
	cfg.Server = server

	cfg.Data.File = getEnvOrDefault("TODO_DATA_FILE", cfg.Data.File)
	cfg.Log.Level = getEnvOrDefault("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnvOrDefault("LOG_FORMAT", cfg.Log.Format)

	// METRICS_ADDR 显式设为空字符串可关闭管理端口。
	if raw, ok := os.LookupEnv("METRICS_ADDR"); ok {
		cfg.Metrics.Addr = strings.TrimSpace(raw)
	}

	tracing, err := parseBoolEnv("TRACING_ENABLED", cfg.Tracing.Enabled)
	if err != nil {
		return err
	}
	cfg.Tracing.Enabled = tracing

	return nil
}

// loadServerConfig 解析服务器监听地址，PORT 优先于配置文件。
func loadServerConfig(current ServerConfig) (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		return current, nil
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	if _, err := strconv.Atoi(port); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid PORT value %q: %w", port, err)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// Validate 检查必填项。
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server address must not be empty")
	}
	if strings.TrimSpace(c.Data.File) == "" {
		return fmt.Errorf("todo data file must not be empty")
	}
	if c.Metrics.Addr != "" && c.Metrics.Addr == c.Server.Addr {
		return fmt.Errorf("metrics address %q collides with server address", c.Metrics.Addr)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}
