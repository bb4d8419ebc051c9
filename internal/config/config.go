package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dkeye/CodeCurrent/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/spf13/viper"
)

type ICEServer struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	PongWait   time.Duration `mapstructure:"pong_wait"`
	WriteWait  time.Duration `mapstructure:"write_wait"`
	SendBuffer int           `mapstructure:"send_buffer"`
	// EventBuffer sizes the hub command queue.
	EventBuffer int    `mapstructure:"event_buffer"`
	Secret      string `mapstructure:"secret"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	DefaultFileName    string `mapstructure:"default_file_name"`
	DefaultFileContent string `mapstructure:"default_file_content"`

	BackpressurePolicy string        `mapstructure:"backpressure_policy"`
	ChatRateLimit      int           `mapstructure:"chat_rate_limit"`
	ChatRateWindow     time.Duration `mapstructure:"chat_rate_window"`
	RoomIdleTTL        time.Duration `mapstructure:"room_idle_ttl"`
	SweepInterval      time.Duration `mapstructure:"sweep_interval"`

	ICEServers []ICEServer `mapstructure:"ice_servers"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 1<<20)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("write_wait", "10s")
	v.SetDefault("send_buffer", 256)
	v.SetDefault("event_buffer", 1024)
	v.SetDefault("secret", "codecurrent-dev-secret")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("default_file_name", "main.js")
	v.SetDefault("default_file_content", "// Start coding here!\n")
	v.SetDefault("backpressure_policy", "drop")
	v.SetDefault("chat_rate_limit", 10)
	v.SetDefault("chat_rate_window", "5s")
	v.SetDefault("room_idle_ttl", "0s")
	v.SetDefault("sweep_interval", "1m")
	v.SetDefault("ice_servers", []map[string]any{
		{"urls": []string{"stun:stun.l.google.com:19302"}},
	})
}

func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

// LoadFile reads fileName if present; a missing file falls back to defaults.
// CC_* environment variables override both.
func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("CC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fmt.Printf("🧩 Mode: %s | Port: %d | Static: %s\n", cfg.Mode, cfg.Port, cfg.StaticPath)
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.BackpressurePolicy {
	case "", "drop", "kick":
	default:
		return fmt.Errorf("invalid backpressure_policy %q", c.BackpressurePolicy)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.PongWait > 0 && c.PingPeriod >= c.PongWait {
		return fmt.Errorf("ping_period (%s) must be shorter than pong_wait (%s)", c.PingPeriod, c.PongWait)
	}
	if err := c.Seed().Name.Validate(); err != nil {
		return fmt.Errorf("default_file_name: %w", err)
	}
	return nil
}

// Seed is the file every new room starts with.
func (c *Config) Seed() domain.DefaultFile {
	return domain.DefaultFile{
		Name:    domain.Filename(c.DefaultFileName),
		Content: c.DefaultFileContent,
	}
}

func (c *Config) WebRTCICEServers() []webrtc.ICEServer {
	out := make([]webrtc.ICEServer, 0, len(c.ICEServers))
	for _, s := range c.ICEServers {
		srv := webrtc.ICEServer{URLs: s.URLs, Username: s.Username}
		if s.Credential != "" {
			srv.Credential = s.Credential
		}
		out = append(out, srv)
	}
	return out
}
