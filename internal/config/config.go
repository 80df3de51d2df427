package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Gateway    ServerConfig     `mapstructure:"gateway"`
	Redis      RedisConfig      `mapstructure:"redis"`
	MySQL      MySQLConfig      `mapstructure:"mysql"`
	Leader     LeaderConfig     `mapstructure:"leader"`
	Instance   InstanceConfig   `mapstructure:"instance"`
	Settlement SettlementConfig `mapstructure:"settlement"`
	Events     EventsConfig     `mapstructure:"events"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MySQLConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type LeaderConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Key     string        `mapstructure:"key"`
	TTL     time.Duration `mapstructure:"ttl"`
	Retry   time.Duration `mapstructure:"retry"`
}

type InstanceConfig struct {
	ID string `mapstructure:"id"`
}

// SettlementConfig controls the settlement pass cadence and its timeouts.
// Schedule, when set, is a cron expression with seconds and wins over Interval.
type SettlementConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	Schedule      string        `mapstructure:"schedule"`
	PassTimeout   time.Duration `mapstructure:"pass_timeout"`
	CommitTimeout time.Duration `mapstructure:"commit_timeout"`
	NotifyTimeout time.Duration `mapstructure:"notify_timeout"`
	RunOnStart    bool          `mapstructure:"run_on_start"`
}

type EventsConfig struct {
	Driver  string `mapstructure:"driver"`
	Channel string `mapstructure:"channel"`
	// NotificationChannel is the pub/sub channel carrying user notifications
	// from settlement instances to notification gateways.
	NotificationChannel string `mapstructure:"notification_channel"`
	// Notifier selects winner delivery: "redis" publishes on
	// NotificationChannel, "local" writes to this process's own sockets.
	Notifier string `mapstructure:"notifier"`
}

type NATSConfig struct {
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

const (
	EventsDriverRedis = "redis"
	EventsDriverNATS  = "nats"
	EventsDriverNone  = "none"

	NotifierRedis = "redis"
	NotifierLocal = "local"

	StorageDriverMySQL  = "mysql"
	StorageDriverMemory = "memory"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("gateway.port", 8081)
	v.SetDefault("gateway.host", "0.0.0.0")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("mysql.dsn", "auction_user:auction_pass@tcp(localhost:3306)/auction_db?parseTime=true")
	v.SetDefault("mysql.max_open_conns", 25)
	v.SetDefault("mysql.max_idle_conns", 10)
	v.SetDefault("mysql.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("leader.enabled", true)
	v.SetDefault("leader.key", "auction_settlement_leader")
	v.SetDefault("leader.ttl", 30*time.Second)
	v.SetDefault("leader.retry", 10*time.Second)
	v.SetDefault("instance.id", "settlement-service-1")
	v.SetDefault("settlement.interval", time.Minute)
	v.SetDefault("settlement.schedule", "")
	v.SetDefault("settlement.pass_timeout", 5*time.Minute)
	v.SetDefault("settlement.commit_timeout", 10*time.Second)
	v.SetDefault("settlement.notify_timeout", 2*time.Second)
	v.SetDefault("settlement.run_on_start", true)
	v.SetDefault("events.driver", EventsDriverRedis)
	v.SetDefault("events.channel", "auction_events")
	v.SetDefault("events.notification_channel", "user_notifications")
	v.SetDefault("events.notifier", NotifierRedis)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.subject_prefix", "auction.settled")
	v.SetDefault("storage.driver", StorageDriverMySQL)
	v.SetDefault("log.level", "info")
}

func bindEnv(v *viper.Viper) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Environment variable mappings
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.host", "SERVER_HOST")
	v.BindEnv("gateway.port", "GATEWAY_PORT")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")
	v.BindEnv("mysql.dsn", "MYSQL_DSN")
	v.BindEnv("mysql.max_open_conns", "MYSQL_MAX_OPEN_CONNS")
	v.BindEnv("mysql.max_idle_conns", "MYSQL_MAX_IDLE_CONNS")
	v.BindEnv("mysql.conn_max_lifetime", "MYSQL_CONN_MAX_LIFETIME")
	v.BindEnv("leader.enabled", "LEADER_ENABLED")
	v.BindEnv("leader.ttl", "LEADER_TTL")
	v.BindEnv("instance.id", "INSTANCE_ID")
	v.BindEnv("settlement.interval", "SETTLEMENT_INTERVAL")
	v.BindEnv("settlement.schedule", "SETTLEMENT_SCHEDULE")
	v.BindEnv("events.driver", "EVENTS_DRIVER")
	v.BindEnv("events.notifier", "EVENTS_NOTIFIER")
	v.BindEnv("nats.url", "NATS_URL")
	v.BindEnv("storage.driver", "STORAGE_DRIVER")
	v.BindEnv("log.level", "LOG_LEVEL")
}

func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	// Configuration file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/auction-settlement/")

	// Read configuration file (optional - will use defaults/env vars if not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return unmarshal(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	bindEnv(v)
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if c.Settlement.Schedule == "" && c.Settlement.Interval <= 0 {
		return fmt.Errorf("settlement.interval must be positive, got %s", c.Settlement.Interval)
	}
	if c.Settlement.PassTimeout <= 0 {
		return fmt.Errorf("settlement.pass_timeout must be positive, got %s", c.Settlement.PassTimeout)
	}
	if c.Settlement.CommitTimeout <= 0 {
		return fmt.Errorf("settlement.commit_timeout must be positive, got %s", c.Settlement.CommitTimeout)
	}
	if c.Settlement.NotifyTimeout <= 0 {
		return fmt.Errorf("settlement.notify_timeout must be positive, got %s", c.Settlement.NotifyTimeout)
	}
	if c.Leader.Enabled && c.Leader.TTL <= 0 {
		return fmt.Errorf("leader.ttl must be positive, got %s", c.Leader.TTL)
	}
	if c.Leader.Enabled && c.Leader.Retry <= 0 {
		return fmt.Errorf("leader.retry must be positive, got %s", c.Leader.Retry)
	}

	switch c.Events.Driver {
	case EventsDriverRedis, EventsDriverNATS, EventsDriverNone:
	default:
		return fmt.Errorf("unknown events.driver %q", c.Events.Driver)
	}

	switch c.Events.Notifier {
	case NotifierRedis, NotifierLocal:
	default:
		return fmt.Errorf("unknown events.notifier %q", c.Events.Notifier)
	}

	switch c.Storage.Driver {
	case StorageDriverMySQL, StorageDriverMemory:
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	return nil
}

// CronSpec returns the robfig/cron spec the settlement scheduler registers.
func (c SettlementConfig) CronSpec() string {
	if c.Schedule != "" {
		return c.Schedule
	}
	return "@every " + c.Interval.String()
}

// GetConfigString returns a formatted string representation of the config
func (c *Config) GetConfigString() string {
	return fmt.Sprintf(
		"Server: %s:%d, Redis: %s, Storage: %s, Events: %s, Settlement: %s, Instance: %s",
		c.Server.Host,
		c.Server.Port,
		c.Redis.Address,
		c.Storage.Driver,
		c.Events.Driver,
		c.Settlement.CronSpec(),
		c.Instance.ID,
	)
}
