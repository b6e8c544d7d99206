package config

import (
	"fmt"
	"time"
)

const (
	ReplyPolicyOrphan  = "orphan"
	ReplyPolicyCascade = "cascade"
)

// Config 配置主体
type Config struct {
	Server               ServerConfig       `mapstructure:"server"`
	DB                   DBConfig           `mapstructure:"database"`
	Redis                RedisConfig        `mapstructure:"redis"`
	MinIO                MinIOConfig        `mapstructure:"minio"`
	Log                  LogConfig          `mapstructure:"log"`
	JWT                  JWTConfig          `mapstructure:"jwt"`
	Kafka                KafkaConfig        `mapstructure:"kafka"`
	KafkaLikeConsumer    KafkaConsumerGroup `mapstructure:"kafka_like_consumer"`
	KafkaCommentConsumer KafkaConsumerGroup `mapstructure:"kafka_comment_consumer"`
	Notification         NotificationConfig `mapstructure:"notification"`
	Comments             CommentsConfig     `mapstructure:"comments"`
	Slug                 SlugConfig         `mapstructure:"slug"`
	Cache                CacheConfig        `mapstructure:"cache"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port   int   `mapstructure:"port"`
	NodeID int64 `mapstructure:"node_id"`
}

// DBConfig 数据库配置，Driver 取 mysql 或 postgres
type DBConfig struct {
	Driver      string `mapstructure:"driver"`
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	MainBucket       string `mapstructure:"main_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
	UsePublicLink    bool   `mapstructure:"use_public_link"`
}

type LogConfig struct {
	Level    string         `mapstructure:"level"`
	Logstash LogstashConfig `mapstructure:"logstash"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	Issuer          string `mapstructure:"issuer"`
	ExpirationHours int    `mapstructure:"expiration_hours"`
}

// KafkaConfig Version 为空时使用 sarama 默认协议版本
type KafkaConfig struct {
	Enable   bool           `mapstructure:"enable"`
	Brokers  []string       `mapstructure:"brokers"`
	ClientID string         `mapstructure:"client_id"`
	Version  string         `mapstructure:"version"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// ConsumerConfig 时间单位为秒，InitialOffset 取 newest 或 oldest
type ConsumerConfig struct {
	InitialOffset     string `mapstructure:"initial_offset"`
	SessionTimeout    int    `mapstructure:"session_timeout"`
	HeartbeatInterval int    `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int    `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int    `mapstructure:"max_processing_time"`
}

type KafkaConsumerGroup struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// NotificationConfig SuppressSelf 为 true 时自己对自己的操作不产生通知
type NotificationConfig struct {
	SuppressSelf  bool   `mapstructure:"suppress_self"`
	RetentionDays int    `mapstructure:"retention_days"`
	PurgeCron     string `mapstructure:"purge_cron"`
}

func (c NotificationConfig) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// CommentsConfig ReplyPolicy 决定删除一级评论时回复的去留
type CommentsConfig struct {
	ReplyPolicy string `mapstructure:"reply_policy"`
}

type SlugConfig struct {
	MaxAttempts int `mapstructure:"max_attempts"`
}

type CacheConfig struct {
	CounterTTLMinutes int `mapstructure:"counter_ttl_minutes"`
}

func (c CacheConfig) CounterTTL() time.Duration {
	return time.Duration(c.CounterTTLMinutes) * time.Minute
}

func (c *Config) Validate() error {
	switch c.Comments.ReplyPolicy {
	case ReplyPolicyOrphan, ReplyPolicyCascade:
	default:
		return fmt.Errorf("invalid comments.reply_policy: %q", c.Comments.ReplyPolicy)
	}
	if c.Slug.MaxAttempts <= 0 {
		return fmt.Errorf("slug.max_attempts must be positive, got %d", c.Slug.MaxAttempts)
	}
	return nil
}
