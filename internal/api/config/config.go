package config

import (
	"errors"
	"fmt"
	log "log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

const envPrefix = "ATELIER"

// LoadConfig 从文件加载配置并填充到 Cfg，环境变量（含 .env）优先于文件
func LoadConfig(paths ...string) error {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded", "err", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		log.Warn("config file not found, using defaults and environment")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	Cfg = &cfg
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.node_id", 1)
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 50)
	v.SetDefault("database.max_lifetime", 30)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("kafka.client_id", "atelier")
	v.SetDefault("kafka.consumer.initial_offset", "newest")
	v.SetDefault("notification.suppress_self", false)
	v.SetDefault("notification.retention_days", 90)
	v.SetDefault("notification.purge_cron", "0 30 3 * * *")
	v.SetDefault("comments.reply_policy", ReplyPolicyOrphan)
	v.SetDefault("slug.max_attempts", 5)
	v.SetDefault("cache.counter_ttl_minutes", 60)
}

// Default 不读取文件与环境变量的默认配置，供测试与 migrate 命令使用
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}
