// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/haierkeys/fast-note-web/internal/dao"
	"github.com/haierkeys/fast-note-web/pkg/limiter"
	"github.com/haierkeys/fast-note-web/pkg/logger"
	"github.com/haierkeys/fast-note-web/pkg/util"
	"github.com/haierkeys/fast-note-web/pkg/writequeue"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用配置
type AppConfig struct {
	File     string         `yaml:"-"` // 配置文件路径，不序列化
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	App      AppSettings    `yaml:"app"`
	Tracer   TracerConfig   `yaml:"tracer"`
	Limiter  LimiterConfig  `yaml:"limiter"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"info"`
	// File 日志文件路径，为空时只输出到 stderr
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式 debug / release
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen 私有 HTTP 监听地址，为空时不启动
	PrivateHttpListen string `yaml:"private-http-listen" default:"127.0.0.1:9001"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type 数据库类型 sqlite / mysql / postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/notes.sqlite3"`
	// UserName 用户名
	UserName string `yaml:"username"`
	// Password 密码
	Password string `yaml:"password"`
	// Host 主机
	Host string `yaml:"host"`
	// Name 数据库名
	Name string `yaml:"name"`
	// TablePrefix 表前缀
	TablePrefix string `yaml:"table-prefix"`
	// AutoMigrate 是否启用自动迁移
	AutoMigrate bool `yaml:"auto-migrate" default:"true"`
	// Charset 字符集
	Charset string `yaml:"charset" default:"utf8mb4"`
	// ParseTime 是否解析时间
	ParseTime bool `yaml:"parse-time" default:"true"`
	// MaxIdleConns 最大闲置连接数，默认 10
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数，默认 100
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 连接最大生命周期，支持格式：30m（分钟）、1h（小时），默认 30m
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	// ConnMaxIdleTime 空闲连接最大生命周期，默认 10m
	ConnMaxIdleTime string `yaml:"conn-max-idle-time" default:"10m"`
	// SlowThreshold 慢查询阈值，默认 200ms
	SlowThreshold string `yaml:"slow-threshold" default:"200ms"`
	// Replicas 只读副本
	Replicas []string `yaml:"replicas"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultContextTimeout 默认上下文超时时间（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
	// AssetVersion 前端资源版本，变化后 Inertia 客户端整页刷新
	AssetVersion string `yaml:"asset-version"`
	// DefaultLang 默认语言
	DefaultLang string `yaml:"default-lang" default:"en"`
	// StatsCron 笔记统计任务的 cron 表达式，为空时不启动
	StatsCron string `yaml:"stats-cron" default:"@every 1m"`

	// Write Queue 配置，仅 sqlite 启用
	WriteQueueCapacity int    `yaml:"write-queue-capacity" default:"100"`
	WriteQueueTimeout  string `yaml:"write-queue-timeout" default:"30s"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称，默认 X-Trace-ID
	Header string `yaml:"header" default:"X-Trace-ID"`
	// JaegerAgent jaeger agent 地址，为空时不上报
	JaegerAgent string `yaml:"jaeger-agent"`
	// SampleRate 采样率 0~1
	SampleRate float64 `yaml:"sample-rate" default:"1"`
}

// LimiterConfig 写接口限流
type LimiterConfig struct {
	// Enabled 是否启用
	Enabled bool `yaml:"enabled" default:"true"`
	// FillInterval 令牌填充间隔
	FillInterval string `yaml:"fill-interval" default:"1s"`
	// Capacity 桶容量
	Capacity int64 `yaml:"capacity" default:"20"`
	// Quantum 每次填充数量
	Quantum int64 `yaml:"quantum" default:"20"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	c := new(AppConfig)
	c.File = realpath

	// 设置默认值
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	// YAML 覆盖默认值；不再二次填充，否则 false 与空字符串无法关闭功能
	if err := yaml.Unmarshal(file, c); err != nil {
		return nil, realpath, errors.Wrap(err, "parse config file failed")
	}

	return c, realpath, nil
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	if err := os.WriteFile(c.File, data, 0644); err != nil {
		return errors.Wrap(err, "write config file failed")
	}
	return nil
}

// LoggerConfig 日志器配置
func (c *AppConfig) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		File:       c.Log.File,
		Production: c.Log.Production,
	}
}

// DAOConfig 转换为 DAO 层数据库配置
func (c *AppConfig) DAOConfig() dao.DatabaseConfig {
	d := c.Database
	return dao.DatabaseConfig{
		Type:            d.Type,
		Path:            d.Path,
		UserName:        d.UserName,
		Password:        d.Password,
		Host:            d.Host,
		Name:            d.Name,
		TablePrefix:     d.TablePrefix,
		AutoMigrate:     d.AutoMigrate,
		Charset:         d.Charset,
		ParseTime:       d.ParseTime,
		MaxIdleConns:    d.MaxIdleConns,
		MaxOpenConns:    d.MaxOpenConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		ConnMaxIdleTime: d.ConnMaxIdleTime,
		Replicas:        d.Replicas,
		SlowThreshold:   d.SlowThreshold,
		RunMode:         c.Server.RunMode,
	}
}

// GetWriteQueueConfig 获取 Write Queue 配置
func (c *AppConfig) GetWriteQueueConfig() writequeue.Config {
	cfg := writequeue.DefaultConfig()

	if c.App.WriteQueueCapacity > 0 {
		cfg.QueueCapacity = c.App.WriteQueueCapacity
	}
	if timeout, err := util.ParseDuration(c.App.WriteQueueTimeout); err == nil && timeout > 0 {
		cfg.WriteTimeout = timeout
	}
	return cfg
}

// ContextTimeout 请求上下文超时
func (c *AppConfig) ContextTimeout() time.Duration {
	return time.Duration(c.App.DefaultContextTimeout) * time.Second
}

// WriteRouteRules 写路由的限流规则
func (c *AppConfig) WriteRouteRules() []limiter.BucketRule {
	interval, err := util.ParseDuration(c.Limiter.FillInterval)
	if err != nil || interval <= 0 {
		interval = time.Second
	}
	var rules []limiter.BucketRule
	for _, key := range []string{
		"POST /notes",
		"PUT /notes/:note",
		"PATCH /notes/:note",
		"DELETE /notes/:note",
	} {
		rules = append(rules, limiter.BucketRule{
			Key:          key,
			FillInterval: interval,
			Capacity:     c.Limiter.Capacity,
			Quantum:      c.Limiter.Quantum,
		})
	}
	return rules
}
