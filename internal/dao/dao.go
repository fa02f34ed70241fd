// Package dao 实现数据访问层
package dao

import (
	"context"

	"github.com/haierkeys/fast-note-web/pkg/writequeue"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DatabaseConfig 数据库配置（DAO 层使用）
type DatabaseConfig struct {
	// Type 数据库类型：sqlite / mysql / postgres
	Type string
	// Path SQLite 数据库文件路径
	Path string
	// UserName 用户名
	UserName string
	// Password 密码
	Password string
	// Host 主机，可带端口
	Host string
	// Name 数据库名
	Name string
	// TablePrefix 表前缀
	TablePrefix string
	// AutoMigrate 是否启用自动迁移
	AutoMigrate bool
	// Charset 字符集
	Charset string
	// ParseTime 是否解析时间
	ParseTime bool
	// MaxIdleConns 最大闲置连接数
	MaxIdleConns int
	// MaxOpenConns 最大打开连接数
	MaxOpenConns int
	// ConnMaxLifetime 连接最大生命周期
	ConnMaxLifetime string
	// ConnMaxIdleTime 空闲连接最大生命周期
	ConnMaxIdleTime string
	// Replicas 只读副本，格式与主库相同（sqlite 为路径，mysql/postgres 为 host）
	Replicas []string
	// SlowThreshold 慢查询阈值
	SlowThreshold string
	// RunMode 运行模式
	RunMode string
}

// Dao 数据访问对象，封装数据库连接与写队列
type Dao struct {
	db         *gorm.DB
	config     *DatabaseConfig
	logger     *zap.Logger
	writeQueue *writequeue.Manager
}

// Option Dao 配置项
type Option func(*Dao)

// WithConfig 设置数据库配置
func WithConfig(c *DatabaseConfig) Option {
	return func(d *Dao) { d.config = c }
}

// WithLogger 设置日志器
func WithLogger(l *zap.Logger) Option {
	return func(d *Dao) { d.logger = l }
}

// WithWriteQueueManager routes writes through a serial queue
// WithWriteQueueManager 写操作经由写队列串行执行
func WithWriteQueueManager(m *writequeue.Manager) Option {
	return func(d *Dao) { d.writeQueue = m }
}

// New 创建 Dao 实例
func New(db *gorm.DB, opts ...Option) *Dao {
	d := &Dao{db: db, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DB returns the connection bound to ctx
// DB 返回绑定 ctx 的连接
func (d *Dao) DB(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}

// Dialect 数据库方言名称
func (d *Dao) Dialect() string {
	return d.db.Dialector.Name()
}

// ExecuteWrite runs fn through the write queue when one is configured
// ExecuteWrite 执行写操作，配置了写队列时串行化执行
func (d *Dao) ExecuteWrite(ctx context.Context, fn func(db *gorm.DB) error) error {
	if d.writeQueue == nil {
		return fn(d.DB(ctx))
	}
	return d.writeQueue.Execute(ctx, func() error {
		return fn(d.DB(ctx))
	})
}
