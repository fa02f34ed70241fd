package dao

import (
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/haierkeys/fast-note-web/internal/model"
	"github.com/haierkeys/fast-note-web/pkg/fileurl"
	"github.com/haierkeys/fast-note-web/pkg/util"

	"github.com/glebarez/sqlite"
	"github.com/haierkeys/gormTracing"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

// NewDBEngineWithConfig opens the database described by c
// NewDBEngineWithConfig 根据配置创建数据库连接
func NewDBEngineWithConfig(c DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {
	dialector, err := useDialector(c, "")
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(lg, c.RunMode, c.SlowThreshold),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: c.TablePrefix, // 表名前缀，`Note` 的表名为 `prefix_notes`
		},
	})
	if err != nil {
		return nil, err
	}

	// 获取通用数据库对象 sql.DB ，然后使用其提供的功能
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if c.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}
	if d, err := util.ParseDuration(c.ConnMaxLifetime); err == nil && d > 0 {
		sqlDB.SetConnMaxLifetime(d)
	}
	if d, err := util.ParseDuration(c.ConnMaxIdleTime); err == nil && d > 0 {
		sqlDB.SetConnMaxIdleTime(d)
	}

	// 读写分离
	if len(c.Replicas) > 0 {
		replicas := make([]gorm.Dialector, 0, len(c.Replicas))
		for _, r := range c.Replicas {
			rd, err := useDialector(c, r)
			if err != nil {
				return nil, fmt.Errorf("replica %s: %w", r, err)
			}
			replicas = append(replicas, rd)
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("register dbresolver: %w", err)
		}
	}

	if err := db.Use(&gormTracing.OpentracingPlugin{}); err != nil {
		return nil, fmt.Errorf("register tracing plugin: %w", err)
	}

	if c.AutoMigrate {
		if err := model.AutoMigrate(db, ""); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}

	return db, nil
}

// useDialector builds the dialector for the primary, or for a replica when target is set
func useDialector(c DatabaseConfig, target string) (gorm.Dialector, error) {
	switch c.Type {
	case "mysql":
		host := c.Host
		if target != "" {
			host = target
		}
		charset := c.Charset
		if charset == "" {
			charset = "utf8mb4"
		}
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName,
			c.Password,
			host,
			c.Name,
			charset,
			c.ParseTime,
		)), nil
	case "postgres":
		host := c.Host
		if target != "" {
			host = target
		}
		port := "5432"
		if h, p, err := net.SplitHostPort(host); err == nil {
			host, port = h, p
		}
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Local",
			host, c.UserName, c.Password, c.Name, port,
		)), nil
	case "sqlite", "":
		path := c.Path
		if target != "" {
			path = target
		}
		if !strings.HasPrefix(path, ":memory:") && !fileurl.IsExist(path) {
			if err := fileurl.CreatePath(path, os.ModePerm); err != nil {
				return nil, err
			}
		}
		if !strings.Contains(path, "?") {
			path += "?_pragma=busy_timeout(5000)"
		}
		return sqlite.Open(path), nil
	}
	return nil, fmt.Errorf("unsupported database type %q", c.Type)
}
