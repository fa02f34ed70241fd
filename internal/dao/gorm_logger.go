package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/haierkeys/fast-note-web/pkg/logger"
	"github.com/haierkeys/fast-note-web/pkg/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger sends gorm logs to zap
// GormLogger 将 gorm 日志输出到 zap
type GormLogger struct {
	lg            *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger 创建 gorm 日志适配器，debug 模式记录全部 SQL
func NewGormLogger(lg *zap.Logger, runMode string, slowThreshold string) *GormLogger {
	if lg == nil {
		lg = zap.NewNop()
	}
	level := gormlogger.Warn
	if runMode == "debug" {
		level = gormlogger.Info
	}
	slow, err := util.ParseDuration(slowThreshold)
	if err != nil || slow <= 0 {
		slow = 200 * time.Millisecond
	}
	return &GormLogger{
		lg:            lg.With(zap.String(logger.FieldComponent, "gorm")),
		level:         level,
		slowThreshold: slow,
	}
}

// LogMode 设置日志级别
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	nl := *l
	nl.level = level
	return &nl
}

func (l *GormLogger) Info(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.lg.Sugar().Infof(msg, args...)
	}
}

func (l *GormLogger) Warn(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.lg.Sugar().Warnf(msg, args...)
	}
}

func (l *GormLogger) Error(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.lg.Sugar().Errorf(msg, args...)
	}
}

// Trace 记录 SQL 执行情况
func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.lg.Error("sql error",
			zap.Error(err),
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration(logger.FieldDuration, elapsed))
	case elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.lg.Warn("slow sql",
			zap.String("threshold", fmt.Sprint(l.slowThreshold)),
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration(logger.FieldDuration, elapsed))
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.lg.Debug("sql",
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration(logger.FieldDuration, elapsed))
	}
}
