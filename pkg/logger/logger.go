// Package logger builds the process logger from config
// Package logger 根据配置构建日志器
package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 日志配置
type Config struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string
	// File 日志文件路径，为空时仅输出到 stderr
	File string
	// Production 是否启用 JSON 输出
	Production bool
}

// NewLogger creates a zap logger writing to stderr and, when configured, to File.
// NewLogger 创建日志器，输出到 stderr 与可选的日志文件
func NewLogger(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		l, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = l
	}

	var encoder zapcore.Encoder
	if cfg.Production {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level),
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0754); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		// 文件始终使用 JSON，便于采集
		fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(f), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
