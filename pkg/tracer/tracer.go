// Package tracer 初始化 jaeger 链路追踪
package tracer

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// Config jaeger 上报配置
type Config struct {
	ServiceName string
	AgentHost   string  // host:port，为空时不上报
	SampleRate  float64 // 0~1，>=1 时全量采样
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup installs the global tracer. With no agent configured the opentracing
// no-op tracer stays in place and the returned closer does nothing.
// Setup 设置全局 tracer，返回的 closer 用于关闭时刷新 span
func Setup(cfg Config) (io.Closer, error) {
	if cfg.AgentHost == "" {
		return nopCloser{}, nil
	}

	sampler := &jaegercfg.SamplerConfig{Type: jaeger.SamplerTypeConst, Param: 1}
	if cfg.SampleRate < 1 {
		sampler = &jaegercfg.SamplerConfig{Type: jaeger.SamplerTypeProbabilistic, Param: cfg.SampleRate}
	}

	jc := &jaegercfg.Configuration{
		ServiceName: cfg.ServiceName,
		Sampler:     sampler,
		Reporter: &jaegercfg.ReporterConfig{
			LocalAgentHostPort: cfg.AgentHost,
		},
	}

	t, closer, err := jc.NewTracer()
	if err != nil {
		return nil, errors.Wrap(err, "init jaeger tracer failed")
	}
	opentracing.SetGlobalTracer(t)
	return closer, nil
}
