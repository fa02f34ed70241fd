// Package limiter 提供基于令牌桶的接口限流
package limiter

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// Face 限流器接口
type Face interface {
	Key(c *gin.Context) string
	GetBucket(key string) (*ratelimit.Bucket, bool)
	AddBuckets(rules ...BucketRule) Face
}

// BucketRule 令牌桶规则
type BucketRule struct {
	// Key 路由键，格式为 "METHOD /route/:pattern"
	Key string
	// FillInterval 放入令牌的间隔
	FillInterval time.Duration
	// Capacity 桶容量
	Capacity int64
	// Quantum 每次放入的令牌数
	Quantum int64
}

// RouteLimiter limits by HTTP method and matched route pattern,
// so every id under /notes/:id shares one bucket.
// RouteLimiter 按请求方法与路由模板限流
type RouteLimiter struct {
	mu      sync.RWMutex
	buckets map[string]*ratelimit.Bucket
}

func NewRouteLimiter() *RouteLimiter {
	return &RouteLimiter{buckets: make(map[string]*ratelimit.Bucket)}
}

func (l *RouteLimiter) Key(c *gin.Context) string {
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return c.Request.Method + " " + route
}

func (l *RouteLimiter) GetBucket(key string) (*ratelimit.Bucket, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	bucket, ok := l.buckets[key]
	return bucket, ok
}

func (l *RouteLimiter) AddBuckets(rules ...BucketRule) Face {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, rule := range rules {
		if rule.FillInterval <= 0 || rule.Capacity <= 0 {
			continue
		}
		quantum := rule.Quantum
		if quantum <= 0 {
			quantum = 1
		}
		if _, ok := l.buckets[rule.Key]; !ok {
			l.buckets[rule.Key] = ratelimit.NewBucketWithQuantum(rule.FillInterval, rule.Capacity, quantum)
		}
	}
	return l
}
