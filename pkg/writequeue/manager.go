// Package writequeue serializes database writes through a single worker
// Used to avoid SQLite "database is locked" errors under concurrent requests
// Package writequeue 通过单一 worker 串行化数据库写操作，解决 SQLite "database is locked" 问题
package writequeue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Error definitions
// 错误定义
var (
	// ErrWriteQueueFull 写队列已满
	ErrWriteQueueFull = errors.New("write queue is full")
	// ErrWriteQueueClosed 写队列已关闭
	ErrWriteQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout 写操作超时
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config write queue configuration
// Config 写队列配置
type Config struct {
	// QueueCapacity 队列容量，默认 100
	QueueCapacity int
	// WriteTimeout 写操作超时时间，默认 30 秒
	WriteTimeout time.Duration
}

// DefaultConfig returns default configuration
// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		QueueCapacity: 100,
		WriteTimeout:  30 * time.Second,
	}
}

const (
	opPending int32 = iota
	opRunning
	opAbandoned
)

type writeOp struct {
	ctx    context.Context
	fn     func() error
	result chan error
	// pending -> running by the worker, pending -> abandoned by a caller that stopped waiting.
	// Whichever transition wins decides the outcome, so a reported failure never commits.
	state *atomic.Int32
}

// abandon marks op as skipped; false means the worker already started it.
func (op writeOp) abandon() bool {
	return op.state.CompareAndSwap(opPending, opAbandoned)
}

// Manager runs queued write operations one at a time in FIFO order
// Manager 按 FIFO 顺序逐个执行写操作
type Manager struct {
	config Config
	logger *zap.Logger

	ch     chan writeOp
	stopCh chan struct{}
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// New creates write queue manager
// New 创建写队列管理器
func New(cfg *Config, logger *zap.Logger) *Manager {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.QueueCapacity > 0 {
			c.QueueCapacity = cfg.QueueCapacity
		}
		if cfg.WriteTimeout > 0 {
			c.WriteTimeout = cfg.WriteTimeout
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		config: c,
		logger: logger,
		ch:     make(chan writeOp, c.QueueCapacity),
		stopCh: make(chan struct{}),
	}

	m.wg.Add(1)
	go m.worker()

	m.logger.Info("write queue manager started",
		zap.Int("queueCapacity", c.QueueCapacity),
		zap.Duration("writeTimeout", c.WriteTimeout))

	return m
}

// Execute enqueues fn and waits for its result
// Execute 提交写操作并等待结果
func (m *Manager) Execute(ctx context.Context, fn func() error) error {
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return ErrWriteQueueClosed
	}

	op := writeOp{ctx: ctx, fn: fn, result: make(chan error, 1), state: &atomic.Int32{}}
	select {
	case m.ch <- op:
	default:
		m.mu.RUnlock()
		return ErrWriteQueueFull
	}
	m.mu.RUnlock()

	timeout := m.config.WriteTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-op.result:
		return err
	case <-ctx.Done():
		if op.abandon() {
			return ctx.Err()
		}
	case <-timer.C:
		if op.abandon() {
			return ErrWriteTimeout
		}
	}
	// 已开始执行，等待真实结果
	return <-op.result
}

func (m *Manager) worker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			m.drain()
			return
		case op := <-m.ch:
			m.executeOp(op)
		}
	}
}

func (m *Manager) executeOp(op writeOp) {
	// 调用方已放弃等待的操作不再执行
	if !op.state.CompareAndSwap(opPending, opRunning) {
		return
	}
	if err := op.ctx.Err(); err != nil {
		op.result <- err
		return
	}
	op.result <- op.fn()
}

func (m *Manager) drain() {
	for {
		select {
		case op := <-m.ch:
			m.executeOp(op)
		default:
			return
		}
	}
}

// Shutdown stops accepting writes, runs what is queued and waits for the worker
// Shutdown 停止接收写操作，执行剩余操作并等待 worker 退出
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.stopCh)
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("write queue manager stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
