// Package safe_close coordinates graceful shutdown of attached workers
// Package safe_close 协调已注册任务的优雅关闭
package safe_close

import (
	"sync"
)

// SafeClose broadcasts one close signal to every attached worker and waits for them.
// SafeClose 向所有已注册的任务广播关闭信号并等待其结束
type SafeClose struct {
	closeOnce   sync.Once
	closeSignal chan struct{}
	wg          sync.WaitGroup

	mu  sync.Mutex
	err error
}

func NewSafeClose() *SafeClose {
	return &SafeClose{closeSignal: make(chan struct{})}
}

// Attach runs fn in its own goroutine. fn must call done when it has finished.
// Attach 在独立 goroutine 中运行 fn，fn 结束时必须调用 done
func (s *SafeClose) Attach(fn func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	go fn(s.wg.Done, s.closeSignal)
}

// SendCloseSignal closes the signal channel once. The first non nil err is kept.
// SendCloseSignal 发送关闭信号（仅生效一次），保留第一个非空错误
func (s *SafeClose) SendCloseSignal(err error) {
	s.mu.Lock()
	if s.err == nil && err != nil {
		s.err = err
	}
	s.mu.Unlock()

	s.closeOnce.Do(func() {
		close(s.closeSignal)
	})
}

// CloseSignal exposes the signal channel for callers that only need to observe it.
func (s *SafeClose) CloseSignal() <-chan struct{} {
	return s.closeSignal
}

// WaitClosed blocks until every attached worker called done.
// WaitClosed 阻塞直到所有任务结束
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
