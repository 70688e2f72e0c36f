package worker

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

var (
	ErrStopped   = errors.New("worker pool stopped")
	ErrQueueFull = errors.New("worker queue full")
)

// Task represents a unit of work executed by the pool.
type Task func()

// Pool 固定數量 worker 的背景工作池；Submit 不會阻塞呼叫端
type Pool interface {
	Submit(Task) error
	Stop()
}

// NewPool 建立 n 個 worker，佇列長度為 queue
// n<=0 時使用 1，queue<=0 時使用 n*16
func NewPool(n, queue int, log zerolog.Logger) Pool {
	if n <= 0 {
		n = 1
	}
	if queue <= 0 {
		queue = n * 16
	}
	p := &pool{jobs: make(chan Task, queue), log: log}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.run(job)
			}
		}()
	}
	return p
}

type pool struct {
	mu      sync.RWMutex
	stopped bool
	jobs    chan Task
	wg      sync.WaitGroup
	log     zerolog.Logger
}

// run 單一工作 panic 不影響 worker
func (p *pool) run(job Task) {
	if job == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("worker task panicked")
		}
	}()
	job()
}

func (p *pool) Submit(t Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}
	select {
	case p.jobs <- t:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop 停止接收新工作，等待佇列中的工作完成
func (p *pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
