package stream

import (
	"sync"
	"time"
)

const defaultLatencyAlpha = 0.05

// latencyEWMA 单个样本 Push 耗时的指数加权移动平均
type latencyEWMA struct {
	mu          sync.Mutex
	alpha       float64 // 0~1，越大越贴近最近的样本
	value       float64 // 秒
	initialized bool
}

func newLatencyEWMA(alpha float64) *latencyEWMA {
	if alpha <= 0 {
		alpha = defaultLatencyAlpha
	}
	if alpha > 1 {
		alpha = 1
	}
	return &latencyEWMA{alpha: alpha}
}

func (e *latencyEWMA) observe(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	x := d.Seconds()
	if !e.initialized {
		e.value = x
		e.initialized = true
		return
	}
	e.value = e.alpha*x + (1-e.alpha)*e.value
}

func (e *latencyEWMA) get() (time.Duration, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return 0, false
	}
	return time.Duration(e.value * float64(time.Second)), true
}
