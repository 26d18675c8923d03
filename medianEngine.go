package moving_median

import "github.com/pkg/errors"

// MedianEngine 滑动窗口中位数。
// 窗口填满之前 Push 不输出；第 W 个样本开始每个样本输出一个中位数。
//
// 不是并发安全的，一个流一个实例。
type MedianEngine struct {
	window *OrderStatisticWindow
	state  State
	median float64 // 最近一次输出的中位数
}

func NewMedianEngine(windowSize int) (*MedianEngine, error) {
	w, err := NewOrderStatisticWindow(windowSize)
	if err != nil {
		return nil, err
	}
	return &MedianEngine{window: w}, nil
}

// NewDefaultMedianEngine 窗口大小为 DefaultWindowSize
func NewDefaultMedianEngine() *MedianEngine {
	return &MedianEngine{window: newOrderStatisticWindow(DefaultWindowSize)}
}

// ConfigureWindow 只能在第一次 Push 之前调用；失败时原配置不变
func (e *MedianEngine) ConfigureWindow(size int) error {
	if n := e.window.Count(); n > 0 {
		return errors.Wrapf(ErrInvalidConfiguration, "window size cannot change after %d samples were pushed", n)
	}
	w, err := NewOrderStatisticWindow(size)
	if err != nil {
		return err
	}
	e.window = w
	return nil
}

// Push 推入一个样本。
// ok=false 表示窗口还没满；err 非空时引擎状态不变。
func (e *MedianEngine) Push(value float64) (median float64, ok bool, err error) {
	state, err := e.window.InsertAndMaybeEvict(value)
	if err != nil {
		return 0, false, err
	}
	if state == StateFilling {
		return 0, false, nil
	}

	e.state = StateFull
	e.median = medianOf(e.window.OrderedValues())
	return e.median, true, nil
}

// Median 最近一次输出的中位数
func (e *MedianEngine) Median() (float64, bool) {
	if e.state != StateFull {
		return 0, false
	}
	return e.median, true
}

// OrderedValues 当前窗口的升序视图，见 OrderStatisticWindow.OrderedValues
func (e *MedianEngine) OrderedValues() []float64 {
	return e.window.OrderedValues()
}

func (e *MedianEngine) State() State    { return e.state }
func (e *MedianEngine) WindowSize() int { return e.window.Capacity() }
func (e *MedianEngine) Size() int       { return e.window.Size() }
func (e *MedianEngine) Count() uint64   { return e.window.Count() }
func (e *MedianEngine) Started() bool   { return e.window.Count() > 0 }
