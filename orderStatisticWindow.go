package moving_median

import (
	"fmt"
	"sort"
)

// OrderStatisticWindow 固定容量的有序窗口：保存最近 capacity 个样本，
// 满了之后按 (value, seq) 升序排列，每来一个新样本淘汰最老的一个。
//
// values/seqs 是平行数组（有序视图），ring 按 seq % capacity 记录到达顺序，
// 所以淘汰时 O(1) 拿到最老样本的值，再二分定位，整个淘汰+插入只搬移一次 O(W)。
//
// 不是并发安全的。
type OrderStatisticWindow struct {
	capacity int
	values   []float64 // 满了之后有序；未满时是到达顺序
	seqs     []uint64  // 与 values 一一对应
	ring     []float64 // 到达环形数组
	count    uint64    // 已收到的样本数 N，同时也是下一个样本的 seq
}

// NewOrderStatisticWindow capacity 必须是正整数
func NewOrderStatisticWindow(capacity int) (*OrderStatisticWindow, error) {
	if err := ValidateWindowSize(capacity); err != nil {
		return nil, err
	}
	return newOrderStatisticWindow(capacity), nil
}

func newOrderStatisticWindow(capacity int) *OrderStatisticWindow {
	return &OrderStatisticWindow{
		capacity: capacity,
		values:   make([]float64, 0, capacity),
		seqs:     make([]uint64, 0, capacity),
		ring:     make([]float64, capacity),
	}
}

// InsertAndMaybeEvict 插入一个样本；窗口满时同时淘汰最老的样本。
// NaN/±Inf 返回 ErrInvalidSample，窗口不变。
func (w *OrderStatisticWindow) InsertAndMaybeEvict(value float64) (State, error) {
	if err := checkSample(value); err != nil {
		return w.state(), err
	}
	seq := w.count

	if len(w.values) < w.capacity {
		w.values = append(w.values, value)
		w.seqs = append(w.seqs, seq)
		w.ring[w.slot(seq)] = value
		w.count++

		if len(w.values) < w.capacity {
			return StateFilling, nil
		}
		// 刚好填满：只排这一次
		sort.Sort(sampleOrder{values: w.values, seqs: w.seqs})
		return StateFull, nil
	}

	w.replaceOldest(value, seq)
	w.count++
	return StateFull, nil
}

func (w *OrderStatisticWindow) state() State {
	if w.Full() {
		return StateFull
	}
	return StateFilling
}

// replaceOldest 淘汰 seq == N-W 的样本，把新样本放到它的 rank 上
func (w *OrderStatisticWindow) replaceOldest(value float64, seq uint64) {
	evictSeq := w.count - uint64(w.capacity)
	slot := w.slot(evictSeq) // 和 seq 是同一个槽

	i, found := w.search(w.ring[slot], evictSeq)
	if !found {
		panic(fmt.Sprintf("moving_median: sample seq=%d missing from window", evictSeq))
	}

	// 新样本 seq 最大，不会命中，k 落在相等值的最后面
	k, _ := w.search(value, seq)

	j := k
	switch {
	case i < k:
		// [i+1, k) 左移一位
		j = k - 1
		copy(w.values[i:j], w.values[i+1:k])
		copy(w.seqs[i:j], w.seqs[i+1:k])
	case i > k:
		// [k, i) 右移一位
		copy(w.values[k+1:i+1], w.values[k:i])
		copy(w.seqs[k+1:i+1], w.seqs[k:i])
	}

	w.values[j] = value
	w.seqs[j] = seq
	w.ring[slot] = value
}

// search 三路二分。命中返回 (位置, true)，否则返回 (插入位置, false)
func (w *OrderStatisticWindow) search(value float64, seq uint64) (int, bool) {
	lo, hi := 0, len(w.values)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		switch compareSample(w.values[mid], w.seqs[mid], value, seq) {
		case -1:
			lo = mid + 1
		case 1:
			hi = mid
		default:
			return mid, true
		}
	}
	return lo, false
}

func (w *OrderStatisticWindow) slot(seq uint64) int {
	return int(seq % uint64(w.capacity))
}

// OrderedValues 升序的窗口值。
// 满了之后直接返回内部视图（只读，下一次插入前有效）；未满时返回排好序的副本。
func (w *OrderStatisticWindow) OrderedValues() []float64 {
	if w.Full() {
		return w.values
	}
	out := make([]float64, len(w.values))
	copy(out, w.values)
	sort.Float64s(out)
	return out
}

// Samples 升序的样本副本
func (w *OrderStatisticWindow) Samples() []Sample {
	out := make([]Sample, len(w.values))
	for i := range w.values {
		out[i] = Sample{Value: w.values[i], Seq: w.seqs[i]}
	}
	if !w.Full() {
		sort.Slice(out, func(a, b int) bool {
			return compareSample(out[a].Value, out[a].Seq, out[b].Value, out[b].Seq) < 0
		})
	}
	return out
}

// OrderStatistic 第 k 小的值（k 从 0 开始）
func (w *OrderStatisticWindow) OrderStatistic(k int) (float64, bool) {
	if k < 0 || k >= len(w.values) {
		return 0, false
	}
	return w.OrderedValues()[k], true
}

func (w *OrderStatisticWindow) Size() int     { return len(w.values) }
func (w *OrderStatisticWindow) Capacity() int { return w.capacity }
func (w *OrderStatisticWindow) Count() uint64 { return w.count }
func (w *OrderStatisticWindow) Full() bool    { return len(w.values) == w.capacity }

// HighLow 窗口最大/最小值，满了之后直接取两端
func (w *OrderStatisticWindow) HighLow() (high, low float64, ok bool) {
	n := len(w.values)
	if n == 0 {
		return 0, 0, false
	}
	if w.Full() {
		return w.values[n-1], w.values[0], true
	}

	high, low = w.values[0], w.values[0]
	for i := 1; i < n; i++ {
		v := w.values[i]
		if v > high {
			high = v
		}
		if v < low {
			low = v
		}
	}
	return high, low, true
}

// sampleOrder 按 (value, seq) 给平行数组排序
type sampleOrder struct {
	values []float64
	seqs   []uint64
}

func (s sampleOrder) Len() int { return len(s.values) }
func (s sampleOrder) Less(i, j int) bool {
	return compareSample(s.values[i], s.seqs[i], s.values[j], s.seqs[j]) < 0
}
func (s sampleOrder) Swap(i, j int) {
	s.values[i], s.values[j] = s.values[j], s.values[i]
	s.seqs[i], s.seqs[j] = s.seqs[j], s.seqs[i]
}
