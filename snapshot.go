package moving_median

import (
	"time"
)

type Snapshot struct {
	WindowSize   int     `json:"window_size"`
	Size         int     `json:"size"`
	Count        uint64  `json:"count"`
	State        string  `json:"state"`
	Median       float64 `json:"median"`
	HighestValue float64 `json:"highest_value"`
	LowestValue  float64 `json:"lowest_value"`
	Ts           int64   `json:"ts"`
}

// Snapshot 当前窗口的快照；窗口未满时 Median 为 0
func (e *MedianEngine) Snapshot() *Snapshot {
	high, low, _ := e.window.HighLow()
	median, _ := e.Median()

	return &Snapshot{
		WindowSize:   e.window.Capacity(),
		Size:         e.window.Size(),
		Count:        e.window.Count(),
		State:        e.state.String(),
		Median:       median,
		HighestValue: high,
		LowestValue:  low,
		Ts:           time.Now().UnixMilli(),
	}
}
