package moving_median

// State 引擎/窗口的生命周期
type State int

const (
	StateFilling State = iota // 窗口未满，不输出
	StateFull                 // 窗口已满，每个样本输出一个中位数
)

func (s State) String() string {
	switch s {
	case StateFilling:
		return "filling"
	case StateFull:
		return "full"
	default:
		return "unknown"
	}
}
