package moving_median

import (
	"math"

	"github.com/pkg/errors"
)

// Sample 窗口内的一个点
type Sample struct {
	Value float64 // 样本值
	Seq   uint64  // 到达序号，单调递增，只用于判断谁最老
}

// compareSample 三路比较：先比值，值相等再比到达序号
func compareSample(aValue float64, aSeq uint64, bValue float64, bSeq uint64) int {
	switch {
	case aValue < bValue:
		return -1
	case aValue > bValue:
		return 1
	case aSeq < bSeq:
		return -1
	case aSeq > bSeq:
		return 1
	}
	return 0
}

// checkSample NaN 没法比较，±Inf 会让偶数窗口的均值变成 NaN，都不能进窗口
func checkSample(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.Wrapf(ErrInvalidSample, "value %v is not finite", value)
	}
	return nil
}
