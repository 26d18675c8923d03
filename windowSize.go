package moving_median

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DefaultWindowSize 不配置时的窗口大小
const DefaultWindowSize = 5

// ValidateWindowSize 窗口大小必须 >= 1
func ValidateWindowSize(size int) error {
	if size < 1 {
		return errors.Wrapf(ErrInvalidConfiguration, "window size must be a positive integer, got %d", size)
	}
	return nil
}

// WindowSizeFromFloat 把来自无类型来源（yaml、json、命令行）的数字转成窗口大小，
// NaN、Inf、小数、<= 0 都拒绝
func WindowSizeFromFloat(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Wrapf(ErrInvalidConfiguration, "window size must be finite, got %v", f)
	}
	if f != math.Trunc(f) {
		return 0, errors.Wrapf(ErrInvalidConfiguration, "window size must be an integer, got %v", f)
	}
	if f >= math.MaxInt32 {
		return 0, errors.Wrapf(ErrInvalidConfiguration, "window size %v is too large", f)
	}
	size := int(f)
	if err := ValidateWindowSize(size); err != nil {
		return 0, err
	}
	return size, nil
}

// ParseWindowSize 解析字符串形式的窗口大小
func ParseWindowSize(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidConfiguration, "window size %q is not numeric", s)
	}
	return WindowSizeFromFloat(f)
}
