package moving_median

import "github.com/pkg/errors"

var (
	// ErrInvalidConfiguration 窗口大小不是有限正整数，或者在第一次 Push 之后再改窗口
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidSample 样本是 NaN 或 ±Inf，会破坏全序，直接拒绝
	ErrInvalidSample = errors.New("invalid sample")
)
