package moving_median

// medianOf 有序切片的中位数：奇数取中间，偶数取中间两个的平均
func medianOf(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[(n-1)/2]
	}
	mid1 := sorted[n/2-1]
	mid2 := sorted[n/2]
	return (mid1 + mid2) / 2.0
}
