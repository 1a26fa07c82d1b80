package service

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func maxInt(value, floor int) int {
	if value < floor {
		return floor
	}
	return value
}

func clampPageSize(size int) int {
	if size <= 0 {
		return defaultPageSize
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}
