package common

import (
	"errors"
	"math"
)

// Request-shape errors shared by every domain.
var (
	ErrInvalidPayload       = errors.New("invalid request payload")
	ErrInvalidRequestParam  = errors.New("invalid request parameter")
	ErrMissingRequiredParam = errors.New("missing required parameter")
)

const (
	DefaultPage = 1
	DefaultSize = 20
	MaxSize     = 100
	// MaxPage keeps (page-1)*size well inside a bigint OFFSET.
	MaxPage     = math.MaxInt32
)

// NormalizePage applies the 1-indexed pagination defaults.
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return page, size
}

// TotalPages returns the number of pages needed for total items.
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
