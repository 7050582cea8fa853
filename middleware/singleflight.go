package middleware

import (
	"golang.org/x/sync/singleflight"
)

// FetchResult 一次回源查询的结果
type FetchResult struct {
	IPv4    string
	TTLSecs int
}

// Singleflight 查询去重中间件
type Singleflight struct {
	group singleflight.Group
}

// NewSingleflight 创建查询去重中间件
func NewSingleflight() *Singleflight {
	return &Singleflight{}
}

// Do 执行去重查询，shared 表示结果是否与其他调用方共享
func (s *Singleflight) Do(key string, fn func() (FetchResult, error)) (FetchResult, bool, error) {
	result, err, shared := s.group.Do(key, func() (interface{}, error) {
		return fn()
	})

	if err != nil {
		return FetchResult{}, shared, err
	}

	return result.(FetchResult), shared, nil
}
