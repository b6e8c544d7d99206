package util

import (
	"strings"
	"time"
)

const TimeLayout = "2006-01-02 15:04:05"

// Ptr 用于将任意值转换为指针
func Ptr[T any](v T) *T {
	return &v
}

// FormatTime 统一时间格式
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeLayout)
}

// TrimText 去除首尾空白，空串返回 false
func TrimText(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Dedup 去重并保留原顺序
func Dedup[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
