// Package slug 为新内容生成不重复的可读标识
package slug

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
)

var (
	ErrEmpty     = errors.New("slug: name produces an empty slug")
	ErrExhausted = errors.New("slug: no free slug after retries")
)

// Source 返回与 base 相同或形如 base-<n> 的已占用 slug（允许包含其他前缀相同的值，会被过滤）
type Source interface {
	SimilarSlugs(ctx context.Context, base string) ([]string, error)
}

// ConflictFunc 判断插入失败是否为 slug 唯一键冲突
type ConflictFunc func(err error) bool

type Allocator struct {
	source      Source
	isConflict  ConflictFunc
	maxAttempts int
}

func NewAllocator(source Source, isConflict ConflictFunc, maxAttempts int) *Allocator {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Allocator{source: source, isConflict: isConflict, maxAttempts: maxAttempts}
}

// Normalize 小写、去音调、空白转连字符、去除非 URL 安全字符
func Normalize(name string) string {
	return slug.Make(strings.TrimSpace(name))
}

// Allocate 基于一次查询结果在内存中挑选最小可用后缀，不回收已删除留下的空洞
func (s *Allocator) Allocate(ctx context.Context, name string) (string, error) {
	base := Normalize(name)
	if base == "" {
		return "", ErrEmpty
	}
	existing, err := s.source.SimilarSlugs(ctx, base)
	if err != nil {
		return "", err
	}
	return Next(base, existing), nil
}

// Claim 分配并交给 insert 落库，遇到唯一键冲突（并发抢占同一后缀）时重新分配
func (s *Allocator) Claim(ctx context.Context, name string, insert func(ctx context.Context, slug string) error) (string, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		candidate, err := s.Allocate(ctx, name)
		if err != nil {
			return "", err
		}
		err = insert(ctx, candidate)
		if err == nil {
			return candidate, nil
		}
		if s.isConflict == nil || !s.isConflict(err) {
			return "", err
		}
		log.WarnContext(ctx, "slug conflict, retrying", "slug", candidate, "attempt", attempt)
	}
	return "", fmt.Errorf("%w: %s", ErrExhausted, Normalize(name))
}

// Next 纯函数：base 未被占用返回 base，否则返回最小的未占用 base-i（i >= 1）
func Next(base string, existing []string) string {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(base) + `(?:-(\d+))?$`)
	taken := make(map[int]bool, len(existing))
	baseTaken := false
	for _, e := range existing {
		m := pattern.FindStringSubmatch(e)
		if m == nil {
			continue
		}
		if m[1] == "" {
			baseTaken = true
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		taken[n] = true
	}
	if !baseTaken {
		return base
	}
	for i := 1; ; i++ {
		if !taken[i] {
			return base + "-" + strconv.Itoa(i)
		}
	}
}
