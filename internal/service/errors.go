package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid          = errors.New("参数错误")
	ErrEntityNotFound        = errors.New("内容不存在")
	ErrCommentNotFound       = errors.New("评论不存在")
	ErrCommentParentMismatch = errors.New("回复的评论不属于该内容")
	ErrCommentTooDeep        = errors.New("只能回复一级评论")
	ErrNotificationNotFound  = errors.New("通知不存在")
	ErrSlugEmpty             = errors.New("名称无法生成有效的链接")
	ErrSlugExhausted         = errors.New("链接分配失败，请稍后重试")
	UnauthorizedError        = errors.New("权限不足")
	UnExpectedError          = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:          BadRequest,
	ErrEntityNotFound:        NotFound,
	ErrCommentNotFound:       NotFound,
	ErrCommentParentMismatch: BadRequest,
	ErrCommentTooDeep:        BadRequest,
	ErrNotificationNotFound:  NotFound,
	ErrSlugEmpty:             BadRequest,
	ErrSlugExhausted:         InternalServerError,
	UnauthorizedError:        Unauthorized,
	UnExpectedError:          InternalServerError,
}

// CodeOf 沿错误链查找业务码，未登记的错误返回 false
func CodeOf(err error) (int, bool) {
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, true
		}
	}
	return 0, false
}
