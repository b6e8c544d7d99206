package handler

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/response"
	"Atelier/internal/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type LikeHandler struct {
	likeSvc    service.LikeService
	commentSvc service.CommentService
}

func NewLikeHandler(likeSvc service.LikeService, commentSvc service.CommentService) *LikeHandler {
	return &LikeHandler{
		likeSvc:    likeSvc,
		commentSvc: commentSvc,
	}
}

// Like 点赞模型或室内设计，重复点赞返回 changed=false
func (s *LikeHandler) Like(c *gin.Context) {
	entityID, ok := paramID(c, "entity_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	ctx := c.Request.Context()
	changed, err := s.likeSvc.AddLike(ctx, entityID, c.GetUint64(consts.UserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	count, _ := s.likeSvc.LikeCount(ctx, entityID)
	response.Success(c, &dto.LikeStateDTO{Changed: changed, Liked: true, LikeCount: count})
}

// Unlike 取消点赞，未点赞时也返回成功
func (s *LikeHandler) Unlike(c *gin.Context) {
	entityID, ok := paramID(c, "entity_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	ctx := c.Request.Context()
	if err := s.likeSvc.RemoveLike(ctx, entityID, c.GetUint64(consts.UserIDKey)); err != nil {
		response.Error(c, err)
		return
	}
	count, _ := s.likeSvc.LikeCount(ctx, entityID)
	response.Success(c, &dto.LikeStateDTO{Changed: true, Liked: false, LikeCount: count})
}

// GetStats 点赞数、评论数与当前用户是否点赞
func (s *LikeHandler) GetStats(c *gin.Context) {
	entityID, ok := paramID(c, "entity_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	userID := c.GetUint64(consts.UserIDKey)

	stats := &dto.EntityStatsDTO{}
	g, gCtx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		stats.LikeCount, err = s.likeSvc.LikeCount(gCtx, entityID)
		return err
	})
	g.Go(func() error {
		var err error
		stats.CommentCount, err = s.commentSvc.CommentCount(gCtx, entityID)
		return err
	})
	g.Go(func() error {
		var err error
		stats.IsLiked, err = s.likeSvc.IsLiked(gCtx, entityID, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

// LikeComment 点赞评论
func (s *LikeHandler) LikeComment(c *gin.Context) {
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	ctx := c.Request.Context()
	changed, err := s.likeSvc.LikeComment(ctx, commentID, c.GetUint64(consts.UserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	count, _ := s.likeSvc.CommentLikeCount(ctx, commentID)
	response.Success(c, &dto.CommentLikeStateDTO{Changed: changed, LikeCount: count})
}

// UnlikeComment 取消点赞评论
func (s *LikeHandler) UnlikeComment(c *gin.Context) {
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	ctx := c.Request.Context()
	if err := s.likeSvc.UnlikeComment(ctx, commentID, c.GetUint64(consts.UserIDKey)); err != nil {
		response.Error(c, err)
		return
	}
	count, _ := s.likeSvc.CommentLikeCount(ctx, commentID)
	response.Success(c, &dto.CommentLikeStateDTO{Changed: true, LikeCount: count})
}
