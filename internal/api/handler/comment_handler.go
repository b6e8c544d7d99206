package handler

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/response"
	"Atelier/internal/pkg/util"
	"Atelier/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentSvc service.CommentService
}

func NewCommentHandler(commentSvc service.CommentService) *CommentHandler {
	return &CommentHandler{commentSvc: commentSvc}
}

// ListComments 一级评论分页，附带全部回复
func (s *CommentHandler) ListComments(c *gin.Context) {
	var req dto.CommentListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if req.EntityID == 0 && req.UserID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	list, err := s.commentSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *CommentHandler) CreateComment(c *gin.Context) {
	var req dto.CommentCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	comment, err := s.commentSvc.Create(c.Request.Context(), service.CreateCommentParams{
		EntityID:     req.EntityID,
		EntitySource: model.EntitySource(req.EntitySource),
		UserID:       c.GetUint64(consts.UserIDKey),
		Text:         req.Text,
		ParentID:     req.ParentID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toCommentDTO(comment))
}

// UpdateComment 只有作者可以修改
func (s *CommentHandler) UpdateComment(c *gin.Context) {
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.CommentUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	comment, err := s.commentSvc.Update(c.Request.Context(), commentID, c.GetUint64(consts.UserIDKey), req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toCommentDTO(comment))
}

func (s *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	count, err := s.commentSvc.DeleteOwn(c.Request.Context(), commentID, c.GetUint64(consts.UserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.AffectedDTO{Count: count})
}

// DeleteCommentsByUser 管理员清理某个用户的全部评论
func (s *CommentHandler) DeleteCommentsByUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil || userID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	count, err := s.commentSvc.Delete(c.Request.Context(), model.CommentFilter{UserID: &userID})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.AffectedDTO{Count: count})
}

func toCommentDTO(comment *model.Comment) *dto.CommentDTO {
	return &dto.CommentDTO{
		ID:           comment.ID,
		EntityID:     comment.EntityID,
		EntitySource: string(comment.EntitySource),
		ParentID:     comment.ParentID,
		UserID:       comment.UserID,
		Text:         comment.Text,
		CreatedAt:    util.FormatTime(comment.CreatedAt),
		UpdatedAt:    util.FormatTime(comment.UpdatedAt),
		Replies:      []*dto.CommentDTO{},
	}
}
