package handler

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/response"
	"Atelier/internal/pkg/util"
	"Atelier/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationSvc service.NotificationService
}

func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// GetNotificationList 获取通知列表，未读优先
func (s *NotificationHandler) GetNotificationList(c *gin.Context) {
	var req dto.NotificationListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	list, err := s.notificationSvc.List(c.Request.Context(), c.GetUint64(consts.UserIDKey), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// GetUnreadCount 获取未读数
func (s *NotificationHandler) GetUnreadCount(c *gin.Context) {
	unread, err := s.notificationSvc.UnreadCount(c.Request.Context(), c.GetUint64(consts.UserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.NotificationUnreadDTO{UnreadCount: unread})
}

// MarkSeen ids 为空时必须显式传 all=true 才会全部已读
func (s *NotificationHandler) MarkSeen(c *gin.Context) {
	var req dto.NotificationSeenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}
	count, err := s.notificationSvc.MarkSeen(c.Request.Context(), c.GetUint64(consts.UserIDKey), model.NotificationFilter{IDs: req.IDs})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.AffectedDTO{Count: count})
}

func (s *NotificationHandler) DeleteNotification(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.notificationSvc.DeleteForRecipient(c.Request.Context(), c.GetUint64(consts.UserIDKey), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
