package api

import (
	"Atelier/internal/api/handler"
	"Atelier/internal/pkg/security"
)

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	JWT                 *security.JWT
	LikeHandler         *handler.LikeHandler
	CommentHandler      *handler.CommentHandler
	NotificationHandler *handler.NotificationHandler
	CatalogHandler      *handler.CatalogHandler
}
