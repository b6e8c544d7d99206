package api

import (
	"Atelier/internal/api/config"
	"Atelier/internal/api/middleware"
	"Atelier/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logstash := config.Cfg.Log.Logstash
	logger.SetupGin(r, logstash.Token, logstash.Index)

	auth := middleware.AuthMiddleware(group.JWT)
	authOpt := middleware.AuthOptionalMiddleware(group.JWT)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		likeGroup := apiGroup.Group("/likes")
		{
			likeGroup.GET("/:entity_id", authOpt, group.LikeHandler.GetStats)
			likeGroup.POST("/:entity_id", auth, group.LikeHandler.Like)
			likeGroup.DELETE("/:entity_id", auth, group.LikeHandler.Unlike)
		}

		commentGroup := apiGroup.Group("/comments")
		{
			commentGroup.GET("", group.CommentHandler.ListComments)

			authGroup := commentGroup.Group("")
			authGroup.Use(auth)
			{
				authGroup.POST("", group.CommentHandler.CreateComment)
				authGroup.PUT("/:comment_id", group.CommentHandler.UpdateComment)
				authGroup.DELETE("/:comment_id", group.CommentHandler.DeleteComment)
				authGroup.POST("/:comment_id/likes", group.LikeHandler.LikeComment)
				authGroup.DELETE("/:comment_id/likes", group.LikeHandler.UnlikeComment)
			}
		}

		notificationGroup := apiGroup.Group("/notifications")
		notificationGroup.Use(auth)
		{
			notificationGroup.GET("", group.NotificationHandler.GetNotificationList)
			notificationGroup.GET("/unread", group.NotificationHandler.GetUnreadCount)
			notificationGroup.PUT("/seen", group.NotificationHandler.MarkSeen)
			notificationGroup.DELETE("/:id", group.NotificationHandler.DeleteNotification)
		}

		catalogGroup := apiGroup.Group("")
		catalogGroup.Use(auth)
		{
			catalogGroup.POST("/models", group.CatalogHandler.CreateModel)
			catalogGroup.DELETE("/models/:id", group.CatalogHandler.DeleteModel)
			catalogGroup.POST("/interiors", group.CatalogHandler.CreateInterior)
			catalogGroup.DELETE("/interiors/:id", group.CatalogHandler.DeleteInterior)
		}

		// 需要登录 & 拥有 admin 角色
		adminGroup := apiGroup.Group("/admin")
		adminGroup.Use(auth, middleware.CheckRoles("ADMIN"))
		{
			adminGroup.DELETE("/comments", group.CommentHandler.DeleteCommentsByUser)
		}
	}

	return r
}
