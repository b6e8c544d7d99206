package wire

import (
	"Atelier/internal/api"
	"Atelier/internal/api/config"
	"Atelier/internal/api/handler"
	"Atelier/internal/job"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/cron"
	"Atelier/internal/pkg/database"
	"Atelier/internal/pkg/kafka"
	"Atelier/internal/pkg/minio"
	"Atelier/internal/pkg/redis"
	"Atelier/internal/pkg/security"
	"Atelier/internal/repository"
	"Atelier/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router *gin.Engine
	DB     *gorm.DB
	// KafkaManager 未启用 kafka 时为 nil
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	opts := service.NewOptions(cfg)
	tx := database.NewTransactor(db)
	counter := redis.NewCounter(redis.Rdb)
	resolver := minio.NewURLResolver(minio.Client, cfg.MinIO, consts.DefaultAvatarURL)

	likeRepo := repository.NewLikeRepo(db)
	commentRepo := repository.NewCommentRepo(db)
	entityRepo := repository.NewEntityRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)
	interactionRepo := repository.NewInteractionRepo(db)

	notificationService := service.NewNotificationService(notificationRepo, resolver, opts)
	interactionService := service.NewInteractionService(interactionRepo)
	commentService := service.NewCommentService(tx, commentRepo, entityRepo, likeRepo, notificationService, resolver, counter, opts)
	likeService := service.NewLikeService(tx, likeRepo, entityRepo, commentRepo, notificationService, counter, opts)
	catalogService := service.NewCatalogService(tx, entityRepo, likeRepo, interactionService, commentService, notificationService, counter, opts)

	handlers := &api.HandlersGroup{
		JWT:                 security.NewJWT(cfg.JWT),
		LikeHandler:         handler.NewLikeHandler(likeService, commentService),
		CommentHandler:      handler.NewCommentHandler(commentService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		CatalogHandler:      handler.NewCatalogHandler(catalogService),
	}

	router := api.SetupRouter(handlers)

	purgeJob := job.NewNotificationPurgeJob(notificationService, cfg.Notification.Retention())
	cronMgr := cron.NewCronManager(cfg.Notification.PurgeCron, purgeJob)

	var kafkaMgr *kafka.ConsumerManager
	if cfg.Kafka.Enable {
		var err error
		kafkaMgr, err = kafka.NewConsumerManager(cfg, counter)
		if err != nil {
			return nil, err
		}
	}

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
