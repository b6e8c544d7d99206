package service_test

import (
	"Atelier/internal/api/config"
	"Atelier/internal/pkg/database"
	"Atelier/internal/pkg/minio"
	"Atelier/internal/pkg/redis"
	"Atelier/internal/repository"
	"Atelier/internal/service"
	"Atelier/internal/testutil"
	"context"
	"testing"
	"time"

	"gorm.io/gorm"
)

type fixture struct {
	db            *gorm.DB
	likeRepo      repository.LikeRepo
	notifications service.NotificationService
	likes         service.LikeService
	comments      service.CommentService
	catalog       service.CatalogService
	interactions  service.InteractionService
}

func defaultOptions() service.Options {
	return service.Options{
		ReplyPolicy:     config.ReplyPolicyOrphan,
		CounterTTL:      time.Minute,
		SlugMaxAttempts: 5,
	}
}

func newFixture(t *testing.T, mutate ...func(*service.Options)) *fixture {
	t.Helper()
	opts := defaultOptions()
	for _, fn := range mutate {
		fn(&opts)
	}
	db := testutil.NewDB(t)
	return buildFixture(db, repository.NewLikeRepo(db), redis.NewCounter(nil), opts)
}

func buildFixture(db *gorm.DB, likeRepo repository.LikeRepo, counter redis.Counter, opts service.Options) *fixture {
	tx := database.NewTransactor(db)
	entityRepo := repository.NewEntityRepo(db)
	commentRepo := repository.NewCommentRepo(db)
	resolver := minio.NewURLResolver(nil, config.MinIOConfig{}, "")

	notifications := service.NewNotificationService(repository.NewNotificationRepo(db), resolver, opts)
	interactions := service.NewInteractionService(repository.NewInteractionRepo(db))
	comments := service.NewCommentService(tx, commentRepo, entityRepo, likeRepo, notifications, resolver, counter, opts)
	return &fixture{
		db:            db,
		likeRepo:      likeRepo,
		notifications: notifications,
		likes:         service.NewLikeService(tx, likeRepo, entityRepo, commentRepo, notifications, counter, opts),
		comments:      comments,
		catalog:       service.NewCatalogService(tx, entityRepo, likeRepo, interactions, comments, notifications, counter, opts),
		interactions:  interactions,
	}
}

// recordingCounter 记录缓存删除，其余操作沿用空实现
type recordingCounter struct {
	redis.NopCounter
	deleted []string
}

func (c *recordingCounter) Delete(_ context.Context, keys ...string) error {
	c.deleted = append(c.deleted, keys...)
	return nil
}
