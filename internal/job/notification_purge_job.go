package job

import (
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/logger"
	"Atelier/internal/pkg/redis"
	"Atelier/internal/service"
	"context"
	log "log/slog"
	"time"
)

const purgeLockTTL = 10 * time.Minute

// NotificationPurgeJob 清理保留期之前的已读通知，多实例部署时用 redis 锁保证只有一个实例执行
type NotificationPurgeJob struct {
	notificationSvc service.NotificationService
	retention       time.Duration
	now             func() time.Time
}

func NewNotificationPurgeJob(notificationSvc service.NotificationService, retention time.Duration) *NotificationPurgeJob {
	return &NotificationPurgeJob{
		notificationSvc: notificationSvc,
		retention:       retention,
		now:             time.Now,
	}
}

func (s *NotificationPurgeJob) Run() {
	ctx := logger.NewJobContext(consts.JobTracePrefix + "-purge")
	if _, err := s.Execute(ctx); err != nil {
		log.ErrorContext(ctx, "notification purge job failed", "err", err)
	}
}

// Execute 返回删除的条数，未拿到锁时返回 0
func (s *NotificationPurgeJob) Execute(ctx context.Context) (int64, error) {
	if s.retention <= 0 {
		log.InfoContext(ctx, "notification retention disabled, skip purge")
		return 0, nil
	}

	if redis.Rdb != nil {
		lockValue := logger.TraceID(ctx)
		ok, err := redis.TryLock(ctx, consts.NotificationPurgeLock, lockValue, purgeLockTTL, 1)
		if err != nil {
			return 0, err
		}
		if !ok {
			log.InfoContext(ctx, "notification purge running elsewhere, skip")
			return 0, nil
		}
		defer redis.UnLock(ctx, consts.NotificationPurgeLock, lockValue)
	}

	before := s.now().Add(-s.retention)
	affected, err := s.notificationSvc.PurgeSeen(ctx, before)
	if err != nil {
		return 0, err
	}
	log.InfoContext(ctx, "notification purge job finished", "before", before, "purged", affected)
	return affected, nil
}
