package cron

import (
	"Atelier/internal/api/config"
	log "log/slog"
)

// InitCron 注册并启动定时任务，未配置清理周期或保留天数时不启动清理
func InitCron(mgr *Manager, cfg config.NotificationConfig) error {
	if cfg.PurgeCron == "" || cfg.RetentionDays <= 0 {
		log.Info("notification purge disabled", "purge_cron", cfg.PurgeCron, "retention_days", cfg.RetentionDays)
		mgr.purgeSpec = ""
	} else {
		log.Info("notification purge scheduled", "purge_cron", cfg.PurgeCron, "retention_days", cfg.RetentionDays)
	}
	if err := mgr.RegisterJobs(); err != nil {
		return err
	}
	mgr.Start()
	return nil
}
