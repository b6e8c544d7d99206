package main

import (
	"Atelier/internal/api/config"
	"Atelier/internal/pkg/database"
	"Atelier/internal/pkg/logger"
	"context"
	log "log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "migrate",
		Short: "Atelier 数据库结构迁移与初始数据写入",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadConfig(configPath); err != nil {
				return err
			}
			logger.InitLogger(config.Cfg.Log)
			return nil
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "./configs", "配置文件所在目录")

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "建表并写入通知类型",
			RunE: withDB(func(ctx context.Context, db *gorm.DB) error {
				if err := database.AutoMigrate(ctx, db); err != nil {
					return err
				}
				_, err := database.SeedNotificationActions(ctx, db)
				return err
			}),
		},
		&cobra.Command{
			Use:   "seed",
			Short: "仅写入通知类型",
			RunE: withDB(func(ctx context.Context, db *gorm.DB) error {
				_, err := database.SeedNotificationActions(ctx, db)
				return err
			}),
		},
	)

	if err := root.Execute(); err != nil {
		log.Error("migrate failed", "err", err)
		os.Exit(1)
	}
}

func withDB(fn func(ctx context.Context, db *gorm.DB) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		dbCfg := config.Cfg.DB
		db, err := database.NewGormDB(&dbCfg)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer func() { _ = sqlDB.Close() }()
		return fn(cmd.Context(), db)
	}
}
