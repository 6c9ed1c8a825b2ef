package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// 考勤库 schema：users/courses/sections/enrollments、class_sessions、
// attendance_records 与 excuse_requests；每课次每学生的唯一约束由
// uniq_attendance_session_student / uniq_excuse_session_student 部分索引承担
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations 把嵌入的迁移脚本按版本号依次补齐到最新
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("加载迁移文件失败: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("创建迁移驱动失败: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("初始化迁移实例失败: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("执行迁移失败: %w", err)
	}

	version, dirty, _ := m.Version()
	if dirty {
		logger.Warn("考勤库迁移处于 dirty 状态，需人工介入", zap.Uint("version", version))
	} else {
		logger.Info("考勤库迁移完成", zap.Uint("version", version))
	}

	return nil
}
