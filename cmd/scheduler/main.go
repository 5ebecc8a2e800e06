// Command scheduler runs the recurring transaction batch scheduler.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"moneyflow/internal/config"
	"moneyflow/internal/database"
	"moneyflow/internal/logger"
	"moneyflow/internal/scheduler"
	"moneyflow/internal/services"
)

func main() {
	cfg := config.Get()
	logger.Init(cfg.Env)
	defer logger.Sync()
	log := logger.Get()

	dbManager, err := database.NewManager(&database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		log.Fatalw("failed to run migrations", "error", err)
	}

	db := dbManager.DB()
	auditService := services.NewAuditService(db)
	accountService := services.NewAccountService(db)
	categoryService := services.NewCategoryService(db)
	recurringService := services.NewRecurringService(db, accountService, categoryService, auditService)

	sched := scheduler.New(recurringService, cfg.RecurringCronSpec)
	if err := sched.Start(); err != nil {
		log.Fatalw("failed to start scheduler", "error", err)
	}

	// Catch up on anything that came due while the process was down.
	sched.RunNow()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	sched.Stop()
}
