package main

import (
	"log"

	"github.com/SergeiKhy/todo-shorturl/internal/config"
	"github.com/SergeiKhy/todo-shorturl/internal/handler"
	"github.com/SergeiKhy/todo-shorturl/internal/repository"
	"github.com/SergeiKhy/todo-shorturl/internal/server"
	"github.com/SergeiKhy/todo-shorturl/internal/service"
	"go.uber.org/zap"

	_ "go.uber.org/automaxprocs"
)

func main() {
	cfg, err := config.Load("todo")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := server.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	// Задачи хранятся только в SQLite
	if cfg.Storage.Driver != config.DriverSQLite {
		logger.Fatal("Unsupported storage driver for todo service", zap.String("driver", cfg.Storage.Driver))
	}

	db, err := repository.NewSQLiteDB(cfg.Storage.SQLitePath)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.MigrateSQLite(db, repository.SchemaTasks); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	logger.Info("Opened SQLite database", zap.String("path", cfg.Storage.SQLitePath))

	taskService := service.NewTaskService(repository.NewTaskRepository(db), logger)

	router := handler.NewTaskRouter(taskService, handler.RouterConfig{
		Ping:        db.Ping,
		CORSOrigins: cfg.CORS.AllowedOrigins,
		Logger:      logger,
	})

	if err := server.Run(server.New(cfg.App.Port, router), logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}
