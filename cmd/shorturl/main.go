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
	// Загрузка конфига
	cfg, err := config.Load("shorturl")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	logger, err := server.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	// Хранилище: SQLite по умолчанию, PostgreSQL по STORAGE_DRIVER
	var (
		linkRepo repository.LinkRepository
		ping     handler.PingFunc
	)
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := repository.NewPostgresDB(cfg.DB)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := repository.MigratePostgres(db, repository.SchemaLinks); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		logger.Info("Connected to PostgreSQL", zap.String("host", cfg.DB.Host), zap.String("db", cfg.DB.Name))

		linkRepo = repository.NewPostgresLinkRepository(db)
		ping = db.Ping
	default:
		db, err := repository.NewSQLiteDB(cfg.Storage.SQLitePath)
		if err != nil {
			logger.Fatal("Failed to open database", zap.Error(err))
		}
		defer db.Close()

		if err := repository.MigrateSQLite(db, repository.SchemaLinks); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		logger.Info("Opened SQLite database", zap.String("path", cfg.Storage.SQLitePath))

		linkRepo = repository.NewSQLiteLinkRepository(db)
		ping = db.Ping
	}

	linkService := service.NewLinkService(linkRepo, logger,
		service.WithReservedIDs(handler.ReservedShortIDs...),
	)

	// Настройка роутера
	router := handler.NewLinkRouter(linkService, cfg.App.BaseURL, handler.RouterConfig{
		Ping:        ping,
		CORSOrigins: cfg.CORS.AllowedOrigins,
		Logger:      logger,
	})

	if err := server.Run(server.New(cfg.App.Port, router), logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}
