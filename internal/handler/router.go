package handler

import (
	"github.com/SergeiKhy/todo-shorturl/internal/middleware"
	"github.com/SergeiKhy/todo-shorturl/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ReservedShortIDs пути первого уровня, которые не могут быть короткими идентификаторами
var ReservedShortIDs = []string{"health", "shorten", "stats"}

// RouterConfig общие настройки роутеров обоих сервисов
type RouterConfig struct {
	Ping        PingFunc
	CORSOrigins []string
	Logger      *zap.Logger
}

func newEngine(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigins))

	return router
}

// NewLinkRouter собирает роутер сервиса коротких ссылок
func NewLinkRouter(linkService service.LinkService, baseURL string, cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	router := newEngine(cfg)

	linkHandler := NewLinkHandler(linkService, baseURL, cfg.Logger)

	router.GET("/", ServiceInfo("shorturl", []string{
		"POST /shorten",
		"GET /stats/:short_id",
		"GET /:short_id",
		"GET /health",
	}))
	router.GET("/health", HealthCheck("shorturl", cfg.Ping))

	router.POST("/shorten", linkHandler.Shorten)
	router.GET("/stats/:short_id", linkHandler.GetStats)

	// Редирект (корневой путь)
	router.GET("/:short_id", linkHandler.Redirect)

	return router
}

// NewTaskRouter собирает роутер сервиса задач
func NewTaskRouter(taskService service.TaskService, cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	router := newEngine(cfg)

	taskHandler := NewTaskHandler(taskService, cfg.Logger)

	router.GET("/", ServiceInfo("todo", []string{
		"POST /items",
		"GET /items",
		"GET /items/:id",
		"PUT /items/:id",
		"DELETE /items/:id",
		"GET /health",
	}))
	router.GET("/health", HealthCheck("todo", cfg.Ping))

	items := router.Group("/items")
	{
		items.POST("", taskHandler.CreateTask)
		items.GET("", taskHandler.ListTasks)
		items.GET("/:id", taskHandler.GetTask)
		items.PUT("/:id", taskHandler.UpdateTask)
		items.DELETE("/:id", taskHandler.DeleteTask)
	}

	return router
}
