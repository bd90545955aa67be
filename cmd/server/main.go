package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ninerlytics/transit-dashboard/internal/api/handlers"
	"github.com/ninerlytics/transit-dashboard/internal/config"
	"github.com/ninerlytics/transit-dashboard/internal/repository"
	"github.com/ninerlytics/transit-dashboard/internal/service"
	"github.com/ninerlytics/transit-dashboard/internal/settings"
	"github.com/ninerlytics/transit-dashboard/pkg/ws"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	logger.Info("Starting transit dashboard", zap.String("port", cfg.ServerPort))

	// 创建 context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 连接数据库
	db, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect database", zap.Error(err))
	}
	defer db.Close()

	// 执行数据库迁移
	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database migrated successfully")

	// 创建 Repository
	busRepo := repository.NewBusRepository(db)
	routeRepo := repository.NewRouteRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	stopRepo := repository.NewStopRepository(db)

	// 设置存储（Redis 不可用时退回内存）
	store, closeStore := openSettingsStore(ctx, cfg, logger)
	defer closeStore()
	intervalStore := settings.NewIntervalStore(store, logger, cfg.SettingsTimeout)

	// 创建 WebSocket Hub
	wsHub := ws.NewHub(logger)
	go wsHub.Run()

	// 创建仪表盘服务
	dashboard := service.NewDashboardService(
		logger,
		busRepo,
		routeRepo,
		statsRepo,
		stopRepo,
		intervalStore,
		wsHub,
		cfg.MapView(),
	)
	dashboard.LoadSettings(ctx)
	wsHub.SetInitDataProvider(dashboard.InitData)

	// 创建 HTTP 处理器
	handler := handlers.NewHandler(logger, dashboard, wsHub)

	// 设置 Gin 模式
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// 注册路由
	handler.RegisterRoutes(router)

	// 启动 HTTP 服务器
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", server.Addr))

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// 优雅关闭
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	wsHub.Stop()

	logger.Info("Server exited")
}

// initLogger 初始化日志
func initLogger(debug bool) *zap.Logger {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	logger, _ := config.Build()
	return logger
}

// openSettingsStore 连接 Redis，失败时使用内存存储（重启后设置丢失）
func openSettingsStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (settings.Store, func()) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("Invalid redis url, settings will not persist", zap.Error(err))
		return settings.NewMemoryStore(), func() {}
	}
	if cfg.RedisDB >= 0 {
		opts.DB = cfg.RedisDB
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, cfg.SettingsTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unavailable, settings will not persist", zap.String("addr", opts.Addr), zap.Error(err))
		client.Close()
		return settings.NewMemoryStore(), func() {}
	}

	logger.Info("Connected to redis", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	return settings.NewRedisStore(client, cfg.SettingsPrefix), func() { client.Close() }
}

// corsMiddleware CORS 中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
