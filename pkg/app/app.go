// Package app 提供应用程序的初始化和装配.
package app

import (
	contextPkg "context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/recvault/pkg/api"
	"github.com/yeisme/recvault/pkg/configs"
	"github.com/yeisme/recvault/pkg/internal/assetstore"
	"github.com/yeisme/recvault/pkg/internal/jobs"
	"github.com/yeisme/recvault/pkg/internal/service"
	"github.com/yeisme/recvault/pkg/internal/storage"
	"github.com/yeisme/recvault/pkg/log"
	"github.com/yeisme/recvault/pkg/metrics"
	"github.com/yeisme/recvault/pkg/middleware"
	"github.com/yeisme/recvault/pkg/scheduler"
)

// App 聚合 HTTP 引擎、存储与调度器.
type App struct {
	Engine    *gin.Engine
	config    *configs.AppConfig
	manager   *storage.Manager
	scheduler *scheduler.Scheduler
	cleanup   *service.CleanupService
}

// NewApp 按配置装配完整应用: 配置 -> 日志 -> 指标 -> 存储 -> 服务 -> 调度 -> 路由.
func NewApp(configPath string) (*App, error) {
	ctx := contextPkg.Background()

	if err := configs.InitConfig(configPath); err != nil {
		return nil, fmt.Errorf("init config: %w", err)
	}

	config := configs.GetConfig()

	if err := metrics.InitMetrics(config.Metrics); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	manager, err := storage.Init(ctx)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	store := assetstore.NewS3Store(manager.GetS3Client())

	cleanupOpts := []service.Option{
		service.WithDefaultRetention(config.Retention.DefaultDays),
		service.WithExpiringWindow(config.Retention.ExpiringWindowDays),
	}
	if mqc := manager.GetMQClient(); mqc != nil {
		cleanupOpts = append(cleanupOpts, service.WithPublisher(mqc.Publisher()))
	}

	cleanup := service.NewCleanupService(manager.GetDBClient(), store, cleanupOpts...)

	sched, err := scheduler.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("init scheduler: %w", err)
	}

	if config.Retention.Enabled {
		if err := jobs.RegisterCronJobs(sched, manager, cleanup, &config.Retention); err != nil {
			return nil, fmt.Errorf("register retention jobs: %w", err)
		}
	}

	if config.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(config.Server),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.PrometheusMiddleware(),
		middleware.RateLimitMiddleware(config.RateLimit),
		middleware.CircuitBreakerMiddleware(config.Breaker),
		middleware.StorageMiddleware(manager),
		middleware.SchedulerMiddleware(sched),
		middleware.CleanupMiddleware(cleanup),
	)

	if config.Metrics.Enabled {
		if err := metrics.StartMetricsServer(config.Metrics, engine); err != nil {
			return nil, fmt.Errorf("start metrics server: %w", err)
		}
	}

	api.RegisterGroup(engine)

	return &App{
		Engine:    engine,
		config:    config,
		manager:   manager,
		scheduler: sched,
		cleanup:   cleanup,
	}, nil
}

// Run 启动调度器与HTTP服务，阻塞至收到退出信号后优雅关停.
func (a *App) Run() error {
	a.scheduler.Start()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port),
		Handler:           a.Engine,
		ReadHeaderTimeout: a.config.Server.GetTimeoutDuration(),
	}

	errCh := make(chan error, 1)

	go func() {
		log.Logger().Info().Str("addr", srv.Addr).Msg("http server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		a.shutdown()
		return err
	case sig := <-quit:
		log.Logger().Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := contextPkg.WithTimeout(contextPkg.Background(), a.config.Server.GetTimeoutDuration())
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Logger().Error().Err(err).Msg("http server shutdown")
	}

	a.shutdown()

	return nil
}

// shutdown 停止调度器并释放存储连接. 调度器停止只抑制后续触发，进行中的清理会跑完.
func (a *App) shutdown() {
	if err := a.scheduler.Stop(); err != nil {
		log.Logger().Error().Err(err).Msg("scheduler stop")
	}

	if err := a.manager.Close(); err != nil {
		log.Logger().Error().Err(err).Msg("storage close")
	}
}
