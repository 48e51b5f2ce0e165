package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/AsesorVial/mi-asesor-vial-backend/api"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/advisor"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/config"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/database"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/health"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/shutdown"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/snapshot"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/startup"
	"github.com/AsesorVial/mi-asesor-vial-backend/pkg/lifecycle"
	"github.com/AsesorVial/mi-asesor-vial-backend/pkg/token"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env仅用于本地开发，不存在时静默忽略
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}

	token.Configure(cfg.Auth.JwtSecret, cfg.Auth.TokenTTLHours)
	advisor.Configure(cfg.Advisor)
	database.InitDB(cfg.Database)
	database.InitRedis(cfg.Database.Redis)

	// 1. 阻塞式获取初始Run ID
	health.InitializeRunID()

	// 2. 执行应用首次启动初始化流程
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 3. 阻塞式执行一次启动后健康检查
	fmt.Println("正在执行启动后健康检查...")
	health.PerformCheck()

	// 4. 异步启动后台的持续健康检查器
	go health.StartRedisHealthCheck()

	// 5. 启动受生命周期管理的后台任务
	gracefulMgr := lifecycle.NewManager()
	forcefulMgr := lifecycle.NewManager()
	snapshotHandle, err := gracefulMgr.NewServiceHandle("snapshot-scheduler")
	if err != nil {
		panic(fmt.Sprintf("注册快照调度器失败: %v", err))
	}
	go snapshot.StartSnapshotScheduler(
		snapshotHandle,
		time.Duration(cfg.Snapshot.IntervalSeconds)*time.Second,
	)

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic("Failed to start server: " + err.Error())
		}
	}()

	// 阻塞等待停机信号，并编排优雅停机
	coordinator := shutdown.NewCoordinator(gracefulMgr, forcefulMgr)
	coordinator.ListenForSignalsAndShutdown(server)
}
