// @title        Library API
// @version      1.0
// @description  圖書館借閱系統的後端 API 文件
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	_ "library-api/docs" // 引入 swag 產出的 docs

	"library-api/internal/cache"
	"library-api/internal/config"
	"library-api/internal/database"
	"library-api/internal/logging"
	"library-api/internal/middleware"
	"library-api/internal/notify"
	"library-api/internal/router"
	"library-api/internal/server"
	"library-api/internal/service"
	"library-api/internal/worker"
)

const shutdownTimeout = 10 * time.Second

var (
	loadConfig      = config.Load
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	rollbackFn      = database.RollbackAll
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	newWorkerPool   = worker.NewPool
	exitFunc        = os.Exit
)

// setup 讀設定並建立 logger，每個子命令共用
func setup(path string) (*config.Config, zerolog.Logger, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("設定載入失敗: %w", err)
	}
	return cfg, logging.New(cfg.Log.Level, cfg.Log.Format), nil
}

// notifier 建立通知用的 worker pool 與 dispatcher；呼叫端負責 pool.Stop
func notifier(cfg *config.Config, log zerolog.Logger) (worker.Pool, *notify.Dispatcher) {
	pool := newWorkerPool(cfg.WorkerCount, 0, log)
	return pool, notify.NewDispatcher(pool, notify.NewMailer(cfg.SMTP, log), log)
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "library-api",
		Short:         "圖書館借閱系統 API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), cfgPath)
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "YAML 設定檔路徑 (選用)")
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "執行 migration 後啟動 HTTP server",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd.Context(), cfgPath)
			},
		},
		newMigrateCmd(&cfgPath),
		newSeedAdminCmd(&cfgPath),
		newSweepCmd(&cfgPath),
	)
	return root
}

func serve(ctx context.Context, cfgPath string) error {
	cfg, log, err := setup(cfgPath)
	if err != nil {
		return err
	}

	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	rdb, err := newRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %w", err)
	}
	defer rdb.Close()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	pool, dispatcher := notifier(cfg, log)
	defer pool.Stop()

	accounts := service.NewAuthService(db, service.NewTokenIssuer(cfg.JWT), cache.NewRevocationList(rdb))
	loans := service.NewLoanService(db, dispatcher)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		notify.NewSweeper(loans, dispatcher, cfg.ReminderDays, log).Start(sweepCtx, cfg.SweepInterval)
	}()
	// sweeper 要在 pool.Stop 之前結束
	defer func() {
		stopSweep()
		<-sweepDone
	}()

	e := server.New(log)
	router.Setup(e, router.Deps{
		DB:        db,
		Cache:     rdb,
		Auth:      middleware.NewAuth(accounts),
		Accounts:  accounts,
		Catalog:   service.NewCatalogService(db),
		Loans:     loans,
		Users:     service.NewUserService(db),
		AccessTTL: cfg.JWT.AccessTTL,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- startServer(e, cfg.HTTPAddr) }()
	log.Info().Str("addr", cfg.HTTPAddr).Msg("server started")

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server 啟動失敗: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server 關閉失敗: %w", err)
	}
	return nil
}

// execute 執行 CLI 並回傳 exit code
func execute(ctx context.Context, args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "錯誤:", err)
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:])
	stop()
	exitFunc(code)
}
